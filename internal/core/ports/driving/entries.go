package driving

import (
	"context"
	"time"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

// PhotoUpload is one image handed to AttachPhotos. Only the extension of
// Name survives into the stored filename.
type PhotoUpload struct {
	// Name is the original filename as uploaded.
	Name string

	// Data is the raw image bytes.
	Data []byte
}

// EntryService manages the lifecycle of detailing entries.
type EntryService interface {
	// Create validates, normalises, and persists a new entry, returning
	// the assigned id. A *domain.ValidationError carries every failed
	// field check; in that case nothing was persisted.
	Create(ctx context.Context, entry domain.Entry) (int64, error)

	// Get retrieves an entry by id. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.Entry, error)

	// ListRecent returns at most limit entries, most recent first.
	ListRecent(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListByDateRange returns entries within the inclusive date range.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Entry, error)

	// ListByPlate returns the history for one vehicle. The plate is
	// normalised before matching.
	ListByPlate(ctx context.Context, plate string) ([]domain.Entry, error)

	// Update validates and replaces all mutable fields of an entry.
	// Returns false when the id does not exist.
	Update(ctx context.Context, id int64, entry domain.Entry) (bool, error)

	// Delete removes an entry and best-effort removes its photo files.
	// Photo removal failures are logged and swallowed; the row deletion
	// still counts. Returns false when the id does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// AttachPhotos stores uploads for an existing entry and appends
	// their filenames to its photo list.
	AttachPhotos(ctx context.Context, id int64, uploads []PhotoUpload) ([]string, error)
}
