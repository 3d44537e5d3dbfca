package driven

import (
	"context"
	"time"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

// EntryStore persists detailing entries. One implementation exists per
// storage backend (SQLite, Postgres, REST table store, in-memory); the
// rest of the application never knows which one is active.
//
// All list methods return entries ordered by service date descending,
// then creation time descending. Backend failures surface as wrapped
// errors; adapters never retry.
type EntryStore interface {
	// Insert persists a new entry and returns the assigned id.
	// The backend sets both the id and the creation timestamp;
	// a failed insert writes nothing.
	Insert(ctx context.Context, entry domain.Entry) (int64, error)

	// Get retrieves an entry by id.
	// Returns domain.ErrNotFound if no such entry exists.
	Get(ctx context.Context, id int64) (*domain.Entry, error)

	// ListRecent returns at most limit entries, most recent first.
	ListRecent(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListByDateRange returns entries with start <= service date <= end.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Entry, error)

	// ListByPlate returns entries matching the normalised plate exactly.
	ListByPlate(ctx context.Context, plate string) ([]domain.Entry, error)

	// Update replaces all mutable fields of an entry.
	// Returns false, not an error, when the id does not exist.
	Update(ctx context.Context, id int64, entry domain.Entry) (bool, error)

	// Delete removes an entry. Returns false when the id does not exist.
	// Photo file cleanup is the caller's concern, not the store's.
	Delete(ctx context.Context, id int64) (bool, error)

	// SummaryStats aggregates over the whole table.
	SummaryStats(ctx context.Context) (*domain.SummaryStats, error)

	// PurgeOlderThan deletes entries created before the cutoff and
	// returns the removed entries, so callers can clean up the photo
	// files they referenced.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Entry, error)

	// Close releases the backend connection. Safe on backends that
	// hold no resources.
	Close() error
}
