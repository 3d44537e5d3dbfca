package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
)

// Ensure EntryService implements the interface.
var _ driving.EntryService = (*EntryService)(nil)

// EntryService manages the lifecycle of detailing entries.
// All writes validate and normalise before touching the store.
type EntryService struct {
	store  driven.EntryStore
	photos driven.PhotoStore
	log    zerolog.Logger
}

// NewEntryService creates a new entry service.
func NewEntryService(store driven.EntryStore, photos driven.PhotoStore, log zerolog.Logger) *EntryService {
	return &EntryService{
		store:  store,
		photos: photos,
		log:    log,
	}
}

// Create validates, normalises, and persists a new entry.
// Validation collects every failed check before returning, so nothing
// is persisted when a *domain.ValidationError comes back.
func (s *EntryService) Create(ctx context.Context, entry domain.Entry) (int64, error) {
	entry.Normalize()

	if problems := domain.Validate(entry); len(problems) > 0 {
		return 0, &domain.ValidationError{Problems: problems}
	}

	id, err := s.store.Insert(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}
	return id, nil
}

// Get retrieves an entry by id.
func (s *EntryService) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	return s.store.Get(ctx, id)
}

// ListRecent returns at most limit entries, most recent first.
func (s *EntryService) ListRecent(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListRecent(ctx, limit)
}

// ListByDateRange returns entries within the inclusive date range.
func (s *EntryService) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Entry, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}
	return s.store.ListByDateRange(ctx, domain.DateOf(start), domain.DateOf(end))
}

// ListByPlate returns the history for one vehicle.
func (s *EntryService) ListByPlate(ctx context.Context, plate string) ([]domain.Entry, error) {
	normalized := domain.NormalizePlate(plate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty plate", domain.ErrInvalidInput)
	}
	return s.store.ListByPlate(ctx, normalized)
}

// Update validates and replaces all mutable fields of an entry.
// Returns false, not an error, when the id does not exist.
func (s *EntryService) Update(ctx context.Context, id int64, entry domain.Entry) (bool, error) {
	entry.Normalize()

	if problems := domain.Validate(entry); len(problems) > 0 {
		return false, &domain.ValidationError{Problems: problems}
	}

	ok, err := s.store.Update(ctx, id, entry)
	if err != nil {
		return false, fmt.Errorf("updating entry %d: %w", id, err)
	}
	return ok, nil
}

// Delete removes an entry and best-effort removes its photo files.
// The row deletion counts even when a photo file cannot be removed;
// such failures are logged and swallowed.
func (s *EntryService) Delete(ctx context.Context, id int64) (bool, error) {
	entry, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading entry %d: %w", id, err)
	}

	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting entry %d: %w", id, err)
	}
	if !ok {
		return false, nil
	}

	s.removePhotos(entry.Photos)
	return true, nil
}

// AttachPhotos stores uploads for an existing entry and appends their
// filenames to its photo list.
func (s *EntryService) AttachPhotos(ctx context.Context, id int64, uploads []driving.PhotoUpload) ([]string, error) {
	if s.photos == nil {
		return nil, fmt.Errorf("%w: no photo store configured", domain.ErrInvalidInput)
	}

	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var saved []string
	for i, upload := range uploads {
		filename, err := s.photos.Save(id, len(entry.Photos)+i, upload.Name, upload.Data)
		if err != nil {
			// Roll back the files written so far; the entry row is untouched.
			s.removePhotos(saved)
			return nil, fmt.Errorf("saving photo %q: %w", upload.Name, err)
		}
		saved = append(saved, filename)
	}

	entry.Photos = append(entry.Photos, saved...)
	if _, err := s.store.Update(ctx, id, *entry); err != nil {
		s.removePhotos(saved)
		return nil, fmt.Errorf("recording photos on entry %d: %w", id, err)
	}

	return saved, nil
}

// removePhotos deletes photo files best-effort, logging failures.
func (s *EntryService) removePhotos(filenames []string) {
	if s.photos == nil {
		return
	}
	for _, filename := range filenames {
		if err := s.photos.Remove(filename); err != nil {
			s.log.Warn().Err(err).Str("photo", filename).Msg("failed to remove photo file")
		}
	}
}
