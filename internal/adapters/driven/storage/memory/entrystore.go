// Package memory provides an in-memory EntryStore for tests and
// ephemeral demo use. It is process-local and loses everything on exit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
)

// Ensure EntryStore implements the interface.
var _ driven.EntryStore = (*EntryStore)(nil)

// EntryStore is an in-memory implementation of driven.EntryStore.
type EntryStore struct {
	mu      sync.RWMutex
	entries map[int64]domain.Entry
	nextID  int64

	// Now supplies creation timestamps. Overridable in tests.
	Now func() time.Time
}

// NewEntryStore creates a new in-memory entry store.
func NewEntryStore() *EntryStore {
	return &EntryStore{
		entries: make(map[int64]domain.Entry),
		nextID:  1,
		Now:     time.Now,
	}
}

// Insert persists a new entry and returns the assigned id.
func (s *EntryStore) Insert(_ context.Context, entry domain.Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextID
	entry.CreatedAt = s.Now()
	s.nextID++
	s.entries[entry.ID] = entry
	return entry.ID, nil
}

// Get retrieves an entry by id.
func (s *EntryStore) Get(_ context.Context, id int64) (*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// ListRecent returns at most limit entries, most recent first.
func (s *EntryStore) ListRecent(_ context.Context, limit int) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.sorted(func(domain.Entry) bool { return true })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ListByDateRange returns entries with start <= service date <= end.
func (s *EntryStore) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(e domain.Entry) bool {
		d := domain.DateOf(e.ServiceDate)
		return !d.Before(domain.DateOf(start)) && !d.After(domain.DateOf(end))
	}), nil
}

// ListByPlate returns entries matching the normalised plate exactly.
func (s *EntryStore) ListByPlate(_ context.Context, plate string) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(e domain.Entry) bool { return e.Plate == plate }), nil
}

// Update replaces all mutable fields of an entry.
func (s *EntryStore) Update(_ context.Context, id int64, entry domain.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[id]
	if !ok {
		return false, nil
	}

	// id and created_at are immutable.
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt
	s.entries[id] = entry
	return true, nil
}

// Delete removes an entry.
func (s *EntryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

// SummaryStats aggregates over the whole table.
func (s *EntryStore) SummaryStats(_ context.Context) (*domain.SummaryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.SummaryStats{MostCommonType: "N/A"}
	today := domain.DateOf(s.Now())
	typeCounts := make(map[string]int)

	for _, e := range s.entries {
		stats.TotalEntries++
		stats.TotalHours += e.Hours
		if domain.DateOf(e.ServiceDate).Equal(today) {
			stats.TodayEntries++
			stats.TodayHours += e.Hours
		}
		typeCounts[e.ServiceType]++
	}

	best := 0
	for serviceType, count := range typeCounts {
		if count > best {
			best = count
			stats.MostCommonType = serviceType
		}
	}
	return stats, nil
}

// PurgeOlderThan deletes entries created before the cutoff.
func (s *EntryStore) PurgeOlderThan(_ context.Context, cutoff time.Time) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged []domain.Entry
	for id, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			purged = append(purged, e)
			delete(s.entries, id)
		}
	}
	return purged, nil
}

// Close is a no-op; the store holds no external resources.
func (s *EntryStore) Close() error {
	return nil
}

// sorted returns matching entries ordered by service date descending,
// creation time descending, id descending. Callers must hold the lock.
func (s *EntryStore) sorted(match func(domain.Entry) bool) []domain.Entry {
	var entries []domain.Entry
	for _, e := range s.entries {
		if match(e) {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		di, dj := domain.DateOf(entries[i].ServiceDate), domain.DateOf(entries[j].ServiceDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries
}
