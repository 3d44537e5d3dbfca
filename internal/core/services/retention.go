package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
)

// Ensure RetentionService implements the interface.
var _ driving.Retention = (*RetentionService)(nil)

// defaultCheckInterval is how often the loop looks for expired entries.
const defaultCheckInterval = time.Hour

// RetentionService purges entries whose creation time is older than a
// configured number of days, including their photo files. It is only
// constructed when retention is explicitly enabled; no data is ever
// destroyed implicitly.
type RetentionService struct {
	store    driven.EntryStore
	photos   driven.PhotoStore
	log      zerolog.Logger
	days     int
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRetentionService creates a retention service purging entries older
// than the given number of days. days must be positive.
func NewRetentionService(store driven.EntryStore, photos driven.PhotoStore, log zerolog.Logger, days int) *RetentionService {
	return &RetentionService{
		store:    store,
		photos:   photos,
		log:      log,
		days:     days,
		interval: defaultCheckInterval,
		now:      time.Now,
	}
}

// RunOnce performs a single purge pass and returns the number of
// entries removed.
func (s *RetentionService) RunOnce(ctx context.Context) (int64, error) {
	if s.days <= 0 {
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -s.days)
	purged, err := s.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging entries older than %d days: %w", s.days, err)
	}

	for _, entry := range purged {
		for _, filename := range entry.Photos {
			if s.photos == nil {
				continue
			}
			if err := s.photos.Remove(filename); err != nil {
				s.log.Warn().Err(err).Str("photo", filename).Msg("failed to remove photo of purged entry")
			}
		}
	}

	if len(purged) > 0 {
		s.log.Info().Int("entries", len(purged)).Int("days", s.days).Msg("retention purge removed entries")
	}
	return int64(len(purged)), nil
}

// Start runs purge passes on an interval until the context is cancelled
// or Stop is called. Blocks.
func (s *RetentionService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Purge immediately on startup, then on the interval.
	s.runPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

// Stop shuts the loop down and waits for an in-flight pass.
func (s *RetentionService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *RetentionService) runPass(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error().Err(err).Msg("retention pass failed")
	}
}
