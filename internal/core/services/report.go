package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService computes dashboard and report aggregates. Whole-table
// numbers come from the store's own aggregation; ranged statistics are
// pure reductions over a fetched slice.
type ReportService struct {
	store driven.EntryStore
}

// NewReportService creates a new report service.
func NewReportService(store driven.EntryStore) *ReportService {
	return &ReportService{store: store}
}

// Summary returns whole-table statistics.
func (s *ReportService) Summary(ctx context.Context) (*domain.SummaryStats, error) {
	stats, err := s.store.SummaryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing summary stats: %w", err)
	}
	return stats, nil
}

// DurationStats reduces the entries in the inclusive date range to
// min/max/avg/total hours.
func (s *ReportService) DurationStats(ctx context.Context, start, end time.Time) (domain.DurationStats, error) {
	entries, err := s.store.ListByDateRange(ctx, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return domain.DurationStats{}, fmt.Errorf("listing entries for duration stats: %w", err)
	}
	return domain.ComputeDurationStats(entries), nil
}

// TechnicianStats groups the entries in the inclusive date range by
// technician.
func (s *ReportService) TechnicianStats(ctx context.Context, start, end time.Time) (map[string]domain.TechnicianStats, error) {
	entries, err := s.store.ListByDateRange(ctx, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("listing entries for technician stats: %w", err)
	}
	return domain.StatsByTechnician(entries), nil
}
