package driving

import (
	"context"
	"time"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

// ReportService computes aggregates for the dashboard and reports views.
type ReportService interface {
	// Summary returns whole-table statistics.
	Summary(ctx context.Context) (*domain.SummaryStats, error)

	// DurationStats reduces the entries in the inclusive date range
	// to min/max/avg/total hours.
	DurationStats(ctx context.Context, start, end time.Time) (domain.DurationStats, error)

	// TechnicianStats groups the entries in the inclusive date range
	// by technician.
	TechnicianStats(ctx context.Context, start, end time.Time) (map[string]domain.TechnicianStats, error)
}
