package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/memory"
	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

func TestReportService_Summary(t *testing.T) {
	store := memory.NewEntryStore()
	ctx := context.Background()

	e := validEntry()
	e.Hours = 3
	_, err := store.Insert(ctx, e)
	require.NoError(t, err)

	svc := NewReportService(store)
	stats, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
	assert.InDelta(t, 3.0, stats.TotalHours, 0.0001)
}

func TestReportService_DurationStats(t *testing.T) {
	store := memory.NewEntryStore()
	ctx := context.Background()

	for _, hours := range []float64{1, 2, 6} {
		e := validEntry()
		e.Hours = hours
		e.ServiceDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
		_, err := store.Insert(ctx, e)
		require.NoError(t, err)
	}

	// Outside the queried range.
	outside := validEntry()
	outside.Hours = 24
	outside.ServiceDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	_, err := store.Insert(ctx, outside)
	require.NoError(t, err)

	svc := NewReportService(store)
	stats, err := svc.DurationStats(ctx,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, stats.Min, 0.0001)
	assert.InDelta(t, 6.0, stats.Max, 0.0001)
	assert.InDelta(t, 3.0, stats.Avg, 0.0001)
	assert.InDelta(t, 9.0, stats.Total, 0.0001)
}

func TestReportService_TechnicianStats(t *testing.T) {
	store := memory.NewEntryStore()
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	jobs := []struct {
		tech        string
		serviceType string
		hours       float64
	}{
		{"Dana Fox", "Full Detail", 2},
		{"Dana Fox", "Wash & Wax", 1},
		{"Dana Fox", "Wash & Wax", 1.5},
		{"Sam Reed", "Full Detail", 3},
	}
	for _, job := range jobs {
		e := domain.Entry{
			Plate: "ABC-123", ServiceType: job.serviceType,
			Technician: job.tech, Hours: job.hours, ServiceDate: date,
		}
		_, err := store.Insert(ctx, e)
		require.NoError(t, err)
	}

	svc := NewReportService(store)
	stats, err := svc.TechnicianStats(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, stats, 2)

	dana := stats["Dana Fox"]
	assert.Equal(t, 3, dana.Entries)
	assert.InDelta(t, 4.5, dana.TotalHours, 0.0001)
	assert.Equal(t, 2, dana.UniqueServiceTypes)

	sam := stats["Sam Reed"]
	assert.Equal(t, 1, sam.Entries)
	assert.Equal(t, 1, sam.UniqueServiceTypes)
}
