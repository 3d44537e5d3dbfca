package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/memory"
	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
)

func seedStore(t *testing.T) *memory.EntryStore {
	t.Helper()
	store := memory.NewEntryStore()
	ctx := context.Background()

	entries := []domain.Entry{
		{
			Plate: "ABC-123", ServiceType: "Full Detail", Technician: "Dana Fox",
			Location: "Bay 1", Hours: 2.5, Notes: "ceramic coat",
			ServiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local),
			Photos:      []string{"entry_1_a.jpg"},
		},
		{
			Plate: "XYZ-789", ServiceType: "Wash & Wax", Technician: "Sam Reed",
			Hours:       1,
			ServiceDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local),
		},
	}
	for _, e := range entries {
		_, err := store.Insert(ctx, e)
		require.NoError(t, err)
	}
	return store
}

func TestExportService_CSV_RoundTrip(t *testing.T) {
	svc := NewExportService(seedStore(t))

	data, err := svc.Export(context.Background(), driving.FormatCSV, time.Time{}, time.Time{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	assert.Equal(t, exportHeaders, records[0])

	// Rows come back most recent service date first.
	assert.Equal(t, "XYZ-789", records[1][1])
	assert.Equal(t, "2026-03-05", records[1][6])
	assert.Equal(t, "1", records[1][5])

	assert.Equal(t, "ABC-123", records[2][1])
	assert.Equal(t, "2.5", records[2][5])
	assert.Equal(t, "entry_1_a.jpg", records[2][8])
}

func TestExportService_JSON(t *testing.T) {
	svc := NewExportService(seedStore(t))

	data, err := svc.Export(context.Background(), driving.FormatJSON, time.Time{}, time.Time{})
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "XYZ-789", rows[0]["license_plate"])
	assert.Equal(t, "2026-03-05", rows[0]["service_date"])
	// Empty optional fields are omitted entirely.
	_, hasNotes := rows[0]["notes"]
	assert.False(t, hasNotes)
}

func TestExportService_XLSX(t *testing.T) {
	svc := NewExportService(seedStore(t))

	data, err := svc.Export(context.Background(), driving.FormatXLSX, time.Time{}, time.Time{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Entries")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "License Plate", rows[0][1])
	assert.Equal(t, "XYZ-789", rows[1][1])
}

func TestExportService_DateRangeFilters(t *testing.T) {
	svc := NewExportService(seedStore(t))

	start := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local)

	data, err := svc.Export(context.Background(), driving.FormatCSV, start, end)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + 1 row
	assert.Equal(t, "XYZ-789", records[1][1])
}

func TestExportService_UnknownFormat(t *testing.T) {
	svc := NewExportService(memory.NewEntryStore())

	_, err := svc.Export(context.Background(), driving.ExportFormat("pdf"), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportService_Filename(t *testing.T) {
	svc := NewExportService(memory.NewEntryStore())
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 14, 30, 45, 0, time.UTC)
	}

	assert.Equal(t, "detailing_report_20260315_143045.csv", svc.Filename(driving.FormatCSV))
	assert.Equal(t, "detailing_report_20260315_143045.xlsx", svc.Filename(driving.FormatXLSX))
}

func TestExportService_EmptyTable(t *testing.T) {
	svc := NewExportService(memory.NewEntryStore())

	data, err := svc.Export(context.Background(), driving.FormatCSV, time.Time{}, time.Time{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}
