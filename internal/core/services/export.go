package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// maxExportRows caps a whole-table export. Well above any realistic
// table size for a single shop.
const maxExportRows = 10000

// exportHeaders are the human-readable column names shared by every
// export format, in column order.
var exportHeaders = []string{
	"ID", "License Plate", "Service Type", "Technician",
	"Location", "Hours", "Date", "Notes", "Photos", "Created At",
}

// exportRow mirrors one entry in the JSON export.
type exportRow struct {
	ID          int64    `json:"id"`
	Plate       string   `json:"license_plate"`
	ServiceType string   `json:"service_type"`
	Technician  string   `json:"technician"`
	Location    string   `json:"location,omitempty"`
	Hours       float64  `json:"hours"`
	ServiceDate string   `json:"service_date"`
	Notes       string   `json:"notes,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// ExportService renders entries to in-memory byte streams.
type ExportService struct {
	store driven.EntryStore
	now   func() time.Time
}

// NewExportService creates a new export service.
func NewExportService(store driven.EntryStore) *ExportService {
	return &ExportService{
		store: store,
		now:   time.Now,
	}
}

// Export serialises all entries in the inclusive date range.
// Zero start and end export the whole table.
func (s *ExportService) Export(ctx context.Context, format driving.ExportFormat, start, end time.Time) ([]byte, error) {
	entries, err := s.fetch(ctx, start, end)
	if err != nil {
		return nil, err
	}

	switch format {
	case driving.FormatCSV:
		return renderCSV(entries)
	case driving.FormatJSON:
		return renderJSON(entries)
	case driving.FormatXLSX:
		return renderXLSX(entries)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
}

// Filename suggests a timestamped download name for the format.
func (s *ExportService) Filename(format driving.ExportFormat) string {
	return fmt.Sprintf("detailing_report_%s.%s", s.now().Format("20060102_150405"), format)
}

func (s *ExportService) fetch(ctx context.Context, start, end time.Time) ([]domain.Entry, error) {
	if start.IsZero() && end.IsZero() {
		entries, err := s.store.ListRecent(ctx, maxExportRows)
		if err != nil {
			return nil, fmt.Errorf("listing entries for export: %w", err)
		}
		return entries, nil
	}

	entries, err := s.store.ListByDateRange(ctx, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("listing entries for export: %w", err)
	}
	return entries, nil
}

func toRow(e domain.Entry) exportRow {
	return exportRow{
		ID:          e.ID,
		Plate:       e.Plate,
		ServiceType: e.ServiceType,
		Technician:  e.Technician,
		Location:    e.Location,
		Hours:       e.Hours,
		ServiceDate: e.ServiceDate.Format(domain.DateFormat),
		Notes:       e.Notes,
		Photos:      e.Photos,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func renderCSV(entries []domain.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	for _, e := range entries {
		row := toRow(e)
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.Plate,
			row.ServiceType,
			row.Technician,
			row.Location,
			strconv.FormatFloat(row.Hours, 'f', -1, 64),
			row.ServiceDate,
			row.Notes,
			domain.JoinPhotos(row.Photos),
			row.CreatedAt,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderJSON(entries []domain.Entry) ([]byte, error) {
	rows := make([]exportRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toRow(e))
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling json export: %w", err)
	}
	return data, nil
}

func renderXLSX(entries []domain.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	const sheet = "Entries"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing sheet header: %w", err)
	}

	for i, e := range entries {
		row := toRow(e)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("computing cell name: %w", err)
		}
		values := []any{
			row.ID, row.Plate, row.ServiceType, row.Technician,
			row.Location, row.Hours, row.ServiceDate, row.Notes,
			domain.JoinPhotos(row.Photos), row.CreatedAt,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("writing sheet row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("rendering workbook: %w", err)
	}
	return buf.Bytes(), nil
}
