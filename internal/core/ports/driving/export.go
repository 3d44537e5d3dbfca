package driving

import (
	"context"
	"time"
)

// ExportFormat selects the serialisation for an export.
type ExportFormat string

const (
	// FormatCSV exports one row per entry with human-readable headers.
	FormatCSV ExportFormat = "csv"
	// FormatJSON exports the same field set as a JSON array.
	FormatJSON ExportFormat = "json"
	// FormatXLSX exports a spreadsheet with the same columns as the CSV.
	FormatXLSX ExportFormat = "xlsx"
)

// ExportService renders entries to downloadable byte streams. Nothing is
// retained server-side; every export is generated on demand in memory.
type ExportService interface {
	// Export serialises all entries in the inclusive date range.
	// Zero start and end mean the whole table.
	Export(ctx context.Context, format ExportFormat, start, end time.Time) ([]byte, error)

	// Filename suggests a timestamped download name for the format.
	Filename(format ExportFormat) string
}

// Retention purges entries older than a configured age. It only exists
// when retention is explicitly enabled; nothing is purged by default.
type Retention interface {
	// RunOnce performs a single purge pass and returns the number of
	// entries removed.
	RunOnce(ctx context.Context) (int64, error)

	// Start runs purge passes on an interval until the context is
	// cancelled or Stop is called. Blocks.
	Start(ctx context.Context) error

	// Stop shuts the loop down and waits for an in-flight pass.
	Stop() error
}
