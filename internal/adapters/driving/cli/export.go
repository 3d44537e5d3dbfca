package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
)

var (
	exportFormat string
	exportOut    string
	exportRange  string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries to a file",
	Long: `Export entries as CSV, JSON, or an Excel workbook.

Without a date filter the whole table is exported. The output filename
defaults to a timestamped name in the current directory.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv, json, xlsx)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file path")
	exportCmd.Flags().StringVarP(&exportRange, "range", "r", "", "date range preset (today, 7d, 30d, month)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "range start as YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "range end as YYYY-MM-DD")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	format := driving.ExportFormat(exportFormat)
	switch format {
	case driving.FormatCSV, driving.FormatJSON, driving.FormatXLSX:
	default:
		return fmt.Errorf("unknown format %q, expected csv, json, or xlsx", exportFormat)
	}

	var start, end time.Time
	if exportRange != "" || exportFrom != "" || exportTo != "" {
		var err error
		start, end, err = resolveDateRange(exportRange, exportFrom, exportTo)
		if err != nil {
			return err
		}
	}

	data, err := exportService.Export(context.Background(), format, start, end)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	out := exportOut
	if out == "" {
		out = exportService.Filename(format)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	cmd.Printf("Exported %d bytes to %s\n", len(data), out)
	return nil
}
