package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchPlate string
	searchRange string
	searchFrom  string
	searchTo    string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search entries by plate or date range",
	Long: `Search entries by vehicle or by service date.

Use --plate for a vehicle's full history, or a date filter:
  --range today|7d|30d|month
  --from YYYY-MM-DD --to YYYY-MM-DD`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchPlate, "plate", "p", "", "license plate to look up")
	searchCmd.Flags().StringVarP(&searchRange, "range", "r", "", "date range preset (today, 7d, 30d, month)")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "range start as YYYY-MM-DD")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "range end as YYYY-MM-DD")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	ctx := context.Background()

	if searchPlate != "" {
		entries, err := entryService.ListByPlate(ctx, searchPlate)
		if err != nil {
			return fmt.Errorf("failed to search by plate: %w", err)
		}
		printEntryList(cmd, entries)
		return nil
	}

	if searchRange == "" && searchFrom == "" && searchTo == "" {
		return errors.New("give --plate, --range, or --from/--to")
	}

	start, end, err := resolveDateRange(searchRange, searchFrom, searchTo)
	if err != nil {
		return err
	}

	entries, err := entryService.ListByDateRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to search by date: %w", err)
	}
	printEntryList(cmd, entries)
	return nil
}
