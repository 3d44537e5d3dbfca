package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

// parseEntryID converts a positional id argument.
func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", arg)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD flag value in local time.
func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// resolveDateRange turns a preset name or a from/to pair into an
// inclusive date range. Presets: today, 7d, 30d, month.
func resolveDateRange(preset, from, to string) (time.Time, time.Time, error) {
	today := domain.DateOf(time.Now())

	switch preset {
	case "":
		// Fall through to explicit dates.
	case "today":
		return today, today, nil
	case "7d":
		return today.AddDate(0, 0, -6), today, nil
	case "30d":
		return today.AddDate(0, 0, -29), today, nil
	case "month":
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.Local), today, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range %q, expected today, 7d, 30d, or month", preset)
	}

	if from == "" || to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("both --from and --to are required without --range")
	}

	start, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return start, end, nil
}

// printEntry writes the full detail view of one entry.
func printEntry(cmd *cobra.Command, e *domain.Entry) {
	cmd.Printf("Entry #%d\n\n", e.ID)
	cmd.Printf("  Plate:       %s\n", e.Plate)
	cmd.Printf("  Service:     %s\n", e.ServiceType)
	cmd.Printf("  Technician:  %s\n", e.Technician)
	if e.Location != "" {
		cmd.Printf("  Location:    %s\n", e.Location)
	}
	cmd.Printf("  Hours:       %s\n", domain.FormatHours(e.Hours))
	cmd.Printf("  Date:        %s\n", e.ServiceDate.Format(domain.DateFormat))
	if e.Notes != "" {
		cmd.Printf("  Notes:       %s\n", e.Notes)
	}
	if len(e.Photos) > 0 {
		cmd.Printf("  Photos:      %s\n", strings.Join(e.Photos, ", "))
	}
	if !e.CreatedAt.IsZero() {
		cmd.Printf("  Recorded:    %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

// printEntryList writes one line per entry plus a total.
func printEntryList(cmd *cobra.Command, entries []domain.Entry) {
	if len(entries) == 0 {
		cmd.Println("No entries found.")
		return
	}

	for i := range entries {
		e := &entries[i]
		line := fmt.Sprintf("  #%-4d %s  %-10s %-22s %-6s %s",
			e.ID, e.ServiceDate.Format(domain.DateFormat), e.Plate,
			e.ServiceType, domain.FormatHours(e.Hours), e.Technician)
		if len(e.Photos) > 0 {
			line += fmt.Sprintf("  [%d photos]", len(e.Photos))
		}
		cmd.Println(line)
	}
	cmd.Printf("\nTotal: %d entries\n", len(entries))
}
