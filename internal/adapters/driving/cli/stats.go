package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

var (
	statsByTechnician bool
	statsDuration     bool
	statsRange        string
	statsFrom         string
	statsTo           string
)

var (
	statsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statsLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(22)
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show shop statistics",
	Long: `Show whole-table statistics: entry counts, hours, and the most
common service type. With --duration or --by-technician, reduce a date
range instead (defaults to the last 30 days).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsByTechnician, "by-technician", false, "group the range by technician")
	statsCmd.Flags().BoolVar(&statsDuration, "duration", false, "show min/max/avg hours for the range")
	statsCmd.Flags().StringVarP(&statsRange, "range", "r", "", "date range preset (today, 7d, 30d, month)")
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "range start as YYYY-MM-DD")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "range end as YYYY-MM-DD")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	ctx := context.Background()

	if !statsByTechnician && !statsDuration {
		return runStatsSummary(ctx, cmd)
	}

	preset := statsRange
	if preset == "" && statsFrom == "" && statsTo == "" {
		preset = "30d"
	}
	start, end, err := resolveDateRange(preset, statsFrom, statsTo)
	if err != nil {
		return err
	}

	if statsDuration {
		if err := runStatsDuration(ctx, cmd, start, end); err != nil {
			return err
		}
	}
	if statsByTechnician {
		if err := runStatsByTechnician(ctx, cmd, start, end); err != nil {
			return err
		}
	}
	return nil
}

func runStatsSummary(ctx context.Context, cmd *cobra.Command) error {
	stats, err := reportService.Summary(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	cmd.Println(statsTitleStyle.Render("Shop Summary"))
	cmd.Println()
	printStat(cmd, "Total entries", fmt.Sprintf("%d", stats.TotalEntries))
	printStat(cmd, "Total hours", domain.FormatHours(stats.TotalHours))
	printStat(cmd, "Entries today", fmt.Sprintf("%d", stats.TodayEntries))
	printStat(cmd, "Hours today", domain.FormatHours(stats.TodayHours))
	printStat(cmd, "Most common service", stats.MostCommonType)
	return nil
}

func runStatsDuration(ctx context.Context, cmd *cobra.Command, start, end time.Time) error {
	stats, err := reportService.DurationStats(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to compute duration stats: %w", err)
	}

	cmd.Println(statsTitleStyle.Render(rangeTitle("Service Duration", start, end)))
	cmd.Println()
	printStat(cmd, "Shortest job", domain.FormatHours(stats.Min))
	printStat(cmd, "Longest job", domain.FormatHours(stats.Max))
	printStat(cmd, "Average", domain.FormatHours(stats.Avg))
	printStat(cmd, "Total", domain.FormatHours(stats.Total))
	return nil
}

func runStatsByTechnician(ctx context.Context, cmd *cobra.Command, start, end time.Time) error {
	stats, err := reportService.TechnicianStats(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to compute technician stats: %w", err)
	}

	cmd.Println(statsTitleStyle.Render(rangeTitle("By Technician", start, end)))
	cmd.Println()

	if len(stats) == 0 {
		cmd.Println("No entries in range.")
		return nil
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := stats[name]
		cmd.Printf("  %-22s %3d entries  %8s  %d service types\n",
			name, s.Entries, domain.FormatHours(s.TotalHours), s.UniqueServiceTypes)
	}
	return nil
}

func printStat(cmd *cobra.Command, label, value string) {
	cmd.Printf("  %s%s\n", statsLabelStyle.Render(label), value)
}

func rangeTitle(title string, start, end time.Time) string {
	return strings.Join([]string{
		title,
		start.Format(domain.DateFormat) + " to " + end.Format(domain.DateFormat),
	}, "  ")
}
