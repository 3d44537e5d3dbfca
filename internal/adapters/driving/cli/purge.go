package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearcoat-labs/detail-cli/internal/core/services"
)

var (
	purgeOlderThan int
	purgeDryRun    bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete entries older than a number of days",
	Long: `Delete entries recorded more than the given number of days ago,
along with their photo files. Nothing is purged unless --older-than is
given or retention_days is set in the configuration.

Use --dry-run to see what would be removed.`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().IntVar(&purgeOlderThan, "older-than", 0, "age threshold in days")
	purgeCmd.Flags().BoolVar(&purgeDryRun, "dry-run", false, "only report what would be deleted")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if store == nil {
		return errors.New("storage backend not configured")
	}

	days := purgeOlderThan
	if days == 0 && cfg != nil {
		days = cfg.RetentionDays
	}
	if days <= 0 {
		return errors.New("give --older-than or set retention_days in the configuration")
	}

	ctx := context.Background()

	if purgeDryRun {
		return runPurgePreview(ctx, cmd, days)
	}

	retention := services.NewRetentionService(store, photoStore, log, days)
	removed, err := retention.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge: %w", err)
	}

	cmd.Printf("Purged %d entries older than %d days.\n", removed, days)
	return nil
}

// runPurgePreview counts what a purge pass would remove.
func runPurgePreview(ctx context.Context, cmd *cobra.Command, days int) error {
	entries, err := entryService.ListRecent(ctx, 10000)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	count := 0
	for i := range entries {
		if entries[i].CreatedAt.Before(cutoff) {
			count++
		}
	}

	cmd.Printf("Would purge %d entries older than %d days.\n", count, days)
	return nil
}
