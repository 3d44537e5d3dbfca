package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a service entry",
	Long:  `Delete an entry and its attached photo files.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	id, err := parseEntryID(args[0])
	if err != nil {
		return err
	}

	ok, err := entryService.Delete(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("entry #%d not found", id)
	}

	cmd.Printf("Entry #%d deleted.\n", id)
	return nil
}
