package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one service entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	id, err := parseEntryID(args[0])
	if err != nil {
		return err
	}

	entry, err := entryService.Get(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	if getJSON {
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printEntry(cmd, entry)
	return nil
}
