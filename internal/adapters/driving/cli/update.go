package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updatePlate      string
	updateType       string
	updateTechnician string
	updateLocation   string
	updateHours      float64
	updateDate       string
	updateNotes      string
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit a service entry",
	Long: `Edit an existing entry. Only the fields given as flags change;
everything else keeps its current value.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updatePlate, "plate", "p", "", "vehicle license plate")
	updateCmd.Flags().StringVarP(&updateType, "type", "t", "", "service type performed")
	updateCmd.Flags().StringVarP(&updateTechnician, "technician", "T", "", "technician who did the work")
	updateCmd.Flags().StringVarP(&updateLocation, "location", "l", "", "bay or location")
	updateCmd.Flags().Float64Var(&updateHours, "hours", 0, "time spent in hours")
	updateCmd.Flags().StringVarP(&updateDate, "date", "d", "", "service date as YYYY-MM-DD")
	updateCmd.Flags().StringVarP(&updateNotes, "notes", "n", "", "free-form notes")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	id, err := parseEntryID(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	entry, err := entryService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("plate") {
		entry.Plate = updatePlate
	}
	if flags.Changed("type") {
		entry.ServiceType = updateType
	}
	if flags.Changed("technician") {
		entry.Technician = updateTechnician
	}
	if flags.Changed("location") {
		entry.Location = updateLocation
	}
	if flags.Changed("hours") {
		entry.Hours = updateHours
	}
	if flags.Changed("date") {
		entry.ServiceDate, err = parseDate(updateDate)
		if err != nil {
			return err
		}
	}
	if flags.Changed("notes") {
		entry.Notes = updateNotes
	}

	ok, err := entryService.Update(ctx, id, *entry)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("entry #%d not found", id)
	}

	cmd.Printf("Entry #%d updated.\n", id)
	return nil
}
