package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driving"
)

var (
	addPlate      string
	addType       string
	addTechnician string
	addLocation   string
	addHours      float64
	addDate       string
	addNotes      string
	addPhotos     []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new service entry",
	Long: `Record a completed detailing job.

The plate is normalised to upper case. Valid service types:
  ` + strings.Join(domain.ServiceTypes(), ", ") + `

Known locations:
  ` + strings.Join(domain.Locations(), ", ") + `

Photos given with --photo are copied into the photo directory and linked
to the entry.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addPlate, "plate", "p", "", "vehicle license plate (required)")
	addCmd.Flags().StringVarP(&addType, "type", "t", "", "service type performed (required)")
	addCmd.Flags().StringVarP(&addTechnician, "technician", "T", "", "technician who did the work (required)")
	addCmd.Flags().StringVarP(&addLocation, "location", "l", "", "bay or location")
	addCmd.Flags().Float64Var(&addHours, "hours", 0, "time spent in hours (required)")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "service date as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "free-form notes")
	addCmd.Flags().StringArrayVar(&addPhotos, "photo", nil, "photo file to attach (repeatable)")

	_ = addCmd.MarkFlagRequired("plate")
	_ = addCmd.MarkFlagRequired("type")
	_ = addCmd.MarkFlagRequired("technician")
	_ = addCmd.MarkFlagRequired("hours")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	serviceDate := time.Now()
	if addDate != "" {
		var err error
		serviceDate, err = parseDate(addDate)
		if err != nil {
			return err
		}
	}

	entry := domain.Entry{
		Plate:       addPlate,
		ServiceType: addType,
		Technician:  addTechnician,
		Location:    addLocation,
		Hours:       addHours,
		ServiceDate: serviceDate,
		Notes:       addNotes,
	}

	ctx := context.Background()
	id, err := entryService.Create(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}

	cmd.Printf("Entry #%d recorded.\n", id)

	if len(addPhotos) > 0 {
		uploads, err := readPhotoUploads(addPhotos)
		if err != nil {
			return err
		}
		saved, err := entryService.AttachPhotos(ctx, id, uploads)
		if err != nil {
			return fmt.Errorf("failed to attach photos: %w", err)
		}
		cmd.Printf("Attached %d photos.\n", len(saved))
	}
	return nil
}

// readPhotoUploads loads photo files named on the command line.
func readPhotoUploads(paths []string) ([]driving.PhotoUpload, error) {
	uploads := make([]driving.PhotoUpload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading photo %s: %w", path, err)
		}
		uploads = append(uploads, driving.PhotoUpload{
			Name: filepath.Base(path),
			Data: data,
		})
	}
	return uploads, nil
}
