package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical representation for service dates.
// Service dates carry day precision only; time-of-day is always midnight.
const DateFormat = "2006-01-02"

// PhotoDelimiter separates photo filenames in their persisted form.
const PhotoDelimiter = ","

// Entry represents one detailing job logged by the shop.
type Entry struct {
	// ID is the surrogate key assigned by the storage backend on insert.
	// IDs are never reused, even after deletion.
	ID int64

	// Plate is the vehicle licence plate, stored uppercase and trimmed.
	Plate string

	// ServiceType is one of the fixed catalog values (see ServiceTypes).
	ServiceType string

	// Technician is the name of the person who did the work.
	Technician string

	// Location names the work bay or area. Optional.
	Location string

	// Hours is the billed duration. Valid values are greater than zero
	// and at most 24.
	Hours float64

	// ServiceDate is the calendar date the work was done.
	ServiceDate time.Time

	// Notes is free-form text. Optional.
	Notes string

	// Photos holds the ordered filenames of attached images. Optional.
	Photos []string

	// CreatedAt is set once by the storage backend at insert time and
	// breaks ties between entries sharing a service date.
	CreatedAt time.Time
}

// NormalizePlate uppercases and trims a licence plate for storage
// and exact-match lookups.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Normalize applies the storage form to all free-text fields:
// the plate is uppercased and trimmed, everything else is trimmed,
// and the service date is truncated to day precision.
func (e *Entry) Normalize() {
	e.Plate = NormalizePlate(e.Plate)
	e.ServiceType = strings.TrimSpace(e.ServiceType)
	e.Technician = strings.TrimSpace(e.Technician)
	e.Location = strings.TrimSpace(e.Location)
	e.Notes = strings.TrimSpace(e.Notes)
	if !e.ServiceDate.IsZero() {
		e.ServiceDate = DateOf(e.ServiceDate)
	}
}

// DateOf truncates a timestamp to day precision in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// JoinPhotos serialises photo filenames to their delimited storage form.
// Empty names are dropped; order is preserved.
func JoinPhotos(photos []string) string {
	var kept []string
	for _, p := range photos {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, PhotoDelimiter)
}

// SplitPhotos parses the delimited storage form back into filenames.
// Returns nil for an empty column.
func SplitPhotos(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var photos []string
	for _, p := range strings.Split(s, PhotoDelimiter) {
		p = strings.TrimSpace(p)
		if p != "" {
			photos = append(photos, p)
		}
	}
	return photos
}

// FormatHours renders a duration for display: whole hours lose the
// decimal ("2h"), fractional hours keep one place ("2.5h").
func FormatHours(hours float64) string {
	if hours == float64(int64(hours)) {
		return fmt.Sprintf("%dh", int64(hours))
	}
	return fmt.Sprintf("%.1fh", hours)
}

// ServiceTypes returns the fixed catalog of service categories.
func ServiceTypes() []string {
	return []string{
		"Full Detail",
		"Interior Detail",
		"Exterior Detail",
		"Polish & Wax",
		"Basic Wash",
		"Engine Bay",
		"Headlight Restoration",
		"Paint Correction",
		"Ceramic Coating",
		"Quick Detail",
	}
}

// Locations returns the catalog of work bays and areas.
func Locations() []string {
	return []string{
		"Bay 1",
		"Bay 2",
		"Bay 3",
		"Bay 4",
		"Outside Area",
		"Prep Area",
		"Detail Shop",
	}
}
