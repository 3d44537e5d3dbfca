package domain

import (
	"regexp"
	"strings"
)

// Field constraints mirror what the entry form enforces.
var (
	platePattern      = regexp.MustCompile(`^[A-Z0-9\- ]{2,10}$`)
	technicianPattern = regexp.MustCompile(`^[A-Za-z '\-]{2,50}$`)
)

// ValidPlate reports whether a licence plate is acceptable:
// 2-10 characters after normalisation, letters, digits, hyphens
// and spaces only.
func ValidPlate(plate string) bool {
	normalized := NormalizePlate(plate)
	if normalized == "" {
		return false
	}
	return platePattern.MatchString(normalized)
}

// ValidHours reports whether a duration is acceptable. Zero hours is
// not a billable job, so the valid range is 0 < hours <= 24.
func ValidHours(hours float64) bool {
	return hours > 0 && hours <= 24
}

// ValidTechnicianName reports whether a technician name is acceptable:
// 2-50 characters after trimming, letters, spaces, apostrophes and
// hyphens only.
func ValidTechnicianName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	return technicianPattern.MatchString(trimmed)
}

// Validate runs every field check against an entry and collects all
// failures, so callers can show every problem at once instead of
// stopping at the first.
func Validate(e Entry) []string {
	var problems []string

	if !ValidPlate(e.Plate) {
		problems = append(problems, "licence plate must be 2-10 characters using only letters, numbers, spaces, and hyphens")
	}
	if strings.TrimSpace(e.ServiceType) == "" {
		problems = append(problems, "service type is required")
	}
	if !ValidTechnicianName(e.Technician) {
		problems = append(problems, "technician name must be 2-50 characters using only letters, spaces, apostrophes, and hyphens")
	}
	if !ValidHours(e.Hours) {
		problems = append(problems, "hours must be greater than 0 and at most 24")
	}
	if e.ServiceDate.IsZero() {
		problems = append(problems, "service date is required")
	}

	return problems
}
