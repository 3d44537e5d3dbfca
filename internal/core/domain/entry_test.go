package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalised", "ABC-123", "ABC-123"},
		{"lowercase", "abc-123", "ABC-123"},
		{"surrounding whitespace", " abc-123 ", "ABC-123"},
		{"interior space kept", "ab 12", "AB 12"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePlate(tt.input))
		})
	}
}

func TestEntry_Normalize(t *testing.T) {
	e := Entry{
		Plate:       " abc-123 ",
		ServiceType: " Full Detail ",
		Technician:  " Jane Doe ",
		Location:    " Bay 1 ",
		Notes:       " quick turnaround ",
		ServiceDate: time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC),
	}

	e.Normalize()

	assert.Equal(t, "ABC-123", e.Plate)
	assert.Equal(t, "Full Detail", e.ServiceType)
	assert.Equal(t, "Jane Doe", e.Technician)
	assert.Equal(t, "Bay 1", e.Location)
	assert.Equal(t, "quick turnaround", e.Notes)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), e.ServiceDate)
}

func TestEntry_Normalize_ZeroDateUntouched(t *testing.T) {
	e := Entry{Plate: "abc"}
	e.Normalize()
	assert.True(t, e.ServiceDate.IsZero())
}

func TestJoinPhotos(t *testing.T) {
	tests := []struct {
		name     string
		photos   []string
		expected string
	}{
		{"nil", nil, ""},
		{"single", []string{"entry_1_a_0.jpg"}, "entry_1_a_0.jpg"},
		{"preserves order", []string{"b.jpg", "a.jpg"}, "b.jpg,a.jpg"},
		{"drops empties", []string{"a.jpg", "", " ", "b.jpg"}, "a.jpg,b.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinPhotos(tt.photos))
		})
	}
}

func TestSplitPhotos(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty column", "", nil},
		{"whitespace only", "  ", nil},
		{"single", "a.jpg", []string{"a.jpg"}},
		{"multiple with spaces", "a.jpg, b.jpg ,c.jpg", []string{"a.jpg", "b.jpg", "c.jpg"}},
		{"trailing delimiter", "a.jpg,", []string{"a.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPhotos(tt.input))
		})
	}
}

func TestPhotos_RoundTrip(t *testing.T) {
	photos := []string{"entry_7_20240601_0.jpg", "entry_7_20240601_1.png"}
	assert.Equal(t, photos, SplitPhotos(JoinPhotos(photos)))
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		name     string
		hours    float64
		expected string
	}{
		{"whole", 2, "2h"},
		{"half", 2.5, "2.5h"},
		{"quarter rounds to one place", 2.25, "2.2h"},
		{"zero", 0, "0h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatHours(tt.hours))
		})
	}
}

func TestServiceTypes_CatalogStable(t *testing.T) {
	types := ServiceTypes()
	assert.Len(t, types, 10)
	assert.Contains(t, types, "Full Detail")
	assert.Contains(t, types, "Quick Detail")
}

func TestLocations_CatalogStable(t *testing.T) {
	locations := Locations()
	assert.Len(t, locations, 7)
	assert.Contains(t, locations, "Bay 1")
	assert.Contains(t, locations, "Detail Shop")
}
