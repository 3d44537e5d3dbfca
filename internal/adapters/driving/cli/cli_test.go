package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/photos"
	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/memory"
	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/logger"
)

// setupCLI wires the command tree onto a fresh in-memory backend and
// captures output. Must run before every Execute; teardown between
// commands drops the store.
func setupCLI(t *testing.T) (*memory.EntryStore, *bytes.Buffer) {
	t.Helper()

	store := memory.NewEntryStore()
	photoStore, err := photos.NewFileStore(t.TempDir())
	require.NoError(t, err)
	SetServices(store, photoStore, logger.Nop())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		entryService = nil
		reportService = nil
		exportService = nil
		store.Close()
	})

	return store, buf
}

func seedEntry(t *testing.T, store *memory.EntryStore, plate string, daysAgo int) int64 {
	t.Helper()
	id, err := store.Insert(context.Background(), domain.Entry{
		Plate:       plate,
		ServiceType: "Full Detail",
		Technician:  "Dana Fox",
		Hours:       2,
		ServiceDate: time.Now().AddDate(0, 0, -daysAgo),
	})
	require.NoError(t, err)
	return id
}

func TestAddCmd_RecordsEntry(t *testing.T) {
	store, buf := setupCLI(t)
	addPhotos = nil

	rootCmd.SetArgs([]string{"add",
		"--plate", "abc-123",
		"--type", "Full Detail",
		"--technician", "Dana Fox",
		"--hours", "2.5",
		"--date", "2026-03-01",
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Entry #1 recorded.")

	got, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", got.Plate)
	assert.Equal(t, "2026-03-01", got.ServiceDate.Format(domain.DateFormat))
}

func TestAddCmd_AttachesPhotos(t *testing.T) {
	store, buf := setupCLI(t)

	photoPath := filepath.Join(t.TempDir(), "front.jpg")
	require.NoError(t, os.WriteFile(photoPath, []byte("image"), 0o644))
	addPhotos = nil

	rootCmd.SetArgs([]string{"add",
		"--plate", "ABC-123",
		"--type", "Full Detail",
		"--technician", "Dana Fox",
		"--hours", "1",
		"--photo", photoPath,
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Attached 1 photos.")

	got, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got.Photos, 1)
	assert.Contains(t, got.Photos[0], "entry_1_")
}

func TestAddCmd_ValidationError(t *testing.T) {
	_, _ = setupCLI(t)
	addPhotos = nil

	rootCmd.SetArgs([]string{"add",
		"--plate", "!!",
		"--type", "Full Detail",
		"--technician", "Dana Fox",
		"--hours", "0",
	})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hours")
}

func TestGetCmd(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)

	rootCmd.SetArgs([]string{"get", "1"})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Entry #1")
	assert.Contains(t, out, "ABC-123")
	assert.Contains(t, out, "Dana Fox")
}

func TestGetCmd_NotFound(t *testing.T) {
	_, _ = setupCLI(t)

	rootCmd.SetArgs([]string{"get", "42"})
	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestGetCmd_BadID(t *testing.T) {
	_, _ = setupCLI(t)

	rootCmd.SetArgs([]string{"get", "abc"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entry id")
}

func TestListCmd(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)
	seedEntry(t, store, "XYZ-789", 1)

	rootCmd.SetArgs([]string{"list", "--limit", "10"})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "ABC-123")
	assert.Contains(t, out, "XYZ-789")
	assert.Contains(t, out, "Total: 2 entries")
}

func TestListCmd_Empty(t *testing.T) {
	_, buf := setupCLI(t)

	rootCmd.SetArgs([]string{"list"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "No entries found.")
}

func TestUpdateCmd_ChangesOnlyGivenFlags(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)

	rootCmd.SetArgs([]string{"update", "1", "--hours", "4"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Entry #1 updated.")

	got, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.Hours, 0.0001)
	assert.Equal(t, "ABC-123", got.Plate)
	assert.Equal(t, "Dana Fox", got.Technician)
}

func TestDeleteCmd(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)

	rootCmd.SetArgs([]string{"delete", "1"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Entry #1 deleted.")

	_, err := store.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCmd_NotFound(t *testing.T) {
	_, _ = setupCLI(t)

	rootCmd.SetArgs([]string{"delete", "42"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSearchCmd_ByPlate(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)
	seedEntry(t, store, "XYZ-789", 0)

	rootCmd.SetArgs([]string{"search", "--plate", "abc-123", "--range", ""})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "ABC-123")
	assert.NotContains(t, out, "XYZ-789")
}

func TestSearchCmd_ByRangePreset(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)
	seedEntry(t, store, "OLD-111", 90)

	rootCmd.SetArgs([]string{"search", "--plate", "", "--range", "7d"})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "ABC-123")
	assert.NotContains(t, out, "OLD-111")
}

func TestSearchCmd_NeedsAFilter(t *testing.T) {
	_, _ = setupCLI(t)

	rootCmd.SetArgs([]string{"search", "--plate", "", "--range", "", "--from", "", "--to", ""})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--plate")
}

func TestStatsCmd_Summary(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)

	rootCmd.SetArgs([]string{"stats", "--by-technician=false", "--duration=false"})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Total entries")
	assert.Contains(t, out, "Full Detail")
}

func TestStatsCmd_ByTechnician(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)

	rootCmd.SetArgs([]string{"stats", "--by-technician", "--range", "7d"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Dana Fox")
}

func TestExportCmd_WritesCSV(t *testing.T) {
	store, buf := setupCLI(t)
	seedEntry(t, store, "ABC-123", 0)

	out := filepath.Join(t.TempDir(), "export.csv")
	rootCmd.SetArgs([]string{"export", "--format", "csv", "--out", out, "--range", ""})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ABC-123", records[1][1])
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	_, _ = setupCLI(t)

	rootCmd.SetArgs([]string{"export", "--format", "pdf"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestPurgeCmd_RequiresThreshold(t *testing.T) {
	_, _ = setupCLI(t)

	rootCmd.SetArgs([]string{"purge", "--older-than", "0", "--dry-run=false"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--older-than")
}

func TestPurgeCmd_DryRun(t *testing.T) {
	store, buf := setupCLI(t)

	base := time.Now().AddDate(0, 0, -90)
	store.Now = func() time.Time { return base }
	seedEntry(t, store, "OLD-111", 90)
	store.Now = time.Now
	seedEntry(t, store, "NEW-222", 0)

	rootCmd.SetArgs([]string{"purge", "--older-than", "60", "--dry-run"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Would purge 1 entries")

	entries, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPurgeCmd_RemovesOldEntries(t *testing.T) {
	store, buf := setupCLI(t)

	base := time.Now().AddDate(0, 0, -90)
	store.Now = func() time.Time { return base }
	seedEntry(t, store, "OLD-111", 90)
	store.Now = time.Now
	seedEntry(t, store, "NEW-222", 0)

	rootCmd.SetArgs([]string{"purge", "--older-than", "60", "--dry-run=false"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Purged 1 entries")

	entries, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "NEW-222", entries[0].Plate)
}
