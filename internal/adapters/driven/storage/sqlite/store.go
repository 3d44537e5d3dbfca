// Package sqlite provides the embedded-file EntryStore used when no
// networked backend is configured. Single-process use only; concurrent
// writers from multiple processes are not supported.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clearcoat-labs/detail-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EntryStore = (*Store)(nil)

// timeFormat is a fixed-width UTC layout for created_at, so string
// comparison in SQL matches chronological order.
const timeFormat = "2006-01-02 15:04:05.000000000"

// entryColumns is the column list shared by every SELECT.
const entryColumns = "id, license_plate, service_type, technician, location, hours, service_date, notes, photos, created_at"

// Store is a SQLite-backed implementation of driven.EntryStore.
type Store struct {
	db   *sql.DB
	path string

	// now supplies creation timestamps and "today" for the summary.
	now func() time.Time
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.detail/data/detail.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".detail", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "detail.db")

	// WAL mode for better concurrency within the process.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Insert persists a new entry and returns the assigned id.
func (s *Store) Insert(ctx context.Context, entry domain.Entry) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (license_plate, service_type, technician, location, hours, service_date, notes, photos, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.Plate, entry.ServiceType, entry.Technician, nullString(entry.Location),
		entry.Hours, entry.ServiceDate.Format(domain.DateFormat),
		nullString(entry.Notes), nullString(domain.JoinPhotos(entry.Photos)),
		s.now().UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

// Get retrieves an entry by id.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id)

	entry, err := scanEntryRow(row)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRecent returns at most limit entries, most recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries ORDER BY service_date DESC, created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByDateRange returns entries with start <= service date <= end.
func (s *Store) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE service_date BETWEEN ? AND ? ORDER BY service_date DESC, created_at DESC, id DESC",
		start.Format(domain.DateFormat), end.Format(domain.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("querying entries by date range: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByPlate returns entries matching the normalised plate exactly.
func (s *Store) ListByPlate(ctx context.Context, plate string) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE license_plate = ? ORDER BY service_date DESC, created_at DESC, id DESC", plate)
	if err != nil {
		return nil, fmt.Errorf("querying entries by plate: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Update replaces all mutable fields of an entry. id and created_at
// never change.
func (s *Store) Update(ctx context.Context, id int64, entry domain.Entry) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE entries
		SET license_plate = ?, service_type = ?, technician = ?, location = ?,
			hours = ?, service_date = ?, notes = ?, photos = ?
		WHERE id = ?
	`, entry.Plate, entry.ServiceType, entry.Technician, nullString(entry.Location),
		entry.Hours, entry.ServiceDate.Format(domain.DateFormat),
		nullString(entry.Notes), nullString(domain.JoinPhotos(entry.Photos)), id)
	if err != nil {
		return false, fmt.Errorf("updating entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}

// SummaryStats aggregates over the whole table. Today is the current
// calendar date in this process's local time zone.
func (s *Store) SummaryStats(ctx context.Context) (*domain.SummaryStats, error) {
	stats := &domain.SummaryStats{MostCommonType: "N/A"}
	today := s.now().Format(domain.DateFormat)

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(hours), 0) FROM entries").
		Scan(&stats.TotalEntries, &stats.TotalHours)
	if err != nil {
		return nil, fmt.Errorf("aggregating totals: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(hours), 0) FROM entries WHERE service_date = ?", today).
		Scan(&stats.TodayEntries, &stats.TodayHours)
	if err != nil {
		return nil, fmt.Errorf("aggregating today's totals: %w", err)
	}

	var mostCommon string
	err = s.db.QueryRowContext(ctx, `
		SELECT service_type FROM entries
		GROUP BY service_type
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`).Scan(&mostCommon)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding most common service type: %w", err)
	}
	if mostCommon != "" {
		stats.MostCommonType = mostCommon
	}

	return stats, nil
}

// PurgeOlderThan deletes entries created before the cutoff and returns
// the removed entries.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Entry, error) {
	cutoffStr := cutoff.UTC().Format(timeFormat)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE created_at < ?", cutoffStr)
	if err != nil {
		return nil, fmt.Errorf("querying expired entries: %w", err)
	}
	defer rows.Close()

	purged, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(purged) == 0 {
		return nil, nil
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE created_at < ?", cutoffStr); err != nil {
		return nil, fmt.Errorf("purging expired entries: %w", err)
	}
	return purged, nil
}

// ==================== Helper Functions ====================

// nullString converts an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// scanEntryRow scans a single entry row.
func scanEntryRow(row *sql.Row) (*domain.Entry, error) {
	var entry domain.Entry
	var location, notes, photos sql.NullString
	var serviceDate, createdAt string

	if err := row.Scan(&entry.ID, &entry.Plate, &entry.ServiceType, &entry.Technician,
		&location, &entry.Hours, &serviceDate, &notes, &photos, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	return finishEntry(entry, location, notes, photos, serviceDate, createdAt)
}

// scanEntries scans multiple entry rows.
func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.Entry
		var location, notes, photos sql.NullString
		var serviceDate, createdAt string

		if err := rows.Scan(&entry.ID, &entry.Plate, &entry.ServiceType, &entry.Technician,
			&location, &entry.Hours, &serviceDate, &notes, &photos, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		finished, err := finishEntry(entry, location, notes, photos, serviceDate, createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *finished)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// finishEntry fills the nullable and parsed fields of a scanned entry.
func finishEntry(entry domain.Entry, location, notes, photos sql.NullString, serviceDate, createdAt string) (*domain.Entry, error) {
	entry.Location = location.String
	entry.Notes = notes.String
	entry.Photos = domain.SplitPhotos(photos.String)

	parsedDate, err := time.ParseInLocation(domain.DateFormat, serviceDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parsing service date %q: %w", serviceDate, err)
	}
	entry.ServiceDate = parsedDate

	parsedCreated, err := time.ParseInLocation(timeFormat, createdAt, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	entry.CreatedAt = parsedCreated

	return &entry, nil
}
