// Package postgres provides the networked relational EntryStore.
// Concurrent clients are safe here: row-level isolation comes from the
// engine itself, no custom locking exists in this codebase.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EntryStore = (*Store)(nil)

// entryColumns is the column list shared by every SELECT.
const entryColumns = "id, license_plate, service_type, technician, COALESCE(location, ''), hours, service_date, COALESCE(notes, ''), COALESCE(photos, ''), created_at"

// Store is a PostgreSQL-backed implementation of driven.EntryStore.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to PostgreSQL with the given connection string and
// creates the schema if it does not exist yet.
func NewStore(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialising schema: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// initSchema creates the entries table and its indexes.
func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS entries (
			id BIGSERIAL PRIMARY KEY,
			license_plate TEXT NOT NULL,
			service_type TEXT NOT NULL,
			technician TEXT NOT NULL,
			location TEXT,
			hours DOUBLE PRECISION NOT NULL,
			service_date DATE NOT NULL,
			notes TEXT,
			photos TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating entries table: %w", err)
	}

	for _, stmt := range []string{
		"CREATE INDEX IF NOT EXISTS idx_entries_service_date ON entries(service_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_entries_license_plate ON entries(license_plate)",
		"CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at DESC)",
	} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// Insert persists a new entry and returns the assigned id. The engine
// assigns both the id and the creation timestamp.
func (s *Store) Insert(ctx context.Context, entry domain.Entry) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO entries (license_plate, service_type, technician, location, hours, service_date, notes, photos)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), NULLIF($8, ''))
		RETURNING id
	`, entry.Plate, entry.ServiceType, entry.Technician, entry.Location,
		entry.Hours, entry.ServiceDate, entry.Notes, domain.JoinPhotos(entry.Photos)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}
	return id, nil
}

// Get retrieves an entry by id.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = $1", id)

	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRecent returns at most limit entries, most recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+entryColumns+" FROM entries ORDER BY service_date DESC, created_at DESC, id DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByDateRange returns entries with start <= service date <= end.
func (s *Store) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Entry, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE service_date BETWEEN $1 AND $2 ORDER BY service_date DESC, created_at DESC, id DESC",
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying entries by date range: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByPlate returns entries matching the normalised plate exactly.
func (s *Store) ListByPlate(ctx context.Context, plate string) ([]domain.Entry, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE license_plate = $1 ORDER BY service_date DESC, created_at DESC, id DESC", plate)
	if err != nil {
		return nil, fmt.Errorf("querying entries by plate: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Update replaces all mutable fields of an entry.
func (s *Store) Update(ctx context.Context, id int64, entry domain.Entry) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE entries
		SET license_plate = $1, service_type = $2, technician = $3, location = NULLIF($4, ''),
			hours = $5, service_date = $6, notes = NULLIF($7, ''), photos = NULLIF($8, '')
		WHERE id = $9
	`, entry.Plate, entry.ServiceType, entry.Technician, entry.Location,
		entry.Hours, entry.ServiceDate, entry.Notes, domain.JoinPhotos(entry.Photos), id)
	if err != nil {
		return false, fmt.Errorf("updating entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM entries WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SummaryStats aggregates over the whole table. Today is the current
// calendar date in the database server's time zone.
func (s *Store) SummaryStats(ctx context.Context) (*domain.SummaryStats, error) {
	stats := &domain.SummaryStats{MostCommonType: "N/A"}

	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*), COALESCE(SUM(hours), 0) FROM entries").
		Scan(&stats.TotalEntries, &stats.TotalHours)
	if err != nil {
		return nil, fmt.Errorf("aggregating totals: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		"SELECT COUNT(*), COALESCE(SUM(hours), 0) FROM entries WHERE service_date = CURRENT_DATE").
		Scan(&stats.TodayEntries, &stats.TodayHours)
	if err != nil {
		return nil, fmt.Errorf("aggregating today's totals: %w", err)
	}

	var mostCommon string
	err = s.pool.QueryRow(ctx, `
		SELECT service_type FROM entries
		GROUP BY service_type
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`).Scan(&mostCommon)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
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
	rows, err := s.pool.Query(ctx,
		"DELETE FROM entries WHERE created_at < $1 RETURNING "+entryColumns, cutoff)
	if err != nil {
		return nil, fmt.Errorf("purging expired entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ==================== Helper Functions ====================

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry scans one entry from a row.
func scanEntry(row rowScanner) (*domain.Entry, error) {
	var entry domain.Entry
	var photos string

	if err := row.Scan(&entry.ID, &entry.Plate, &entry.ServiceType, &entry.Technician,
		&entry.Location, &entry.Hours, &entry.ServiceDate, &entry.Notes, &photos, &entry.CreatedAt); err != nil {
		return nil, err
	}

	entry.Photos = domain.SplitPhotos(photos)
	return &entry, nil
}

// scanEntries scans multiple entry rows.
func scanEntries(rows pgx.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry //nolint:prealloc // size unknown from query
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}
