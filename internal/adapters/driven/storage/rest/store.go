// Package rest provides an EntryStore backed by a PostgREST-compatible
// HTTP table API, such as a hosted Supabase project. All filtering and
// ordering is pushed to the server through query string operators.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EntryStore = (*Store)(nil)

const (
	tableName      = "entries"
	requestTimeout = 10 * time.Second

	// requestsPerSecond keeps bursts of list/export traffic under the
	// hosted API's free-tier rate limits.
	requestsPerSecond = 10
)

const defaultOrder = "service_date.desc,created_at.desc,id.desc"

// Store talks to a remote table API over HTTP.
type Store struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewStore creates a store for the given API base URL (the path up to
// and including /rest/v1) and service key.
func NewStore(baseURL, apiKey string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Close is a no-op; the HTTP client holds no persistent resources.
func (s *Store) Close() error {
	return nil
}

// Insert persists a new entry and returns the assigned id.
func (s *Store) Insert(ctx context.Context, entry domain.Entry) (int64, error) {
	rows, err := s.do(ctx, http.MethodPost, nil, toWire(entry))
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("inserting entry: server returned no representation")
	}
	return rows[0].ID, nil
}

// Get retrieves an entry by id.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	query := url.Values{}
	query.Set("id", fmt.Sprintf("eq.%d", id))
	query.Set("limit", "1")

	rows, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching entry: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return rows[0].toDomain()
}

// ListRecent returns at most limit entries, most recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.Entry, error) {
	query := url.Values{}
	query.Set("order", defaultOrder)
	query.Set("limit", fmt.Sprintf("%d", limit))

	rows, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, fmt.Errorf("querying recent entries: %w", err)
	}
	return toDomainSlice(rows)
}

// ListByDateRange returns entries with start <= service date <= end.
func (s *Store) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Entry, error) {
	query := url.Values{}
	query.Add("service_date", "gte."+start.Format(domain.DateFormat))
	query.Add("service_date", "lte."+end.Format(domain.DateFormat))
	query.Set("order", defaultOrder)

	rows, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, fmt.Errorf("querying entries by date range: %w", err)
	}
	return toDomainSlice(rows)
}

// ListByPlate returns entries matching the normalised plate exactly.
func (s *Store) ListByPlate(ctx context.Context, plate string) ([]domain.Entry, error) {
	query := url.Values{}
	query.Set("license_plate", "eq."+plate)
	query.Set("order", defaultOrder)

	rows, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, fmt.Errorf("querying entries by plate: %w", err)
	}
	return toDomainSlice(rows)
}

// Update replaces all mutable fields of an entry. The server keeps id
// and created_at untouched because the patch never carries them.
func (s *Store) Update(ctx context.Context, id int64, entry domain.Entry) (bool, error) {
	query := url.Values{}
	query.Set("id", fmt.Sprintf("eq.%d", id))

	rows, err := s.do(ctx, http.MethodPatch, query, toWire(entry))
	if err != nil {
		return false, fmt.Errorf("updating entry: %w", err)
	}
	return len(rows) > 0, nil
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	query := url.Values{}
	query.Set("id", fmt.Sprintf("eq.%d", id))

	rows, err := s.do(ctx, http.MethodDelete, query, nil)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}
	return len(rows) > 0, nil
}

// SummaryStats aggregates client-side over a projected fetch. The table
// API has no aggregate endpoint, so only the three needed columns are
// transferred.
func (s *Store) SummaryStats(ctx context.Context) (*domain.SummaryStats, error) {
	query := url.Values{}
	query.Set("select", "service_type,hours,service_date")

	rows, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching entries for stats: %w", err)
	}

	stats := &domain.SummaryStats{MostCommonType: "N/A"}
	today := time.Now().Format(domain.DateFormat)
	typeCounts := make(map[string]int)

	for _, row := range rows {
		stats.TotalEntries++
		stats.TotalHours += row.Hours
		if row.ServiceDate == today {
			stats.TodayEntries++
			stats.TodayHours += row.Hours
		}
		typeCounts[row.ServiceType]++
	}

	best := 0
	for serviceType, count := range typeCounts {
		if count > best {
			best = count
			stats.MostCommonType = serviceType
		}
	}
	return stats, nil
}

// PurgeOlderThan deletes entries created before the cutoff and returns
// the removed entries.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Entry, error) {
	query := url.Values{}
	query.Set("created_at", "lt."+cutoff.UTC().Format(time.RFC3339Nano))

	rows, err := s.do(ctx, http.MethodDelete, query, nil)
	if err != nil {
		return nil, fmt.Errorf("purging expired entries: %w", err)
	}
	return toDomainSlice(rows)
}

// ==================== HTTP Plumbing ====================

// do sends one request against the entries table and decodes the
// returned representation. Mutating requests ask the server to echo the
// affected rows so callers can tell whether anything matched.
func (s *Store) do(ctx context.Context, method string, query url.Values, body any) ([]wireEntry, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	endpoint := s.baseURL + "/" + tableName
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: server returned %s", domain.ErrBackendUnavailable, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var rows []wireEntry
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return rows, nil
}

// ==================== Wire Format ====================

// wireEntry is the JSON shape of one table row.
type wireEntry struct {
	ID          int64   `json:"id,omitempty"`
	Plate       string  `json:"license_plate"`
	ServiceType string  `json:"service_type"`
	Technician  string  `json:"technician"`
	Location    string  `json:"location,omitempty"`
	Hours       float64 `json:"hours"`
	ServiceDate string  `json:"service_date"`
	Notes       string  `json:"notes,omitempty"`
	Photos      string  `json:"photos,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func toWire(entry domain.Entry) wireEntry {
	return wireEntry{
		Plate:       entry.Plate,
		ServiceType: entry.ServiceType,
		Technician:  entry.Technician,
		Location:    entry.Location,
		Hours:       entry.Hours,
		ServiceDate: entry.ServiceDate.Format(domain.DateFormat),
		Notes:       entry.Notes,
		Photos:      domain.JoinPhotos(entry.Photos),
	}
}

func (w wireEntry) toDomain() (*domain.Entry, error) {
	serviceDate, err := time.ParseInLocation(domain.DateFormat, w.ServiceDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parsing service date %q: %w", w.ServiceDate, err)
	}

	var createdAt time.Time
	if w.CreatedAt != "" {
		createdAt, err = time.Parse(time.RFC3339Nano, w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", w.CreatedAt, err)
		}
	}

	return &domain.Entry{
		ID:          w.ID,
		Plate:       w.Plate,
		ServiceType: w.ServiceType,
		Technician:  w.Technician,
		Location:    w.Location,
		Hours:       w.Hours,
		ServiceDate: serviceDate,
		Notes:       w.Notes,
		Photos:      domain.SplitPhotos(w.Photos),
		CreatedAt:   createdAt,
	}, nil
}

func toDomainSlice(rows []wireEntry) ([]domain.Entry, error) {
	var entries []domain.Entry //nolint:prealloc // size unknown until decoded
	for _, row := range rows {
		entry, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}
