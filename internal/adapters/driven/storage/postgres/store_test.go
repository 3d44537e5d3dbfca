package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearcoat-labs/detail-cli/internal/core/domain"
)

// setupTestStore connects to the database named by
// DETAIL_TEST_DATABASE_URL, or skips the test when it is not set.
// The entries table is truncated between tests.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	connString := os.Getenv("DETAIL_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("DETAIL_TEST_DATABASE_URL not set")
	}

	store, err := NewStore(context.Background(), connString)
	require.NoError(t, err)

	_, err = store.pool.Exec(context.Background(), "TRUNCATE entries RESTART IDENTITY")
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testEntry(daysAgo int) domain.Entry {
	return domain.Entry{
		Plate:       "ABC-123",
		ServiceType: "Full Detail",
		Technician:  "Dana Fox",
		Location:    "Bay 1",
		Hours:       2.5,
		ServiceDate: time.Now().AddDate(0, 0, -daysAgo),
		Notes:       "ceramic coat",
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entry := testEntry(0)
	entry.Photos = []string{"entry_1_a.jpg"}

	id, err := store.Insert(ctx, entry)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entry.Plate, got.Plate)
	assert.Equal(t, entry.Photos, got.Photos)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, testEntry(0))
	require.NoError(t, err)

	updated := testEntry(1)
	updated.Plate = "XYZ-789"
	ok, err := store.Update(ctx, id, updated)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "XYZ-789", got.Plate)

	ok, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ListAndStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for daysAgo := 0; daysAgo < 5; daysAgo++ {
		_, err := store.Insert(ctx, testEntry(daysAgo))
		require.NoError(t, err)
	}

	entries, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].ServiceDate.After(entries[i-1].ServiceDate))
	}

	ranged, err := store.ListByDateRange(ctx, time.Now().AddDate(0, 0, -2), time.Now())
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	byPlate, err := store.ListByPlate(ctx, "ABC-123")
	require.NoError(t, err)
	assert.Len(t, byPlate, 5)

	stats, err := store.SummaryStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalEntries)
	assert.Equal(t, "Full Detail", stats.MostCommonType)
}

func TestStore_PurgeOlderThan(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, testEntry(0))
	require.NoError(t, err)

	// Everything was created just now, so a future cutoff purges all.
	purged, err := store.PurgeOlderThan(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, purged, 1)
	assert.Equal(t, id, purged[0].ID)

	// And a past cutoff purges nothing.
	_, err = store.Insert(ctx, testEntry(0))
	require.NoError(t, err)
	purged, err = store.PurgeOlderThan(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, purged)
}
