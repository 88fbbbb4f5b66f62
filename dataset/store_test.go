package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/sqlite-knn/engine"
	"github.com/viant/sqlite-knn/knn"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	require.NoError(t, engine.RegisterDistanceFunctions())
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	// Every pooled connection would otherwise see its own empty :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

// TestSQLiteStore_AddLoadRemove exercises inserting samples, loading them
// back in insertion order, and removing one.
func TestSQLiteStore_AddLoadRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	samples := []Sample{
		{ID: "s1", Label: 0, Features: []float64{0, 0}},
		{ID: "s2", Label: 1, Features: []float64{10, 10}},
		{Label: 1, Features: []float64{9, 8.5}},
	}
	ids, err := store.AddSamples(ctx, "points", "train", samples)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, "s1", ids[0])
	assert.Equal(t, "s2", ids[1])
	assert.NotEmpty(t, ids[2])

	set, err := store.Load(ctx, "points", "train")
	require.NoError(t, err)
	assert.Equal(t, ids, set.IDs)
	assert.Equal(t, [][]float64{{0, 0}, {10, 10}, {9, 8.5}}, set.X)
	assert.Equal(t, []int64{0, 1, 1}, set.Y)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, 2, set.Dim())

	n, err := store.Count(ctx, "points", "train")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, store.Remove(ctx, "points", "train", "s2"))
	set, err = store.Load(ctx, "points", "train")
	require.NoError(t, err)
	assert.NotContains(t, set.IDs, "s2")

	assert.Error(t, store.Remove(ctx, "points", "train", ""))
}

func TestSQLiteStore_UpsertKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddSamples(ctx, "d", "train", []Sample{
		{ID: "a", Label: 1, Features: []float64{1}},
		{ID: "b", Label: 2, Features: []float64{2}},
	})
	require.NoError(t, err)
	_, err = store.AddSamples(ctx, "d", "train", []Sample{{ID: "a", Label: 5, Features: []float64{1.5}}})
	require.NoError(t, err)

	set, err := store.Load(ctx, "d", "train")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, set.IDs)
	assert.Equal(t, []int64{5, 2}, set.Y)
	assert.Equal(t, [][]float64{{1.5}, {2}}, set.X)
}

func TestSQLiteStore_DimensionChecks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddSamples(ctx, "d", "train", []Sample{
		{ID: "a", Features: []float64{1, 2}},
		{ID: "b", Features: []float64{1}},
	})
	require.Error(t, err)
	n, err := store.Count(ctx, "d", "train")
	require.NoError(t, err)
	assert.Zero(t, n, "failed batch is rolled back")

	_, err = store.AddSamples(ctx, "d", "train", []Sample{{ID: "a", Features: []float64{1, 2}}})
	require.NoError(t, err)
	_, err = store.AddSamples(ctx, "d", "train", []Sample{{ID: "c", Features: []float64{1, 2, 3}}})
	assert.Error(t, err)

	_, err = store.AddSamples(ctx, "d", "train", []Sample{{ID: "e"}})
	assert.Error(t, err)
}

func TestSQLiteStore_SplitsAndDrop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, split := range []string{"train", "test"} {
		_, err := store.AddSamples(ctx, "d", split, []Sample{{Features: []float64{1}}, {Features: []float64{2}}})
		require.NoError(t, err)
	}
	splits, err := store.Splits(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, []string{"test", "train"}, splits)

	removed, err := store.DropSplit(ctx, "d", "test")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	set, err := store.Load(ctx, "d", "test")
	require.NoError(t, err)
	assert.Zero(t, set.Len())
	assert.Zero(t, set.Dim())
}

// TestSQLiteStore_NeighborsMatchNearest checks that the SQL scan ranks
// samples the same way as the in-memory voting selection.
func TestSQLiteStore_NeighborsMatchNearest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	samples := []Sample{
		{ID: "a", Label: 0, Features: []float64{0, 0}},
		{ID: "b", Label: 1, Features: []float64{4, 4}},
		{ID: "c", Label: 0, Features: []float64{1, 0}},
		{ID: "d", Label: 1, Features: []float64{5, 5}},
		{ID: "e", Label: 2, Features: []float64{0, 1}},
	}
	_, err := store.AddSamples(ctx, "d", "train", samples)
	require.NoError(t, err)
	set, err := store.Load(ctx, "d", "train")
	require.NoError(t, err)

	query := []float64{0.25, 0.25}
	got, err := store.Neighbors(ctx, "d", "train", query, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	dists, err := knn.TwoLoopDistances(set.X, [][]float64{query})
	require.NoError(t, err)
	nearest, err := knn.Nearest(dists, 3)
	require.NoError(t, err)
	for r, j := range nearest[0] {
		assert.Equal(t, set.IDs[j], got[r].ID)
		assert.Equal(t, set.Y[j], got[r].Label)
		assert.InDelta(t, dists[0][j], got[r].Distance, 1e-5)
	}

	_, err = store.Neighbors(ctx, "d", "train", query, 0)
	assert.Error(t, err)
}
