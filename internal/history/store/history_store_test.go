package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxEntries int) *SQLiteHistoryStore {
	t.Helper()
	store, err := NewSQLiteHistoryStore(SQLiteConfig{
		Path:       filepath.Join(t.TempDir(), "nested", "history.db"),
		MaxEntries: maxEntries,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &Record{Expression: "2+3*4", Value: 14, Success: true, Source: SourceCLI}))
	require.NoError(t, store.Record(ctx, &Record{Expression: "(2+3", ErrorCode: "CALC_UNBALANCED_PARENS", Error: "unbalanced", Source: SourceTUI}))
	require.NoError(t, store.Record(ctx, &Record{Expression: "10/2-3", Value: 2, Success: true, Source: SourceGRPC, Duration: 1500 * time.Microsecond}))

	records, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "10/2-3", records[0].Expression, "newest first")
	assert.Equal(t, 2.0, records[0].Value)
	assert.Equal(t, 1500*time.Microsecond, records[0].Duration)
	assert.Equal(t, SourceGRPC, records[0].Source)

	failed := records[1]
	assert.False(t, failed.Success)
	assert.Equal(t, "CALC_UNBALANCED_PARENS", failed.ErrorCode)
	assert.Equal(t, 0.0, failed.Value)

	assert.Len(t, records[2].ID, 36)
	assert.False(t, records[2].Timestamp.IsZero())
}

func TestListFilters(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	for i, src := range []Source{SourceCLI, SourceTUI, SourceCLI, SourceWebSocket} {
		require.NoError(t, store.Record(ctx, &Record{
			Expression: "1+1",
			Value:      2,
			Success:    i != 2,
			Source:     src,
		}))
	}

	cli, err := store.List(ctx, Filter{Source: SourceCLI})
	require.NoError(t, err)
	assert.Len(t, cli, 2)

	failures, err := store.List(ctx, Filter{OnlyFailures: true})
	require.NoError(t, err)
	assert.Len(t, failures, 1)

	limited, err := store.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, SourceWebSocket, limited[0].Source)

	offset, err := store.List(ctx, Filter{Offset: 3})
	require.NoError(t, err)
	require.Len(t, offset, 1)
	assert.Equal(t, SourceCLI, offset[0].Source)

	future, err := store.List(ctx, Filter{Since: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestNonFiniteValues(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &Record{Expression: "0/0", Value: math.NaN(), Success: true}))
	require.NoError(t, store.Record(ctx, &Record{Expression: "5/0", Value: math.Inf(1), Success: true}))

	records, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, math.IsInf(records[0].Value, 1))
	assert.True(t, math.IsNaN(records[1].Value))
}

func TestGet(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	record := &Record{Expression: "7*6", Value: 42, Success: true, RequestID: "req-1"}
	require.NoError(t, store.Record(ctx, record))

	got, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "7*6", got.Expression)
	assert.Equal(t, "req-1", got.RequestID)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaxEntries(t *testing.T) {
	store := newTestStore(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, &Record{Expression: string(rune('a' + i)), Success: true}))
	}

	records, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "e", records[0].Expression)
	assert.Equal(t, "c", records[2].Expression)
}

func TestStatsClearAndPrune(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.True(t, stats.First.IsZero())

	for i := 0; i < 4; i++ {
		require.NoError(t, store.Record(ctx, &Record{Expression: "x", Success: i%2 == 0}))
	}

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Failures)
	assert.False(t, stats.Last.IsZero())

	pruned, err := store.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pruned)

	cleared, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	require.NoError(t, store.Ping(ctx))
}
