package impactcache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-impact-query/pkg/impact"
)

func testResult(rootID string, total int) *impact.Result {
	return &impact.Result{
		NodeID:         rootID,
		AffectedNodes:  []string{},
		AffectedTests:  []string{},
		AffectedAlerts: []string{},
		TotalAffected:  total,
		Metrics:        *impact.ZeroMetrics(),
	}
}

func TestKey_Deterministic(t *testing.T) {
	k1 := Key("billing.Charge", 5, "gen-a")
	k2 := Key("billing.Charge", 5, "gen-a")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestKey_ChangesWithInputs(t *testing.T) {
	base := Key("billing.Charge", 5, "gen-a")
	assert.NotEqual(t, base, Key("billing.Refund", 5, "gen-a"))
	assert.NotEqual(t, base, Key("billing.Charge", 3, "gen-a"))
	assert.NotEqual(t, base, Key("billing.Charge", 5, "gen-b"))
}

func TestStore_GetPut(t *testing.T) {
	store := New(10)

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Put("k1", testResult("A", 3))
	got, ok := store.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "A", got.NodeID)
	assert.Equal(t, 3, got.TotalAffected)

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestStore_PutNilIgnored(t *testing.T) {
	store := New(10)
	store.Put("k1", nil)
	assert.Equal(t, 0, store.Len())
}

func TestStore_PutOverwrites(t *testing.T) {
	store := New(10)
	store.Put("k1", testResult("A", 1))
	store.Put("k1", testResult("A", 2))

	got, ok := store.Get("k1")
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalAffected)
	assert.Equal(t, 1, store.Len())
}

func TestStore_EvictsLRU(t *testing.T) {
	store := New(2)
	store.Put("k1", testResult("A", 1))
	store.Put("k2", testResult("B", 1))

	// Touch k1 so k2 becomes the eviction candidate.
	_, ok := store.Get("k1")
	require.True(t, ok)

	store.Put("k3", testResult("C", 1))

	_, ok = store.Get("k2")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = store.Get("k1")
	assert.True(t, ok)
	_, ok = store.Get("k3")
	assert.True(t, ok)
	assert.Equal(t, int64(1), store.Stats().Evictions)
}

func TestStore_DefaultMaxEntries(t *testing.T) {
	store := New(0)
	assert.Equal(t, DefaultMaxEntries, store.maxEntries)
}

func TestGetOrCompute_ComputesOnce(t *testing.T) {
	store := New(10)
	var calls int32

	compute := func(ctx context.Context) (*impact.Result, error) {
		atomic.AddInt32(&calls, 1)
		return testResult("A", 7), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.GetOrCompute(context.Background(), "k1", compute)
			assert.NoError(t, err)
			assert.Equal(t, 7, got.TotalAffected)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers should share one compute")
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	store := New(10)
	wantErr := errors.New("backend down")
	calls := 0

	_, err := store.GetOrCompute(context.Background(), "k1", func(ctx context.Context) (*impact.Result, error) {
		calls++
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, store.Len())

	// A later call retries rather than replaying the failure.
	got, err := store.GetOrCompute(context.Background(), "k1", func(ctx context.Context) (*impact.Result, error) {
		calls++
		return testResult("A", 1), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "A", got.NodeID)
	assert.Equal(t, 2, calls)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.msgpack")

	store := New(10)
	store.Put("k1", testResult("A", 1))
	store.Put("k2", testResult("B", 2))
	require.NoError(t, store.Save(path))

	restored := New(10)
	require.NoError(t, restored.Load(path))
	assert.Equal(t, 2, restored.Len())

	got, ok := restored.Get("k2")
	require.True(t, ok)
	assert.Equal(t, "B", got.NodeID)
	assert.Equal(t, 2, got.TotalAffected)
}

func TestSaveLoad_PreservesRecency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.msgpack")

	store := New(10)
	for i := 0; i < 4; i++ {
		store.Put(fmt.Sprintf("k%d", i), testResult(fmt.Sprintf("N%d", i), i))
	}
	require.NoError(t, store.Save(path))

	// Loading into a smaller store keeps the most recently used entries.
	restored := New(2)
	require.NoError(t, restored.Load(path))
	assert.Equal(t, 2, restored.Len())

	_, ok := restored.Get("k3")
	assert.True(t, ok)
	_, ok = restored.Get("k2")
	assert.True(t, ok)
	_, ok = restored.Get("k0")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	store := New(10)
	err := store.Load(filepath.Join(t.TempDir(), "nope.msgpack"))
	assert.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
