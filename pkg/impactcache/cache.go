// Package impactcache provides LRU caching of impact analysis results with
// msgpack disk persistence. Keys incorporate a graph generation so entries
// invalidate themselves whenever the underlying snapshot changes.
package impactcache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/l3aro/go-impact-query/pkg/impact"
)

// DefaultMaxEntries bounds the store when no limit is configured.
const DefaultMaxEntries = 1000

// Key builds a cache key from the analysis inputs and the graph generation.
// Identical inputs against an unchanged graph hit the same entry; any
// change to the generation string invalidates everything implicitly.
func Key(rootID string, maxDepth int, generation string) string {
	h := sha256.Sum256([]byte(rootID + ":" + strconv.Itoa(maxDepth) + ":" + generation))
	return hex.EncodeToString(h[:])
}

// entry is one cached analysis result.
type entry struct {
	Key        string         `msgpack:"key"`
	Result     *impact.Result `msgpack:"result"`
	ComputedAt int64          `msgpack:"computed_at"`
	lruElement *list.Element
}

// Stats reports store effectiveness counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Entries   int   `json:"entries"`
}

// Store is an in-memory LRU of analysis results, safe for concurrent use.
// Concurrent lookups of the same missing key share one computation via
// singleflight.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	lru        *list.List // front = most recently used
	maxEntries int
	flight     singleflight.Group

	hits      int64
	misses    int64
	evictions int64
}

// New creates a store holding at most maxEntries results.
// maxEntries <= 0 uses DefaultMaxEntries.
func New(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		entries:    make(map[string]*entry),
		lru:        list.New(),
		maxEntries: maxEntries,
	}
}

// Get returns the cached result for key, if present.
func (s *Store) Get(key string) (*impact.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}
	s.lru.MoveToFront(e.lruElement)
	atomic.AddInt64(&s.hits, 1)
	return e.Result, true
}

// Put stores a result under key, evicting the least recently used entry
// when over capacity.
func (s *Store) Put(key string, result *impact.Result) {
	if result == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, result, time.Now().UnixMilli())
}

func (s *Store) put(key string, result *impact.Result, computedAt int64) {
	if e, ok := s.entries[key]; ok {
		e.Result = result
		e.ComputedAt = computedAt
		s.lru.MoveToFront(e.lruElement)
		return
	}
	e := &entry{Key: key, Result: result, ComputedAt: computedAt}
	e.lruElement = s.lru.PushFront(e)
	s.entries[key] = e

	for s.lru.Len() > s.maxEntries {
		back := s.lru.Back()
		if back == nil {
			break
		}
		evicted := s.lru.Remove(back).(*entry)
		delete(s.entries, evicted.Key)
		atomic.AddInt64(&s.evictions, 1)
	}
}

// GetOrCompute returns the cached result for key or computes, stores, and
// returns it. Concurrent callers for the same key share one compute call.
func (s *Store) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*impact.Result, error)) (*impact.Result, error) {
	if result, ok := s.Get(key); ok {
		return result, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		if result, ok := s.Get(key); ok {
			return result, nil
		}
		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*impact.Result), nil
}

// Len returns the number of cached results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns a snapshot of the store counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	entries := len(s.entries)
	s.mu.RUnlock()
	return Stats{
		Hits:      atomic.LoadInt64(&s.hits),
		Misses:    atomic.LoadInt64(&s.misses),
		Evictions: atomic.LoadInt64(&s.evictions),
		Entries:   entries,
	}
}

// storeData is the msgpack on-disk shape.
type storeData struct {
	Version int     `msgpack:"version"`
	Entries []entry `msgpack:"entries"`
}

const diskVersion = 1

// Save persists the store to path in msgpack format, most recent first so
// a capped Load keeps the hottest entries.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	data := storeData{Version: diskVersion, Entries: make([]entry, 0, len(s.entries))}
	for el := s.lru.Front(); el != nil; el = el.Next() {
		data.Entries = append(data.Entries, *el.Value.(*entry))
	}
	s.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache file %s: %w", path, err)
	}
	defer f.Close()

	if err := msgpack.NewEncoder(f).Encode(data); err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	return nil
}

// Load restores entries from path. A missing file is not an error; an
// unreadable or version-mismatched file leaves the store empty.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file %s: %w", path, err)
	}
	defer f.Close()

	var data storeData
	if err := msgpack.NewDecoder(f).Decode(&data); err != nil {
		return fmt.Errorf("decoding cache: %w", err)
	}
	if data.Version != diskVersion {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Insert in reverse so the first saved entry ends up most recent.
	for i := len(data.Entries) - 1; i >= 0; i-- {
		e := data.Entries[i]
		if e.Key == "" || e.Result == nil {
			continue
		}
		s.put(e.Key, e.Result, e.ComputedAt)
	}
	return nil
}
