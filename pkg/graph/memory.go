package graph

import (
	"context"
	"sync"
)

// MemoryBackend is an in-memory Backend with a reverse-edge index.
// It is the snapshot-file backend and the test double for the engine.
type MemoryBackend struct {
	mu      sync.RWMutex
	nodes   map[string]Node
	reverse map[string]map[EdgeKind][]Edge // target -> kind -> edges
}

// NewMemoryBackend creates an empty in-memory graph.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		nodes:   make(map[string]Node),
		reverse: make(map[string]map[EdgeKind][]Edge),
	}
}

// AddNode inserts or replaces a node. The node's kind is normalized so
// lookups never observe an unrecognized kind.
func (m *MemoryBackend) AddNode(n Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.Kind = ParseNodeKind(string(n.Kind))
	m.nodes[n.ID] = n
}

// AddEdge inserts an edge into the reverse index. Edges referencing node ids
// that were never added are allowed; GetNode on those ids reports ErrNotFound
// and the engine treats them as graph integrity gaps.
func (m *MemoryBackend) AddEdge(e Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKind, ok := m.reverse[e.Target]
	if !ok {
		byKind = make(map[EdgeKind][]Edge)
		m.reverse[e.Target] = byKind
	}
	byKind[e.Kind] = append(byKind[e.Kind], e)
}

// GetNode implements Backend.
func (m *MemoryBackend) GetNode(ctx context.Context, id string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

// FindEdges implements Backend. The returned slice is a copy; callers may
// hold it across the lifetime of an analysis.
func (m *MemoryBackend) FindEdges(ctx context.Context, target string, kind EdgeKind) ([]Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	byKind, ok := m.reverse[target]
	if !ok {
		return nil, nil
	}
	edges := byKind[kind]
	if len(edges) == 0 {
		return nil, nil
	}
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out, nil
}

// CountNodes implements Backend.
func (m *MemoryBackend) CountNodes(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes), nil
}
