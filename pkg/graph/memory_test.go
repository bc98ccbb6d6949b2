package graph

import (
	"context"
	"errors"
	"testing"
)

// TestMemoryBackend_GetNode verifies node lookup and the not-found sentinel.
func TestMemoryBackend_GetNode(t *testing.T) {
	b := NewMemoryBackend()
	b.AddNode(Node{ID: "function:pkg:Do", Kind: KindFunction, DisplayName: "Do"})

	n, err := b.GetNode(context.Background(), "function:pkg:Do")
	if err != nil {
		t.Fatalf("GetNode returned error: %v", err)
	}
	if n.DisplayName != "Do" {
		t.Errorf("expected display name Do, got %s", n.DisplayName)
	}

	_, err = b.GetNode(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestMemoryBackend_KindNormalization checks that unknown kinds collapse to other.
func TestMemoryBackend_KindNormalization(t *testing.T) {
	b := NewMemoryBackend()
	b.AddNode(Node{ID: "x", Kind: NodeKind("mysterious")})

	n, err := b.GetNode(context.Background(), "x")
	if err != nil {
		t.Fatalf("GetNode returned error: %v", err)
	}
	if n.Kind != KindOther {
		t.Errorf("expected kind other, got %s", n.Kind)
	}
}

// TestMemoryBackend_FindEdges verifies the reverse index by target and kind.
func TestMemoryBackend_FindEdges(t *testing.T) {
	b := NewMemoryBackend()
	b.AddEdge(Edge{Source: "a", Target: "t", Kind: EdgeCalls})
	b.AddEdge(Edge{Source: "b", Target: "t", Kind: EdgeCalls})
	b.AddEdge(Edge{Source: "c", Target: "t", Kind: EdgeDependsOn})
	b.AddEdge(Edge{Source: "a", Target: "other", Kind: EdgeCalls})

	edges, err := b.FindEdges(context.Background(), "t", EdgeCalls)
	if err != nil {
		t.Fatalf("FindEdges returned error: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 calls edges, got %d", len(edges))
	}
	for _, e := range edges {
		if e.Target != "t" || e.Kind != EdgeCalls {
			t.Errorf("unexpected edge %+v", e)
		}
	}

	edges, err = b.FindEdges(context.Background(), "t", EdgeExecutesQuery)
	if err != nil {
		t.Fatalf("FindEdges returned error: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("expected no executes_query edges, got %d", len(edges))
	}
}

// TestMemoryBackend_CountNodes verifies the total used by coverage metrics.
func TestMemoryBackend_CountNodes(t *testing.T) {
	b := NewMemoryBackend()
	if n, _ := b.CountNodes(context.Background()); n != 0 {
		t.Errorf("expected 0 nodes, got %d", n)
	}
	b.AddNode(Node{ID: "a"})
	b.AddNode(Node{ID: "b"})
	b.AddNode(Node{ID: "a"}) // replace, not duplicate
	if n, _ := b.CountNodes(context.Background()); n != 2 {
		t.Errorf("expected 2 nodes, got %d", n)
	}
}

// TestMemoryBackend_ContextCancelled verifies reads observe cancellation.
func TestMemoryBackend_ContextCancelled(t *testing.T) {
	b := NewMemoryBackend()
	b.AddNode(Node{ID: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.GetNode(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := b.FindEdges(ctx, "a", EdgeCalls); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestNodeProps exercises the typed prop accessors across decoder types.
func TestNodeProps(t *testing.T) {
	n := Node{ID: "x", Props: map[string]any{
		"complexity":  float64(12), // JSON decoders produce float64
		"environment": "prod",
		"external":    true,
	}}

	if c := n.Complexity(); c != 12 {
		t.Errorf("expected complexity 12, got %d", c)
	}
	if env := n.Environment(); env != "prod" {
		t.Errorf("expected environment prod, got %s", env)
	}
	if !n.BoolProp("external") {
		t.Error("expected external=true")
	}

	empty := Node{ID: "y"}
	if c := empty.Complexity(); c != 0 {
		t.Errorf("expected complexity 0 for missing prop, got %d", c)
	}
	if empty.BoolProp("external") {
		t.Error("expected external=false for missing prop")
	}
}
