package graph

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSnapshot = `version: v1
nodes:
  - id: "function:billing:ChargeCard"
    kind: function
    display_name: "ChargeCard"
    props:
      complexity: 18
      environment: prod
  - id: "test:billing:TestChargeCard"
    kind: test_case
    display_name: "TestChargeCard"
edges:
  - source: "test:billing:TestChargeCard"
    target: "function:billing:ChargeCard"
    kind: calls
`

func TestParseSnapshot(t *testing.T) {
	b, err := ParseSnapshot([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("ParseSnapshot returned error: %v", err)
	}

	n, err := b.GetNode(context.Background(), "function:billing:ChargeCard")
	if err != nil {
		t.Fatalf("GetNode returned error: %v", err)
	}
	if n.Kind != KindFunction {
		t.Errorf("expected kind function, got %s", n.Kind)
	}
	if c := n.Complexity(); c != 18 {
		t.Errorf("expected complexity 18, got %d", c)
	}
	if env := n.Environment(); env != "prod" {
		t.Errorf("expected environment prod, got %s", env)
	}

	edges, err := b.FindEdges(context.Background(), "function:billing:ChargeCard", EdgeCalls)
	if err != nil {
		t.Fatalf("FindEdges returned error: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].Source != "test:billing:TestChargeCard" {
		t.Errorf("unexpected edge source %s", edges[0].Source)
	}
}

func TestParseSnapshot_VersionMismatch(t *testing.T) {
	_, err := ParseSnapshot([]byte("version: v99\nnodes: []\nedges: []\n"))
	if err == nil || !strings.Contains(err.Error(), "unsupported snapshot version") {
		t.Errorf("expected version error, got %v", err)
	}
}

func TestParseSnapshot_MissingID(t *testing.T) {
	_, err := ParseSnapshot([]byte("nodes:\n  - kind: function\n"))
	if err == nil || !strings.Contains(err.Error(), "empty id") {
		t.Errorf("expected empty id error, got %v", err)
	}
}

func TestParseSnapshot_DanglingEdgeAllowed(t *testing.T) {
	data := `nodes:
  - id: a
    kind: function
edges:
  - source: ghost
    target: a
    kind: calls
`
	b, err := ParseSnapshot([]byte(data))
	if err != nil {
		t.Fatalf("dangling edges must load: %v", err)
	}
	edges, _ := b.FindEdges(context.Background(), "a", EdgeCalls)
	if len(edges) != 1 {
		t.Errorf("expected the dangling edge to be indexed, got %d edges", len(edges))
	}
}

func TestLoadAndWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")

	snap := &Snapshot{
		Nodes: []Node{{ID: "a", Kind: KindTable, DisplayName: "orders"}},
		Edges: []Edge{{Source: "b", Target: "a", Kind: EdgeExecutesQuery}},
	}
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("WriteSnapshot returned error: %v", err)
	}

	b, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot returned error: %v", err)
	}
	if n, _ := b.CountNodes(context.Background()); n != 1 {
		t.Errorf("expected 1 node, got %d", n)
	}
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}
