// Package graph defines the dependency-graph data model and the backend
// interface the impact engine reads from. Backends own the graph; this
// package never mutates one after construction.
package graph

// NodeKind classifies a node in the dependency graph. It determines which
// analyzer bucket (tests, alerts, generic) an affected node lands in.
type NodeKind string

const (
	KindFunction NodeKind = "function"
	KindTestCase NodeKind = "test_case"
	KindAlert    NodeKind = "alert"
	KindModule   NodeKind = "module"
	KindTable    NodeKind = "table"
	KindOther    NodeKind = "other"
)

// ParseNodeKind normalizes a raw kind string. Unrecognized values map to
// KindOther rather than failing, so snapshots from older extractors load.
func ParseNodeKind(s string) NodeKind {
	switch NodeKind(s) {
	case KindFunction, KindTestCase, KindAlert, KindModule, KindTable:
		return NodeKind(s)
	default:
		return KindOther
	}
}

// EdgeKind classifies a directed relation between two nodes.
type EdgeKind string

const (
	EdgeDependsOn     EdgeKind = "depends_on"
	EdgeCalls         EdgeKind = "calls"
	EdgeUsesMetadata  EdgeKind = "uses_metadata"
	EdgeExecutesQuery EdgeKind = "executes_query"
)

// DependencyKinds returns the edge kinds that participate in impact
// propagation, in a fixed order. Edge kinds outside this list may exist in a
// graph but are ignored by the engine.
func DependencyKinds() []EdgeKind {
	return []EdgeKind{EdgeDependsOn, EdgeCalls, EdgeUsesMetadata, EdgeExecutesQuery}
}

// Node is an entity in the dependency graph: a function, test, alert,
// module, or table. IDs are opaque strings stable across graph rebuilds
// within a session (e.g. "function:billing:ChargeCard").
type Node struct {
	ID          string         `json:"id" yaml:"id"`
	Kind        NodeKind       `json:"kind" yaml:"kind"`
	DisplayName string         `json:"display_name" yaml:"display_name"`
	Props       map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Edge is a directed dependency relation: Source depends on (calls, uses,
// queries) Target. Props are opaque to the engine and forwarded unchanged
// into visualization output.
type Edge struct {
	Source string         `json:"source" yaml:"source"`
	Target string         `json:"target" yaml:"target"`
	Kind   EdgeKind       `json:"kind" yaml:"kind"`
	Props  map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Complexity returns the node's cyclomatic-style complexity from props,
// or 0 when absent. Handles the numeric types both YAML and JSON decoders
// produce.
func (n *Node) Complexity() int {
	return intProp(n.Props, "complexity")
}

// Environment returns the node's environment tag ("prod", "staging", ...)
// from props, or "" when absent.
func (n *Node) Environment() string {
	if n.Props == nil {
		return ""
	}
	if s, ok := n.Props["environment"].(string); ok {
		return s
	}
	return ""
}

// BoolProp returns a boolean prop, or false when absent or non-boolean.
func (n *Node) BoolProp(key string) bool {
	if n.Props == nil {
		return false
	}
	b, _ := n.Props[key].(bool)
	return b
}

// FloatProp returns a numeric prop as float64 and whether it was present.
func (n *Node) FloatProp(key string) (float64, bool) {
	if n.Props == nil {
		return 0, false
	}
	switch v := n.Props[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func intProp(props map[string]any, key string) int {
	if props == nil {
		return 0
	}
	switch v := props[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
