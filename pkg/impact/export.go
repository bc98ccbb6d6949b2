package impact

import (
	"github.com/l3aro/go-impact-query/pkg/graph"
)

// VizNode is a node annotated for graphical rendering: its display label
// and an individually computed risk score, plus the raw props untouched.
type VizNode struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Kind  graph.NodeKind `json:"kind"`
	Risk  float64        `json:"risk"`
	Props map[string]any `json:"props,omitempty"`
}

// VizEdge mirrors a traversed graph edge verbatim.
type VizEdge struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Kind   graph.EdgeKind `json:"kind"`
	Props  map[string]any `json:"props,omitempty"`
}

// GraphJSON is the visualization payload: root plus affected nodes, the
// edges connecting them, and the full metrics bundle. It is intended for an
// external UI; this engine only defines the data shape.
type GraphJSON struct {
	Version string    `json:"version"`
	Nodes   []VizNode `json:"nodes"`
	Edges   []VizEdge `json:"edges"`
	Metrics Metrics   `json:"metrics"`
}

// ToGraphJSON serializes an analysis for visualization. The root is always
// the first node and is always present, even with zero affected dependents.
// Each node is scored with riskFn individually so the payload stands alone
// even when the caller only requested summary metrics.
func ToGraphJSON(root *graph.Node, affected []graph.Node, edges []graph.Edge, metrics *Metrics, riskFn RiskFunc) *GraphJSON {
	if metrics == nil {
		metrics = ZeroMetrics()
	}
	if riskFn == nil {
		riskFn = DefaultRisk
	}

	out := &GraphJSON{
		Version: SchemaVersion,
		Nodes:   make([]VizNode, 0, len(affected)+1),
		Edges:   make([]VizEdge, 0, len(edges)),
		Metrics: *metrics,
	}
	out.Nodes = append(out.Nodes, vizNode(root, riskFn))
	for i := range affected {
		out.Nodes = append(out.Nodes, vizNode(&affected[i], riskFn))
	}
	for _, e := range edges {
		out.Edges = append(out.Edges, VizEdge{
			Source: e.Source,
			Target: e.Target,
			Kind:   e.Kind,
			Props:  e.Props,
		})
	}
	return out
}

func vizNode(n *graph.Node, riskFn RiskFunc) VizNode {
	label := n.DisplayName
	if label == "" {
		label = n.ID
	}
	return VizNode{
		ID:    n.ID,
		Label: label,
		Kind:  n.Kind,
		Risk:  clamp01(riskFn(n)),
		Props: n.Props,
	}
}
