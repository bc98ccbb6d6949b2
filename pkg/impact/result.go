package impact

import (
	"github.com/l3aro/go-impact-query/pkg/graph"
)

// SchemaVersion identifies the wire result schema.
const SchemaVersion = "v1"

// Result is the compact v1 wire format of one impact analysis: node ids
// only, so programmatic consumers (CI gates, regression-test selectors)
// stay cheap. Full node objects appear only in the visualization export.
type Result struct {
	NodeID         string   `json:"node_id"`
	AffectedNodes  []string `json:"affected_nodes"`
	AffectedTests  []string `json:"affected_tests"`
	AffectedAlerts []string `json:"affected_alerts"`
	TotalAffected  int      `json:"total_affected"`
	DepthReached   int      `json:"depth_reached"`
	Truncated      bool     `json:"truncated,omitempty"`
	Metrics        Metrics  `json:"metrics"`
}

// Result assembles the wire-format result from an analysis and its metrics.
// All id arrays are non-nil so they serialize as [] rather than null.
func (an *Analysis) Result(metrics *Metrics) *Result {
	if metrics == nil {
		metrics = ZeroMetrics()
	}
	return &Result{
		NodeID:         an.RootID,
		AffectedNodes:  nodeIDs(an.Nodes),
		AffectedTests:  nodeIDs(an.Tests),
		AffectedAlerts: nodeIDs(an.Alerts),
		TotalAffected:  len(an.Nodes),
		DepthReached:   an.DepthReached,
		Truncated:      an.Truncated,
		Metrics:        *metrics,
	}
}

func nodeIDs(nodes []graph.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
