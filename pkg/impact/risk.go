package impact

import (
	"github.com/l3aro/go-impact-query/pkg/graph"
)

// HighRiskThreshold is the default node-risk cutoff for high_risk_nodes.
const HighRiskThreshold = 0.7

// RiskFunc scores the risk of changing a single node, in [0, 1]. It is an
// injected strategy: the engine aggregates scores but does not own the
// model producing them. Scorers needing graph context can close over a
// graph.Backend.
type RiskFunc func(n *graph.Node) float64

// DefaultRisk is the built-in scoring heuristic, used when no RiskFunc is
// injected. A node's explicit "risk" prop wins outright; otherwise the
// score blends a small base with production exposure and complexity:
//
//	0.1 base
//	+0.4 when environment == "prod"
//	+0.5 * min(complexity, 50)/50
//
// The result is clamped to [0, 1].
func DefaultRisk(n *graph.Node) float64 {
	if r, ok := n.FloatProp("risk"); ok {
		return clamp01(r)
	}
	score := 0.1
	if n.Environment() == "prod" {
		score += 0.4
	}
	c := n.Complexity()
	if c > 50 {
		c = 50
	}
	score += 0.5 * float64(c) / 50
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
