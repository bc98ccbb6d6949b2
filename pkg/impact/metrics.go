package impact

import (
	"github.com/l3aro/go-impact-query/pkg/graph"
)

// Complexity distribution bucket thresholds.
const (
	complexityMediumMin = 10
	complexityHighMin   = 30
)

// Risk category keys. production and external_dependencies are populated
// from node props; critical_path stays a zero accumulator until a detection
// rule exists upstream.
const (
	CategoryProduction   = "production"
	CategoryCriticalPath = "critical_path"
	CategoryExternalDeps = "external_dependencies"
)

// CoverageMetrics describes how much of the whole graph one analysis touched.
type CoverageMetrics struct {
	CoveragePercentage float64        `json:"coverage_percentage"`
	AffectedByKind     map[string]int `json:"affected_by_kind"`
}

// RiskMetrics aggregates per-node risk scores over the affected set.
type RiskMetrics struct {
	OverallRisk    float64            `json:"overall_risk"`
	HighRiskNodes  []string           `json:"high_risk_nodes"`
	RiskByCategory map[string]float64 `json:"risk_by_category"`
}

// ComplexityMetrics aggregates cyclomatic-style complexity over the
// affected set.
type ComplexityMetrics struct {
	TotalComplexity        int            `json:"total_complexity"`
	AverageComplexity      float64        `json:"average_complexity"`
	ComplexityDistribution map[string]int `json:"complexity_distribution"`
}

// Metrics bundles the three independent metric groups.
type Metrics struct {
	Coverage   CoverageMetrics   `json:"coverage"`
	Risk       RiskMetrics       `json:"risk"`
	Complexity ComplexityMetrics `json:"complexity"`
}

// Coverage computes the fraction of the graph touched by an analysis and
// the per-kind affected counts. A zero-node graph yields 0%, not a
// division by zero.
func Coverage(affected []graph.Node, totalNodes int) CoverageMetrics {
	m := CoverageMetrics{
		AffectedByKind: make(map[string]int),
	}
	if totalNodes > 0 {
		m.CoveragePercentage = 100 * float64(len(affected)) / float64(totalNodes)
	}
	for _, n := range affected {
		m.AffectedByKind[string(n.Kind)]++
	}
	return m
}

// Risk scores every affected node with riskFn and aggregates: the mean
// overall risk (0 over an empty set), the ids of nodes above threshold, and
// per-category risk sums.
func Risk(affected []graph.Node, riskFn RiskFunc, threshold float64) RiskMetrics {
	m := RiskMetrics{
		HighRiskNodes: []string{},
		RiskByCategory: map[string]float64{
			CategoryProduction:   0,
			CategoryCriticalPath: 0,
			CategoryExternalDeps: 0,
		},
	}
	if riskFn == nil {
		riskFn = DefaultRisk
	}

	var sum float64
	for i := range affected {
		n := &affected[i]
		score := clamp01(riskFn(n))
		sum += score
		if score > threshold {
			m.HighRiskNodes = append(m.HighRiskNodes, n.ID)
		}
		if n.Environment() == "prod" {
			m.RiskByCategory[CategoryProduction] += score
		}
		if n.BoolProp("external") {
			m.RiskByCategory[CategoryExternalDeps] += score
		}
	}
	if len(affected) > 0 {
		m.OverallRisk = sum / float64(len(affected))
	}
	return m
}

// Complexity sums and buckets node complexity. Nodes missing the prop
// count as 0 and land in the low bucket.
func Complexity(affected []graph.Node) ComplexityMetrics {
	m := ComplexityMetrics{
		ComplexityDistribution: map[string]int{
			"low":    0,
			"medium": 0,
			"high":   0,
		},
	}
	for i := range affected {
		c := affected[i].Complexity()
		m.TotalComplexity += c
		switch {
		case c >= complexityHighMin:
			m.ComplexityDistribution["high"]++
		case c >= complexityMediumMin:
			m.ComplexityDistribution["medium"]++
		default:
			m.ComplexityDistribution["low"]++
		}
	}
	if len(affected) > 0 {
		m.AverageComplexity = float64(m.TotalComplexity) / float64(len(affected))
	}
	return m
}

// ZeroMetrics returns a fully zeroed metrics bundle with all maps and
// buckets present, matching the wire schema for an empty analysis.
func ZeroMetrics() *Metrics {
	return &Metrics{
		Coverage:   Coverage(nil, 0),
		Risk:       Risk(nil, DefaultRisk, HighRiskThreshold),
		Complexity: Complexity(nil),
	}
}
