package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/l3aro/go-impact-query/pkg/graph"
)

func TestCoverage(t *testing.T) {
	affected := []graph.Node{
		{ID: "a", Kind: graph.KindFunction},
		{ID: "b", Kind: graph.KindFunction},
		{ID: "c", Kind: graph.KindTestCase},
	}

	m := Coverage(affected, 10)
	assert.InDelta(t, 30.0, m.CoveragePercentage, 1e-9)
	assert.Equal(t, 2, m.AffectedByKind["function"])
	assert.Equal(t, 1, m.AffectedByKind["test_case"])
}

func TestCoverage_EmptyGraph(t *testing.T) {
	m := Coverage(nil, 0)
	assert.Equal(t, 0.0, m.CoveragePercentage, "zero total nodes must not divide by zero")
	assert.NotNil(t, m.AffectedByKind)
}

func TestCoverage_Bounds(t *testing.T) {
	affected := []graph.Node{{ID: "a"}, {ID: "b"}}
	m := Coverage(affected, 2)
	assert.GreaterOrEqual(t, m.CoveragePercentage, 0.0)
	assert.LessOrEqual(t, m.CoveragePercentage, 100.0)
}

func TestRisk_MeanAndHighRisk(t *testing.T) {
	scores := map[string]float64{"a": 0.9, "b": 0.5, "c": 0.8}
	riskFn := func(n *graph.Node) float64 { return scores[n.ID] }

	affected := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	m := Risk(affected, riskFn, HighRiskThreshold)

	assert.InDelta(t, (0.9+0.5+0.8)/3, m.OverallRisk, 1e-9)
	assert.ElementsMatch(t, []string{"a", "c"}, m.HighRiskNodes)
	assert.GreaterOrEqual(t, m.OverallRisk, 0.0)
	assert.LessOrEqual(t, m.OverallRisk, 1.0)
}

func TestRisk_EmptySet(t *testing.T) {
	m := Risk(nil, DefaultRisk, HighRiskThreshold)
	assert.Equal(t, 0.0, m.OverallRisk)
	assert.Empty(t, m.HighRiskNodes)
	// All category buckets exist even when zero.
	assert.Contains(t, m.RiskByCategory, CategoryProduction)
	assert.Contains(t, m.RiskByCategory, CategoryCriticalPath)
	assert.Contains(t, m.RiskByCategory, CategoryExternalDeps)
}

func TestRisk_Categories(t *testing.T) {
	riskFn := func(n *graph.Node) float64 { return 0.5 }
	affected := []graph.Node{
		{ID: "a", Props: map[string]any{"environment": "prod"}},
		{ID: "b", Props: map[string]any{"environment": "staging"}},
		{ID: "c", Props: map[string]any{"environment": "prod", "external": true}},
	}

	m := Risk(affected, riskFn, HighRiskThreshold)
	assert.InDelta(t, 1.0, m.RiskByCategory[CategoryProduction], 1e-9)
	assert.InDelta(t, 0.5, m.RiskByCategory[CategoryExternalDeps], 1e-9)
	assert.Equal(t, 0.0, m.RiskByCategory[CategoryCriticalPath], "no detection rule yet; stays zero")
}

func TestRisk_ClampsOutOfRangeScores(t *testing.T) {
	riskFn := func(n *graph.Node) float64 { return 7.5 }
	m := Risk([]graph.Node{{ID: "a"}}, riskFn, HighRiskThreshold)
	assert.Equal(t, 1.0, m.OverallRisk)
}

func TestComplexity_Distribution(t *testing.T) {
	// 2 nodes at 35, 3 at 15, 5 at 5: high 2, medium 3, low 5.
	var affected []graph.Node
	add := func(n int, complexity int) {
		for i := 0; i < n; i++ {
			affected = append(affected, graph.Node{
				ID:    string(rune('a'+len(affected))) + "x",
				Props: map[string]any{"complexity": complexity},
			})
		}
	}
	add(2, 35)
	add(3, 15)
	add(5, 5)

	m := Complexity(affected)
	assert.Equal(t, 5, m.ComplexityDistribution["low"])
	assert.Equal(t, 3, m.ComplexityDistribution["medium"])
	assert.Equal(t, 2, m.ComplexityDistribution["high"])
	assert.Equal(t, 2*35+3*15+5*5, m.TotalComplexity)
	assert.InDelta(t, float64(2*35+3*15+5*5)/10, m.AverageComplexity, 1e-9)
}

func TestComplexity_MissingPropCountsAsZero(t *testing.T) {
	m := Complexity([]graph.Node{{ID: "a"}, {ID: "b", Props: map[string]any{"complexity": 12}}})
	assert.Equal(t, 12, m.TotalComplexity)
	assert.Equal(t, 1, m.ComplexityDistribution["low"])
	assert.Equal(t, 1, m.ComplexityDistribution["medium"])
}

func TestComplexity_Empty(t *testing.T) {
	m := Complexity(nil)
	assert.Equal(t, 0, m.TotalComplexity)
	assert.Equal(t, 0.0, m.AverageComplexity)
	assert.Equal(t, 0, m.ComplexityDistribution["low"])
}

func TestDefaultRisk(t *testing.T) {
	explicit := &graph.Node{ID: "a", Props: map[string]any{"risk": 0.95}}
	assert.InDelta(t, 0.95, DefaultRisk(explicit), 1e-9, "explicit risk prop wins")

	prod := &graph.Node{ID: "b", Props: map[string]any{"environment": "prod", "complexity": 50}}
	assert.InDelta(t, 1.0, DefaultRisk(prod), 1e-9)

	plain := &graph.Node{ID: "c"}
	assert.InDelta(t, 0.1, DefaultRisk(plain), 1e-9)

	overflow := &graph.Node{ID: "d", Props: map[string]any{"risk": 3.0}}
	assert.Equal(t, 1.0, DefaultRisk(overflow))
}
