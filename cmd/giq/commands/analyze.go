package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-impact-query/internal/config"
	"github.com/l3aro/go-impact-query/internal/log"
	"github.com/l3aro/go-impact-query/pkg/impact"
	"github.com/l3aro/go-impact-query/pkg/impactcache"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <node-id>",
	Short: "Run a full impact analysis from a changed node",
	Long: `Computes the transitive set of downstream artifacts affected by a change
to the given node, together with coverage, risk, and complexity metrics.

Node ids are opaque graph keys, e.g. "function:billing:ChargeCard".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID := args[0]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Verbose {
			log.Default().SetLevel(log.DebugLevel)
		}

		depth := cfg.MaxDepth
		if cmd.Flags().Changed("depth") {
			depth, _ = cmd.Flags().GetInt("depth")
		}

		result, err := runAnalysis(cmd.Context(), cfg, nodeID, depth)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printAnalysis(result)
		return nil
	},
}

// runAnalysis executes one analysis against the configured backend, going
// through the result cache when it is enabled and the backend provides a
// content generation.
func runAnalysis(ctx context.Context, cfg *config.Config, nodeID string, depth int) (*impact.Result, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, generation, closer, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closer()

	analyzer := impact.NewAnalyzer(backend,
		impact.WithHighRiskThreshold(cfg.HighRiskThreshold))

	compute := func(ctx context.Context) (*impact.Result, error) {
		an, err := analyzer.AnalyzeImpact(ctx, nodeID, depth)
		if err != nil {
			return nil, err
		}
		metrics, err := analyzer.Metrics(ctx, an)
		if err != nil {
			return nil, err
		}
		return an.Result(metrics), nil
	}

	if !cfg.CacheEnabled || generation == "" {
		return compute(ctx)
	}

	store := impactcache.New(cfg.CacheMaxEntries)
	if err := store.Load(cfg.CachePath); err != nil {
		log.Default().Warn("ignoring unreadable result cache", "path", cfg.CachePath, "error", err)
	}

	key := impactcache.Key(nodeID, depth, generation)
	result, err := store.GetOrCompute(ctx, key, compute)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0755); err == nil {
		if err := store.Save(cfg.CachePath); err != nil {
			log.Default().Warn("failed to persist result cache", "path", cfg.CachePath, "error", err)
		}
	}
	return result, nil
}

func printAnalysis(result *impact.Result) {
	fmt.Printf("=== Impact Analysis: %s ===\n\n", result.NodeID)
	fmt.Printf("Affected nodes: %d (depth reached: %d)\n", result.TotalAffected, result.DepthReached)
	fmt.Printf("Affected tests: %d\n", len(result.AffectedTests))
	fmt.Printf("Affected alerts: %d\n", len(result.AffectedAlerts))
	if result.Truncated {
		fmt.Println("NOTE: analysis was cancelled before completing; results are partial.")
	}

	fmt.Printf("\nCoverage: %.1f%% of graph\n", result.Metrics.Coverage.CoveragePercentage)
	if len(result.Metrics.Coverage.AffectedByKind) > 0 {
		kinds := make([]string, 0, len(result.Metrics.Coverage.AffectedByKind))
		for k := range result.Metrics.Coverage.AffectedByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %-12s %d\n", k, result.Metrics.Coverage.AffectedByKind[k])
		}
	}

	fmt.Printf("\nOverall risk: %.2f\n", result.Metrics.Risk.OverallRisk)
	if len(result.Metrics.Risk.HighRiskNodes) > 0 {
		fmt.Println("High-risk nodes:")
		for _, id := range result.Metrics.Risk.HighRiskNodes {
			fmt.Printf("  %s\n", id)
		}
	}

	fmt.Printf("\nComplexity: total %d, average %.1f (low %d / medium %d / high %d)\n",
		result.Metrics.Complexity.TotalComplexity,
		result.Metrics.Complexity.AverageComplexity,
		result.Metrics.Complexity.ComplexityDistribution["low"],
		result.Metrics.Complexity.ComplexityDistribution["medium"],
		result.Metrics.Complexity.ComplexityDistribution["high"])

	if result.TotalAffected > 0 {
		fmt.Println("\nAffected:")
		for _, id := range result.AffectedNodes {
			fmt.Printf("  %s\n", id)
		}
	} else {
		fmt.Println("\nNothing depends on this node.")
	}
}

func init() {
	analyzeCmd.Flags().IntP("depth", "d", 0, "Maximum traversal depth (defaults to config max_depth)")
	analyzeCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
