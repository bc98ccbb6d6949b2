package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-impact-query/internal/config"
	"github.com/l3aro/go-impact-query/pkg/impact"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <node-id>",
	Short: "Emit the visualization payload for an analysis",
	Long: `Runs an impact analysis and serializes the root node, the affected nodes
with per-node risk scores, the traversed edges, and the full metrics bundle
as JSON for rendering by an external UI.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID := args[0]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		depth := cfg.MaxDepth
		if cmd.Flags().Changed("depth") {
			depth, _ = cmd.Flags().GetInt("depth")
		}

		backend, _, closer, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer()

		analyzer := impact.NewAnalyzer(backend,
			impact.WithHighRiskThreshold(cfg.HighRiskThreshold))

		an, err := analyzer.AnalyzeImpact(cmd.Context(), nodeID, depth)
		if err != nil {
			return err
		}
		metrics, err := analyzer.Metrics(cmd.Context(), an)
		if err != nil {
			return err
		}

		payload := analyzer.Export(an, metrics)
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(outPath, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Printf("Wrote visualization payload to %s (%d nodes, %d edges)\n",
			outPath, len(payload.Nodes), len(payload.Edges))
		return nil
	},
}

func init() {
	exportCmd.Flags().IntP("depth", "d", 0, "Maximum traversal depth (defaults to config max_depth)")
	exportCmd.Flags().StringP("out", "o", "", "Write payload to file instead of stdout")
}
