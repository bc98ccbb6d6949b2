package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-impact-query/internal/config"
	"github.com/l3aro/go-impact-query/pkg/impact"
)

// DependentInfo represents a single direct dependent of a node
type DependentInfo struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name,omitempty"`
}

// DependentsOutput represents the output of the dependents command
type DependentsOutput struct {
	TargetID   string          `json:"target_id"`
	Dependents []DependentInfo `json:"dependents"`
	Count      int             `json:"count"`
}

// dependentsCmd represents the dependents command
var dependentsCmd = &cobra.Command{
	Use:   "dependents <node-id>",
	Short: "List the direct dependents of a node",
	Long: `Finds all nodes that depend on the given node via any recognized
dependency edge kind, one hop only. Use "giq analyze" for the transitive set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID := args[0]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		backend, _, closer, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer()

		resolver := impact.NewResolver(backend)
		nodes, _, err := resolver.FindDependents(cmd.Context(), nodeID)
		if err != nil {
			return fmt.Errorf("resolving dependents: %w", err)
		}

		output := DependentsOutput{
			TargetID:   nodeID,
			Dependents: make([]DependentInfo, 0, len(nodes)),
			Count:      len(nodes),
		}
		for _, n := range nodes {
			output.Dependents = append(output.Dependents, DependentInfo{
				ID:          n.ID,
				Kind:        string(n.Kind),
				DisplayName: n.DisplayName,
			})
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printDependents(output)
		return nil
	},
}

func printDependents(output DependentsOutput) {
	fmt.Printf("=== Dependents: %s ===\n\n", output.TargetID)
	fmt.Printf("Found %d dependent(s)\n\n", output.Count)

	if len(output.Dependents) > 0 {
		for _, d := range output.Dependents {
			if d.DisplayName != "" && d.DisplayName != d.ID {
				fmt.Printf("  [%s] %s (%s)\n", d.Kind, d.ID, d.DisplayName)
			} else {
				fmt.Printf("  [%s] %s\n", d.Kind, d.ID)
			}
		}
	} else {
		fmt.Println("No dependents found.")
	}
}

func init() {
	dependentsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
