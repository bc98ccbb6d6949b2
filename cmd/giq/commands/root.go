package commands

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "giq",
	Short: "go-impact-query - Dependency graph impact analysis",
	Long: `go-impact-query computes the transitive set of artifacts affected by a
change to a node in a dependency graph: code, tests, and alerts, with
risk, coverage, and complexity metrics.

Commands:
  analyze     Run a full impact analysis from a changed node
  dependents  List the direct dependents of a node
  export      Emit the visualization payload for an analysis
  doctor      Run health checks on configuration and the graph backend
  init        Initialize giq configuration interactively

Use "giq [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Add subcommands
	RootCmd.AddCommand(analyzeCmd)
	RootCmd.AddCommand(dependentsCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(initCmd)
}
