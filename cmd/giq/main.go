// Package main implements the go-impact-query CLI (giq).
// It provides commands for running impact analyses over a dependency
// graph, inspecting dependents, and exporting visualization payloads.
package main

import (
	"os"

	"github.com/l3aro/go-impact-query/cmd/giq/commands"
)

var (
	version   = "dev"
	buildTime = ""
)

func main() {
	commands.RootCmd.Flags().BoolP("version", "v", false, "Print version information")
	commands.RootCmd.SetVersionTemplate(`giq version {{.Version}}
`)
	commands.RootCmd.Version = version

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
