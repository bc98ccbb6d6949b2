package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-impact-query/internal/config"
	"github.com/l3aro/go-impact-query/internal/healthcheck"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize giq configuration interactively",
	Long: `Guides you through setting up giq configuration step by step.
Creates a config file pointing at a graph snapshot file or a Neo4j database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	cfg := config.DefaultConfig()

	// === SECTION 1: Graph backend ===
	var backendChoice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Graph backend - Where the dependency graph lives").
				Description("Select how giq should read the graph").
				Options(
					huh.NewOption("Snapshot file (YAML)", "snapshot"),
					huh.NewOption("Neo4j database", "neo4j"),
				).
				Value(&backendChoice),
		),
	)
	err := form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	cfg.Backend = config.BackendType(backendChoice)

	// Backend-specific questions
	if cfg.Backend == config.BackendSnapshot {
		snapshotPath := cfg.SnapshotPath
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Path to the graph snapshot file").
					Placeholder(".giq/graph.yaml").
					Value(&snapshotPath),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		cfg.SnapshotPath = snapshotPath
	} else if cfg.Backend == config.BackendNeo4j {
		uri := cfg.Neo4jURI
		user := cfg.Neo4jUser
		password := ""

		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Neo4j bolt URI").
					Placeholder("bolt://localhost:7687").
					Value(&uri),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}

		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Neo4j username").
					Placeholder("neo4j").
					Value(&user),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}

		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Neo4j password (stored in the config file)").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}

		cfg.Neo4jURI = uri
		cfg.Neo4jUser = user
		cfg.Neo4jPassword = password
	}

	// === SECTION 2: Result cache ===
	cacheEnabled := cfg.CacheEnabled
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Cache analysis results between runs?").
				Description("Results are keyed by graph content and invalidate automatically").
				Value(&cacheEnabled),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}
	cfg.CacheEnabled = cacheEnabled

	// === SECTION 3: Scope ===
	var scope string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should this configuration be saved?").
				Options(
					huh.NewOption("This project (./.giq/config.yaml)", "project"),
					huh.NewOption("Globally (~/.giq/config.yaml)", "global"),
				).
				Value(&scope),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	configPath := filepath.Join(".giq", "config.yaml")
	if scope == "global" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		configPath = filepath.Join(home, ".giq", "config.yaml")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Configuration saved to %s\n\n", configPath)

	// Verify the backend straight away so a typo surfaces now, not on the
	// first analyze.
	result, err := healthcheck.Check(cfg, configPath)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	displayDoctorResult(result)

	return nil
}
