package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-impact-query/internal/config"
	"github.com/l3aro/go-impact-query/internal/healthcheck"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on configuration and the graph backend",
	Long: `Checks the configuration and verifies that the configured graph backend
is reachable and holds a loadable graph.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, configPath, err := loadConfigWithPath()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		result, err := healthcheck.Check(cfg, configPath)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		displayDoctorResult(result)

		if result.Backend.Status == "error" {
			return fmt.Errorf("health check failed: graph backend is not accessible")
		}

		return nil
	},
}

func loadConfigWithPath() (*config.Config, string, error) {
	projectConfigPath := ".giq/config.yaml"
	projectExists := fileExists(projectConfigPath)

	home, _ := os.UserHomeDir()
	globalConfigPath := ""
	if home != "" {
		globalConfigPath = filepath.Join(home, ".giq", "config.yaml")
	}
	globalExists := fileExists(globalConfigPath)

	var effectivePath string
	if projectExists {
		effectivePath = projectConfigPath
	} else if globalExists {
		effectivePath = globalConfigPath
	} else {
		return nil, "", fmt.Errorf("no configuration found\n"+
			"Checked paths:\n"+
			"  - %s (project)\n"+
			"  - %s (global)\n"+
			"Run 'giq init' to create a configuration file",
			projectConfigPath, globalConfigPath)
	}

	cfg, err := config.LoadFromFile(effectivePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", effectivePath, err)
	}

	return cfg, effectivePath, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func displayDoctorResult(result *healthcheck.HealthCheckResult) {
	fmt.Println("=== giq doctor ===")
	fmt.Println()

	if result.EffectivePath != "" {
		fmt.Printf("Config: %s (%s)\n", result.EffectivePath, result.EffectiveScope)
	}

	b := result.Backend
	fmt.Printf("Backend: %s (%s)\n", b.Backend, b.Target)
	switch b.Status {
	case "ready":
		fmt.Printf("Status: ready, %d nodes\n", b.Nodes)
	default:
		fmt.Printf("Status: %s\n", b.Status)
		if b.Error != "" {
			fmt.Printf("Error: %s\n", b.Error)
		}
	}
}
