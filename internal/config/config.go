package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BackendType selects which graph backend the CLI talks to.
type BackendType string

const (
	BackendSnapshot BackendType = "snapshot"
	BackendNeo4j    BackendType = "neo4j"
)

// Config holds all configuration for go-impact-query
type Config struct {
	// Backend specifies which graph backend to use
	Backend BackendType `yaml:"backend" env:"GIQ_BACKEND"`

	// Snapshot backend settings
	SnapshotPath string `yaml:"snapshot_path" env:"GIQ_SNAPSHOT_PATH"`

	// Neo4j backend settings
	Neo4jURI      string `yaml:"neo4j_uri" env:"GIQ_NEO4J_URI"`
	Neo4jUser     string `yaml:"neo4j_user" env:"GIQ_NEO4J_USER"`
	Neo4jPassword string `yaml:"neo4j_password" env:"GIQ_NEO4J_PASSWORD"`

	// Analysis settings
	MaxDepth          int     `yaml:"max_depth" env:"GIQ_MAX_DEPTH"`
	HighRiskThreshold float64 `yaml:"high_risk_threshold" env:"GIQ_HIGH_RISK_THRESHOLD"`

	// Result cache settings
	CacheEnabled    bool   `yaml:"cache_enabled" env:"GIQ_CACHE_ENABLED"`
	CachePath       string `yaml:"cache_path" env:"GIQ_CACHE_PATH"`
	CacheMaxEntries int    `yaml:"cache_max_entries" env:"GIQ_CACHE_MAX_ENTRIES"`

	// Logging
	Verbose bool `yaml:"verbose" env:"GIQ_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:           BackendSnapshot,
		SnapshotPath:      ".giq/graph.yaml",
		Neo4jURI:          "bolt://localhost:7687",
		Neo4jUser:         "neo4j",
		Neo4jPassword:     "",
		MaxDepth:          5,
		HighRiskThreshold: 0.7,
		CacheEnabled:      false,
		CachePath:         ".giq/cache.msgpack",
		CacheMaxEntries:   1000,
		Verbose:           false,
	}
}

// globalConfigFilePath returns the global config file path (~/.giq/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".giq/config.yaml"
	}
	return filepath.Join(home, ".giq", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.giq/config.yaml)
func projectConfigFilePath() string {
	return ".giq/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Project-level config (./.giq/config.yaml)
// 2. Environment variables
// 3. Global config (~/.giq/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// 1. Load global config (~/.giq/config.yaml)
	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	// 2. Load project-level config (./.giq/config.yaml) - overrides global
	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	// 3. Override with environment variables
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GIQ_BACKEND"); v != "" {
		cfg.Backend = BackendType(v)
	}
	if v := os.Getenv("GIQ_SNAPSHOT_PATH"); v != "" {
		cfg.SnapshotPath = v
	}
	if v := os.Getenv("GIQ_NEO4J_URI"); v != "" {
		cfg.Neo4jURI = v
	}
	if v := os.Getenv("GIQ_NEO4J_USER"); v != "" {
		cfg.Neo4jUser = v
	}
	if v := os.Getenv("GIQ_NEO4J_PASSWORD"); v != "" {
		cfg.Neo4jPassword = v
	}
	if v := os.Getenv("GIQ_MAX_DEPTH"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.MaxDepth = i
		}
	}
	if v := os.Getenv("GIQ_HIGH_RISK_THRESHOLD"); v != "" {
		if f := parseFloat(v); f > 0 {
			cfg.HighRiskThreshold = f
		}
	}
	if v := os.Getenv("GIQ_CACHE_ENABLED"); v != "" {
		cfg.CacheEnabled = v == "true" || v == "1" || v == "yes"
	}
	if v := os.Getenv("GIQ_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("GIQ_CACHE_MAX_ENTRIES"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.CacheMaxEntries = i
		}
	}
	if v := os.Getenv("GIQ_VERBOSE"); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSnapshot:
		if c.SnapshotPath == "" {
			return fmt.Errorf("snapshot_path is required when backend is snapshot")
		}
	case BackendNeo4j:
		if c.Neo4jURI == "" {
			return fmt.Errorf("neo4j_uri is required when backend is neo4j")
		}
		if c.Neo4jUser == "" {
			return fmt.Errorf("neo4j_user is required when backend is neo4j")
		}
	default:
		return fmt.Errorf("invalid backend: %s (must be 'snapshot' or 'neo4j')", c.Backend)
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative")
	}
	if c.HighRiskThreshold < 0 || c.HighRiskThreshold > 1 {
		return fmt.Errorf("high_risk_threshold must be between 0 and 1")
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache_max_entries must be positive")
	}

	return nil
}

// parseFloat attempts to parse a string as float64
func parseFloat(s string) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return 0
	}
	return f
}

// parseInt attempts to parse a string as int
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}
