package healthcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/l3aro/go-impact-query/internal/config"
	"github.com/l3aro/go-impact-query/pkg/graph"
	"github.com/l3aro/go-impact-query/pkg/neo4jgraph"
)

// checkTimeout bounds each backend probe.
const checkTimeout = 5 * time.Second

// BackendStatus represents the health status of the configured graph backend.
type BackendStatus struct {
	Backend string // "snapshot" or "neo4j"
	Target  string // snapshot path or neo4j URI
	Status  string // "ready" or "error"
	Nodes   int    // node count when ready
	Error   string
}

// HealthCheckResult contains the full health check output for display.
type HealthCheckResult struct {
	EffectivePath  string
	EffectiveScope string // "global" or "project"
	Backend        BackendStatus
}

// Check verifies that the configured graph backend is reachable and holds a
// loadable graph.
func Check(cfg *config.Config, effectivePath string) (*HealthCheckResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	result := &HealthCheckResult{
		EffectivePath:  effectivePath,
		EffectiveScope: scopeFromPath(effectivePath),
	}

	switch cfg.Backend {
	case config.BackendSnapshot:
		result.Backend = checkSnapshot(cfg.SnapshotPath)
	case config.BackendNeo4j:
		result.Backend = checkNeo4j(cfg)
	default:
		result.Backend = BackendStatus{
			Backend: string(cfg.Backend),
			Status:  "error",
			Error:   fmt.Sprintf("unknown backend: %s", cfg.Backend),
		}
	}

	return result, nil
}

// scopeFromPath determines "global" or "project" scope from a config file path.
// Returns empty string if path is empty.
func scopeFromPath(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err == nil {
		globalDir := filepath.Join(home, ".giq")
		if strings.HasPrefix(path, globalDir) {
			return "global"
		}
	}

	return "project"
}

// checkSnapshot loads the snapshot file and counts its nodes.
func checkSnapshot(path string) BackendStatus {
	status := BackendStatus{Backend: string(config.BackendSnapshot), Target: path}

	backend, err := graph.LoadSnapshot(path)
	if err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	total, err := backend.CountNodes(ctx)
	if err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	status.Status = "ready"
	status.Nodes = total
	return status
}

// checkNeo4j connects to the database and counts artifact nodes.
func checkNeo4j(cfg *config.Config) BackendStatus {
	status := BackendStatus{Backend: string(config.BackendNeo4j), Target: cfg.Neo4jURI}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	backend, err := neo4jgraph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}
	defer backend.Close(ctx)

	total, err := backend.CountNodes(ctx)
	if err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	status.Status = "ready"
	status.Nodes = total
	return status
}
