package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/l3aro/go-impact-query/internal/config"
	"github.com/l3aro/go-impact-query/pkg/graph"
	"github.com/l3aro/go-impact-query/pkg/neo4jgraph"
)

// openBackend builds a graph.Backend from the configuration. The returned
// generation string fingerprints the graph content for cache keying; it is
// empty when the backend cannot provide one (result caching is then
// skipped), as with a live database.
func openBackend(ctx context.Context, cfg *config.Config) (backend graph.Backend, generation string, closer func(), err error) {
	switch cfg.Backend {
	case config.BackendSnapshot:
		data, err := os.ReadFile(cfg.SnapshotPath)
		if err != nil {
			return nil, "", nil, fmt.Errorf("reading snapshot %s: %w", cfg.SnapshotPath, err)
		}
		mem, err := graph.ParseSnapshot(data)
		if err != nil {
			return nil, "", nil, err
		}
		sum := sha256.Sum256(data)
		return mem, hex.EncodeToString(sum[:]), func() {}, nil

	case config.BackendNeo4j:
		db, err := neo4jgraph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return nil, "", nil, err
		}
		return db, "", func() { db.Close(context.Background()) }, nil

	default:
		return nil, "", nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
