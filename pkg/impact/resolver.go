// Package impact implements transitive impact analysis over a dependency
// graph: given a changed node, it computes the downstream nodes that could
// be affected, partitioned by kind, with coverage, risk, and complexity
// metrics and a serializable visualization payload.
package impact

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/l3aro/go-impact-query/internal/log"
	"github.com/l3aro/go-impact-query/pkg/graph"
)

// Resolver finds the direct dependents of a node across all recognized
// dependency edge kinds.
type Resolver struct {
	backend graph.Backend
	logger  log.Logger
}

// NewResolver creates a resolver over the given backend.
func NewResolver(backend graph.Backend) *Resolver {
	return &Resolver{
		backend: backend,
		logger:  log.Default(),
	}
}

// FindDependents returns every node that depends on nodeID via any
// recognized dependency kind, deduplicated by id and sorted by id, together
// with the edges that connect them to nodeID.
//
// Edge sources the backend cannot resolve are skipped: a dangling edge is a
// graph integrity gap, not a reason to abort the analysis. Backend I/O
// failures are propagated to the caller unchanged.
func (r *Resolver) FindDependents(ctx context.Context, nodeID string) ([]graph.Node, []graph.Edge, error) {
	kinds := graph.DependencyKinds()

	// The per-kind lookups are independent reads; issue them concurrently
	// and join before touching any shared traversal state.
	perKind := make([][]graph.Edge, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			edges, err := r.backend.FindEdges(gctx, nodeID, kind)
			if err != nil {
				return err
			}
			perKind[i] = edges
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Union the edge sources, resolving each id once even when a node is a
	// dependent via more than one edge kind.
	var edges []graph.Edge
	resolved := make(map[string]*graph.Node)
	var order []string
	for _, kindEdges := range perKind {
		for _, e := range kindEdges {
			node, seen := resolved[e.Source]
			if !seen {
				var err error
				node, err = r.backend.GetNode(ctx, e.Source)
				if graph.IsNotFound(err) {
					r.logger.Warn("skipping dangling edge source", "source", e.Source, "target", nodeID, "kind", string(e.Kind))
					resolved[e.Source] = nil
					continue
				}
				if err != nil {
					return nil, nil, err
				}
				resolved[e.Source] = node
				order = append(order, e.Source)
			}
			if node != nil {
				edges = append(edges, e)
			}
		}
	}

	nodes := make([]graph.Node, 0, len(order))
	for _, id := range order {
		nodes = append(nodes, *resolved[id])
	}
	// The union across edge kinds has no inherent order; sort by id so
	// results are reproducible on an unchanged snapshot.
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, edges, nil
}
