// Package neo4jgraph implements the graph.Backend interface over a Neo4j
// property graph. Nodes are stored as (:Artifact {id, kind, display_name,
// props...}) and dependency edges as typed relationships whose type is the
// upper-cased edge kind (e.g. [:CALLS]).
package neo4jgraph

import (
	"context"
	"errors"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/l3aro/go-impact-query/pkg/graph"
)

// Reserved artifact property keys; everything else is carried into
// Node.Props verbatim.
const (
	propID          = "id"
	propKind        = "kind"
	propDisplayName = "display_name"
)

var errUnexpectedRecord = errors.New("unexpected record shape")

// Backend is a graph.Backend backed by a Neo4j database.
type Backend struct {
	driver neo4j.DriverWithContext
}

// Connect creates a driver and verifies connectivity.
func Connect(ctx context.Context, uri, user, password string) (*Backend, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, graph.Unavailable("create driver", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, graph.Unavailable("verify connectivity", err)
	}
	return &Backend{driver: driver}, nil
}

// Close releases the underlying driver resources.
func (b *Backend) Close(ctx context.Context) error {
	return b.driver.Close(ctx)
}

// GetNode implements graph.Backend.
func (b *Backend) GetNode(ctx context.Context, id string) (*graph.Node, error) {
	result, err := neo4j.ExecuteQuery(ctx, b.driver,
		"MATCH (n:Artifact {id: $id}) RETURN n LIMIT 1",
		map[string]any{"id": id},
		neo4j.EagerResultTransformer)
	if err != nil {
		return nil, graph.Unavailable("get node", err)
	}
	if len(result.Records) == 0 {
		return nil, graph.ErrNotFound
	}
	raw, ok := result.Records[0].Get("n")
	if !ok {
		return nil, graph.ErrNotFound
	}
	dbNode, ok := raw.(neo4j.Node)
	if !ok {
		return nil, graph.Unavailable("get node", errUnexpectedRecord)
	}
	n := nodeFromProps(dbNode.Props)
	return &n, nil
}

// FindEdges implements graph.Backend: the reverse-dependency lookup
// "who depends on target via kind".
func (b *Backend) FindEdges(ctx context.Context, target string, kind graph.EdgeKind) ([]graph.Edge, error) {
	// Relationship types cannot be parameterized in Cypher; the type is
	// derived from the closed EdgeKind set, never from user input.
	cypher := "MATCH (s:Artifact)-[r:" + RelType(kind) + "]->(t:Artifact {id: $target}) " +
		"RETURN s.id AS source, properties(r) AS props"
	result, err := neo4j.ExecuteQuery(ctx, b.driver, cypher,
		map[string]any{"target": target},
		neo4j.EagerResultTransformer)
	if err != nil {
		return nil, graph.Unavailable("find edges", err)
	}

	edges := make([]graph.Edge, 0, len(result.Records))
	for _, rec := range result.Records {
		source, _ := rec.Get("source")
		sourceID, ok := source.(string)
		if !ok || sourceID == "" {
			continue
		}
		e := graph.Edge{Source: sourceID, Target: target, Kind: kind}
		if raw, ok := rec.Get("props"); ok {
			if props, ok := raw.(map[string]any); ok && len(props) > 0 {
				e.Props = props
			}
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// CountNodes implements graph.Backend.
func (b *Backend) CountNodes(ctx context.Context) (int, error) {
	result, err := neo4j.ExecuteQuery(ctx, b.driver,
		"MATCH (n:Artifact) RETURN count(n) AS total",
		nil, neo4j.EagerResultTransformer)
	if err != nil {
		return 0, graph.Unavailable("count nodes", err)
	}
	if len(result.Records) == 0 {
		return 0, nil
	}
	raw, _ := result.Records[0].Get("total")
	total, ok := raw.(int64)
	if !ok {
		return 0, graph.Unavailable("count nodes", errUnexpectedRecord)
	}
	return int(total), nil
}

// RelType maps an edge kind to its Neo4j relationship type.
func RelType(kind graph.EdgeKind) string {
	return strings.ToUpper(string(kind))
}

// nodeFromProps rebuilds a graph.Node from stored artifact properties,
// splitting reserved keys out of the open props map.
func nodeFromProps(props map[string]any) graph.Node {
	n := graph.Node{Kind: graph.KindOther}
	rest := make(map[string]any)
	for k, v := range props {
		switch k {
		case propID:
			if s, ok := v.(string); ok {
				n.ID = s
			}
		case propKind:
			if s, ok := v.(string); ok {
				n.Kind = graph.ParseNodeKind(s)
			}
		case propDisplayName:
			if s, ok := v.(string); ok {
				n.DisplayName = s
			}
		default:
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		n.Props = rest
	}
	return n
}
