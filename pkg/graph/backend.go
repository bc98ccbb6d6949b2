package graph

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Backend.GetNode when no node has the given id.
var ErrNotFound = errors.New("node not found")

// ErrBackendUnavailable wraps I/O failures talking to a graph backend.
// Callers should treat it as retryable, unlike ErrNotFound.
var ErrBackendUnavailable = errors.New("graph backend unavailable")

// IsNotFound reports whether err is a missing-node error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Unavailable wraps err as a backend-unavailable error, preserving the cause.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, op, err)
}

// Backend is a read-only accessor over a dependency-graph snapshot.
//
// Implementations must be safe for concurrent reads within one analysis:
// the engine issues the per-edge-kind lookups for a node in parallel.
// The snapshot is assumed immutable for the duration of one call chain;
// the engine performs no writes.
type Backend interface {
	// GetNode returns the node with the given id, or ErrNotFound.
	GetNode(ctx context.Context, id string) (*Node, error)

	// FindEdges returns all edges with the given target and kind, i.e. the
	// reverse-dependency lookup "who depends on target via kind".
	FindEdges(ctx context.Context, target string, kind EdgeKind) ([]Edge, error)

	// CountNodes returns the total number of nodes in the graph.
	CountNodes(ctx context.Context) (int, error)
}
