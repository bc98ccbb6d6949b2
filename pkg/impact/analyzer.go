package impact

import (
	"container/list"
	"context"
	"errors"
	"fmt"

	"github.com/l3aro/go-impact-query/pkg/graph"
)

// ErrInvalidDepth is returned when AnalyzeImpact is called with a negative
// maximum depth. It signals a caller bug, not a backend condition.
var ErrInvalidDepth = errors.New("max depth must be non-negative")

// Options configures an Analyzer.
type Options struct {
	// RiskFunc scores an individual node in [0, 1]. Defaults to DefaultRisk.
	RiskFunc RiskFunc

	// HighRiskThreshold is the node risk above which a node is listed in
	// high_risk_nodes. Defaults to 0.7.
	HighRiskThreshold float64

	// PartialOnCancel, when set, makes AnalyzeImpact return the partial
	// traversal accumulated at cancellation, flagged Truncated, instead of
	// an error. Off by default: a partial result is indistinguishable from
	// "this is everything affected" unless the caller opts in.
	PartialOnCancel bool
}

// Option is a functional option for configuring an Analyzer.
type Option func(*Options)

// WithRiskFunc overrides the per-node risk scoring strategy.
func WithRiskFunc(fn RiskFunc) Option {
	return func(o *Options) {
		if fn != nil {
			o.RiskFunc = fn
		}
	}
}

// WithHighRiskThreshold overrides the high-risk cutoff.
func WithHighRiskThreshold(t float64) Option {
	return func(o *Options) { o.HighRiskThreshold = t }
}

// WithPartialOnCancel opts in to truncated partial results on cancellation.
func WithPartialOnCancel() Option {
	return func(o *Options) { o.PartialOnCancel = true }
}

// Analyzer orchestrates breadth-first impact traversal from a root node.
// One Analyzer may serve many concurrent AnalyzeImpact calls: all traversal
// state is per-call and the backend is only ever read.
type Analyzer struct {
	backend  graph.Backend
	resolver *Resolver
	opts     Options
}

// NewAnalyzer creates an analyzer over the given backend.
func NewAnalyzer(backend graph.Backend, opts ...Option) *Analyzer {
	o := Options{
		RiskFunc:          DefaultRisk,
		HighRiskThreshold: HighRiskThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Analyzer{
		backend:  backend,
		resolver: NewResolver(backend),
		opts:     o,
	}
}

// Analysis is the raw outcome of one traversal: the affected nodes with
// their classification views, the edges walked to reach them, and the
// depth actually consumed. Tests and Alerts are views over Nodes, never
// disjoint partitions.
type Analysis struct {
	RootID       string
	Root         *graph.Node // nil when the root id is unknown to the backend
	Nodes        []graph.Node
	Tests        []graph.Node
	Alerts       []graph.Node
	Edges        []graph.Edge
	DepthReached int
	Truncated    bool
}

type queueItem struct {
	id    string
	depth int
}

// AnalyzeImpact computes the transitive dependents of rootID, breadth-first,
// bounded by maxDepth hops. Nodes reached at depth == maxDepth are reported
// but not expanded; maxDepth = 0 yields an empty affected set.
//
// A rootID unknown to the backend degrades to an empty result: nothing
// depends on something the graph cannot even find. Cycles terminate via a
// per-call seen set keyed by node id; a node's recorded depth is that of the
// first (shortest) path reaching it.
func (a *Analyzer) AnalyzeImpact(ctx context.Context, rootID string, maxDepth int) (*Analysis, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, maxDepth)
	}

	an := &Analysis{RootID: rootID}

	root, err := a.backend.GetNode(ctx, rootID)
	if err != nil && !graph.IsNotFound(err) {
		return a.abort(an, err)
	}
	an.Root = root
	if root == nil {
		return an, nil
	}

	// Seen is updated at enqueue time, before any dependent lookup is
	// issued, so two paths converging on a node within one level can never
	// double-add it.
	seen := map[string]struct{}{rootID: {}}
	queue := list.New()
	queue.PushBack(queueItem{id: rootID, depth: 0})

	for queue.Len() > 0 {
		if ctx.Err() != nil {
			return a.abort(an, ctx.Err())
		}

		item := queue.Remove(queue.Front()).(queueItem)
		if item.depth >= maxDepth {
			continue
		}

		dependents, edges, err := a.resolver.FindDependents(ctx, item.id)
		if err != nil {
			return a.abort(an, err)
		}
		an.Edges = append(an.Edges, edges...)

		for _, dep := range dependents {
			if _, ok := seen[dep.ID]; ok {
				continue
			}
			seen[dep.ID] = struct{}{}
			an.Nodes = append(an.Nodes, dep)
			switch dep.Kind {
			case graph.KindTestCase:
				an.Tests = append(an.Tests, dep)
			case graph.KindAlert:
				an.Alerts = append(an.Alerts, dep)
			}
			if item.depth+1 > an.DepthReached {
				an.DepthReached = item.depth + 1
			}
			queue.PushBack(queueItem{id: dep.ID, depth: item.depth + 1})
		}
	}

	return an, nil
}

// abort maps a mid-traversal failure to the analyzer's error policy:
// cancellation either surfaces as a distinct error or, when opted in,
// yields the partial analysis flagged Truncated. Everything else aborts
// the call; a partial result must never be mislabeled as complete.
func (a *Analyzer) abort(an *Analysis, err error) (*Analysis, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if a.opts.PartialOnCancel {
			an.Truncated = true
			return an, nil
		}
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}
	return nil, err
}

// Metrics computes all three metric groups for an analysis. Coverage needs
// the backend's total node count; risk and complexity are pure over the
// affected set.
func (a *Analyzer) Metrics(ctx context.Context, an *Analysis) (*Metrics, error) {
	total, err := a.backend.CountNodes(ctx)
	if err != nil {
		return nil, err
	}
	return &Metrics{
		Coverage:   Coverage(an.Nodes, total),
		Risk:       Risk(an.Nodes, a.opts.RiskFunc, a.opts.HighRiskThreshold),
		Complexity: Complexity(an.Nodes),
	}, nil
}

// Export produces the visualization payload for an analysis, reusing the
// analyzer's risk function so every node carries its own score.
func (a *Analyzer) Export(an *Analysis, metrics *Metrics) *GraphJSON {
	root := an.Root
	if root == nil {
		root = &graph.Node{ID: an.RootID, Kind: graph.KindOther, DisplayName: an.RootID}
	}
	return ToGraphJSON(root, an.Nodes, an.Edges, metrics, a.opts.RiskFunc)
}
