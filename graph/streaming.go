package graph

import "context"

// StreamingGraph extends DynamicGraph with an opaque extent token
// identifying a requested subset of a task's output (e.g. a slice
// description for an array task). The cache-hit condition becomes
// state==Finished && cachedExtent==extent; on a miss the task
// re-executes with the new extent. The engine never subsets outputs
// itself; honoring extent is the task function's responsibility.
type StreamingGraph[N comparable] struct {
	*base[N]
}

// NewStreamingGraph creates an empty StreamingGraph.
func NewStreamingGraph[N comparable]() *StreamingGraph[N] {
	b := newBase[N]()
	g := &StreamingGraph[N]{base: b}
	b.self = g
	return g
}

// IsDynamic reports true for StreamingGraph (it is pull-based, like
// DynamicGraph).
func (g *StreamingGraph[N]) IsDynamic() bool { return true }

// IsStreaming reports true for StreamingGraph.
func (g *StreamingGraph[N]) IsStreaming() bool { return true }

func (g *StreamingGraph[N]) streamingInputs(name N) *NamedInputs[N] {
	edges := g.dg.OutEdges(name)
	entries := make([]entry, 0, len(edges))
	for _, e := range edges {
		entries = append(entries, entry{label: e.Attr, provider: pullSource[N]{puller: g, name: e.Other}})
	}
	return &NamedInputs[N]{entries: entries}
}

// extentEqual compares two extents for the streaming cache-hit check.
// Extents are required to be comparable (the design notes document
// this as a hard requirement, stronger than the source project's
// runtime hashability assumption); a panic from comparing an
// accidentally-uncomparable extent is caught and treated as a mismatch
// rather than crashing the update.
func extentEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// pull implements puller: it brings name up to date for the given
// extent, recursing through NamedInputs providers, and returns the
// resulting output.
func (g *StreamingGraph[N]) pull(ctx context.Context, name N, extent any) (any, error) {
	t, ok := g.tasks[name]
	if !ok {
		return nil, &MissingTaskError{Name: name}
	}

	if t.updating {
		g.onCycle.Send(CycleArgs[N]{Graph: g, Name: name})
		return t.output, nil
	}

	t.updating = true
	g.onUpdate.Send(UpdateArgs[N]{Graph: g, Name: name, Extent: extent})

	cacheHit := t.state == Finished && t.hasExtent && extentEqual(t.extent, extent)
	if !cacheHit {
		inputs := g.streamingInputs(name)
		g.onExecute.Send(ExecuteArgs[N]{Graph: g, Name: name, Inputs: inputs, Extent: extent})
		out, err := t.fn.Call(ctx, g, name, inputs, extent)
		if err != nil {
			t.clearOutput()
			t.state = Failed
			g.onFailed.Send(FailedArgs[N]{Graph: g, Name: name, Err: err})
			t.updating = false
			return nil, newTaskFailure(name, err)
		}
		t.output = out
		t.state = Finished
		t.extent = extent
		t.hasExtent = true
		g.onFinished.Send(FinishedArgs[N]{Graph: g, Name: name, Output: out})
	}

	t.updating = false
	return t.output, nil
}

// Update brings name up to date for the zero-value (nil) extent.
func (g *StreamingGraph[N]) Update(ctx context.Context, name N) error {
	return g.UpdateExtent(ctx, name, nil)
}

// UpdateExtent brings name up to date for the given extent.
func (g *StreamingGraph[N]) UpdateExtent(ctx context.Context, name N, extent any) error {
	if !g.Contains(name) {
		return &MissingTaskError{Name: name}
	}
	_, err := g.pull(ctx, name, extent)
	return err
}

// Output brings name up to date for the nil extent and returns its
// output.
func (g *StreamingGraph[N]) Output(ctx context.Context, name N) (any, error) {
	return g.OutputExtent(ctx, name, nil)
}

// OutputExtent brings name up to date for the given extent and returns
// its output.
func (g *StreamingGraph[N]) OutputExtent(ctx context.Context, name N, extent any) (any, error) {
	if !g.Contains(name) {
		return nil, &MissingTaskError{Name: name}
	}
	return g.pull(ctx, name, extent)
}
