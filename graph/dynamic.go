package graph

import "context"

// DynamicGraph evaluates pull-based: a task function triggers upstream
// execution itself, on demand, by forcing a NamedInputs provider. It
// may skip inputs it doesn't need, so upstream tasks guarding an unread
// input are never executed.
type DynamicGraph[N comparable] struct {
	*base[N]
}

// NewDynamicGraph creates an empty DynamicGraph.
func NewDynamicGraph[N comparable]() *DynamicGraph[N] {
	b := newBase[N]()
	g := &DynamicGraph[N]{base: b}
	b.self = g
	return g
}

// IsDynamic reports true for DynamicGraph.
func (g *DynamicGraph[N]) IsDynamic() bool { return true }

// IsStreaming reports false for DynamicGraph.
func (g *DynamicGraph[N]) IsStreaming() bool { return false }

func (g *DynamicGraph[N]) dynamicInputs(name N) *NamedInputs[N] {
	edges := g.dg.OutEdges(name)
	entries := make([]entry, 0, len(edges))
	for _, e := range edges {
		entries = append(entries, entry{label: e.Attr, provider: pullSource[N]{puller: g, name: e.Other}})
	}
	return &NamedInputs[N]{entries: entries}
}

// pull implements puller: it brings name up to date, recursing through
// NamedInputs providers as the task function forces them, and returns
// the resulting output.
func (g *DynamicGraph[N]) pull(ctx context.Context, name N, extent any) (any, error) {
	t, ok := g.tasks[name]
	if !ok {
		return nil, &MissingTaskError{Name: name}
	}

	if t.updating {
		g.onCycle.Send(CycleArgs[N]{Graph: g, Name: name})
		return t.output, nil
	}

	t.updating = true
	g.onUpdate.Send(UpdateArgs[N]{Graph: g, Name: name})

	if t.state != Finished {
		inputs := g.dynamicInputs(name)
		g.onExecute.Send(ExecuteArgs[N]{Graph: g, Name: name, Inputs: inputs})
		out, err := t.fn.Call(ctx, g, name, inputs, nil)
		if err != nil {
			t.clearOutput()
			t.state = Failed
			g.onFailed.Send(FailedArgs[N]{Graph: g, Name: name, Err: err})
			t.updating = false
			return nil, newTaskFailure(name, err)
		}
		t.output = out
		t.state = Finished
		g.onFinished.Send(FinishedArgs[N]{Graph: g, Name: name, Output: out})
	}

	t.updating = false
	return t.output, nil
}

// Update brings name up to date.
func (g *DynamicGraph[N]) Update(ctx context.Context, name N) error {
	if !g.Contains(name) {
		return &MissingTaskError{Name: name}
	}
	_, err := g.pull(ctx, name, nil)
	return err
}

// Output brings name up to date and returns its output.
func (g *DynamicGraph[N]) Output(ctx context.Context, name N) (any, error) {
	if !g.Contains(name) {
		return nil, &MissingTaskError{Name: name}
	}
	return g.pull(ctx, name, nil)
}
