package graph

import "context"

// StaticGraph evaluates bottom-up: Update walks the dependency closure
// of the requested task in post-order and executes whatever is stale,
// so a task function sees every upstream value already computed by the
// time it runs.
type StaticGraph[N comparable] struct {
	*base[N]
}

// NewStaticGraph creates an empty StaticGraph.
func NewStaticGraph[N comparable]() *StaticGraph[N] {
	b := newBase[N]()
	g := &StaticGraph[N]{base: b}
	b.self = g
	return g
}

// IsDynamic reports false for StaticGraph.
func (g *StaticGraph[N]) IsDynamic() bool { return false }

// IsStreaming reports false for StaticGraph.
func (g *StaticGraph[N]) IsStreaming() bool { return false }

// MarkFailed expands the named tasks by their ancestors (downstream
// consumers), sets each to Failed with output cleared, and fires
// on_changed: the same shape as MarkUnfinished, including the
// no-names-means-whole-graph default. Only StaticGraph exposes this;
// the other strategies fail tasks only through execution itself.
func (g *StaticGraph[N]) MarkFailed(names ...N) error {
	if len(names) == 0 {
		names = g.Tasks()
	}
	for _, n := range names {
		if _, ok := g.tasks[n]; !ok {
			return &MissingTaskError{Name: n}
		}
	}
	closure := make(map[N]struct{})
	for _, n := range names {
		closure[n] = struct{}{}
		for _, a := range g.dg.Ancestors(n) {
			closure[a] = struct{}{}
		}
	}
	expanded := make([]N, 0, len(closure))
	for n := range closure {
		expanded = append(expanded, n)
	}
	return g.markFailed(expanded...)
}

func (g *StaticGraph[N]) staticInputs(name N) *NamedInputs[N] {
	edges := g.dg.OutEdges(name)
	entries := make([]entry, 0, len(edges))
	for _, e := range edges {
		entries = append(entries, entry{label: e.Attr, provider: cachedValue{value: g.tasks[e.Other].output}})
	}
	return &NamedInputs[N]{entries: entries}
}

// Update brings name and its transitive dependencies to Finished,
// executing only what is stale. If a task function raises, every task
// on the path from the failure to name (inclusive) is set Failed and
// the original error is returned wrapped in TaskFailure.
func (g *StaticGraph[N]) Update(ctx context.Context, name N) error {
	if !g.Contains(name) {
		return &MissingTaskError{Name: name}
	}

	if cycle, found := g.dg.FindCycle(name); found {
		g.onCycle.Send(CycleArgs[N]{Graph: g, Name: cycle[0]})
	}

	order := g.dg.PostOrder(name)

	var failed bool
	var failedName N
	var failedErr error

	for _, n := range order {
		g.onUpdate.Send(UpdateArgs[N]{Graph: g, Name: n})
		if failed {
			continue
		}
		t := g.tasks[n]
		if t.state == Finished {
			continue
		}
		inputs := g.staticInputs(n)
		g.onExecute.Send(ExecuteArgs[N]{Graph: g, Name: n, Inputs: inputs})
		out, err := t.fn.Call(ctx, g, n, inputs, nil)
		if err != nil {
			failed = true
			failedName = n
			failedErr = err
			g.onFailed.Send(FailedArgs[N]{Graph: g, Name: n, Err: err})
			continue
		}
		t.output = out
		t.state = Finished
		g.onFinished.Send(FinishedArgs[N]{Graph: g, Name: n, Output: out})
	}

	if !failed {
		return nil
	}

	rootSet := map[N]struct{}{name: {}}
	for _, d := range g.dg.Descendants(name) {
		rootSet[d] = struct{}{}
	}
	onPath := map[N]struct{}{failedName: {}}
	for _, a := range g.dg.Ancestors(failedName) {
		if _, ok := rootSet[a]; ok {
			onPath[a] = struct{}{}
		}
	}
	names := make([]N, 0, len(onPath))
	for n := range onPath {
		names = append(names, n)
	}
	if err := g.markFailed(names...); err != nil {
		return err
	}
	return newTaskFailure(failedName, failedErr)
}

// Output brings name up to date and returns its cached output.
func (g *StaticGraph[N]) Output(ctx context.Context, name N) (any, error) {
	if err := g.Update(ctx, name); err != nil {
		return nil, err
	}
	return g.tasks[name].output, nil
}
