package graph

// This file holds the Graph interface and the base struct shared by
// StaticGraph, DynamicGraph and StreamingGraph: node/link CRUD,
// invalidation and the signal bus. Only Update/Output and how a task's
// NamedInputs resolve values differ between the three strategies; see
// static.go, dynamic.go and streaming.go.

import (
	"context"
	"fmt"

	"github.com/smallnest/taskgraph/digraph"
	"github.com/smallnest/taskgraph/signal"
)

// Graph is the contract every evaluation strategy satisfies: the common
// mutation surface plus the strategy-specific Update/Output pair and
// the IsDynamic/IsStreaming properties.
type Graph[N comparable] interface {
	AddTask(name N, fn Func[N]) error
	SetTask(name N, fn Func[N]) error
	ClearTasks(names ...N) error
	AddLinks(source N, targets ...TargetInput[N]) error
	SetLinks(source N, targets ...TargetInput[N]) error
	ClearLinks(source, target N) error
	RenameTask(oldName, newName N) error
	Tasks() []N
	Contains(name N) bool
	State(name N) (TaskState, error)
	Links(names ...N) ([]Link[N], error)
	SetParameter(target N, input any, source N, value any) error
	SetExpression(name N, code string, symbols map[string]any) error
	MarkUnfinished(names ...N) error

	Update(ctx context.Context, name N) error
	Output(ctx context.Context, name N) (any, error)

	IsDynamic() bool
	IsStreaming() bool

	OnChanged() *signal.Signal[ChangedArgs[N]]
	OnUpdate() *signal.Signal[UpdateArgs[N]]
	OnExecute() *signal.Signal[ExecuteArgs[N]]
	OnFinished() *signal.Signal[FinishedArgs[N]]
	OnFailed() *signal.Signal[FailedArgs[N]]
	OnCycle() *signal.Signal[CycleArgs[N]]
	OnTaskRenamed() *signal.Signal[RenamedArgs[N]]
}

// ChangedArgs is the argument tuple for on_changed.
type ChangedArgs[N comparable] struct{ Graph Graph[N] }

// UpdateArgs is the argument tuple for on_update.
type UpdateArgs[N comparable] struct {
	Graph  Graph[N]
	Name   N
	Extent any
}

// ExecuteArgs is the argument tuple for on_execute.
type ExecuteArgs[N comparable] struct {
	Graph  Graph[N]
	Name   N
	Inputs *NamedInputs[N]
	Extent any
}

// FinishedArgs is the argument tuple for on_finished.
type FinishedArgs[N comparable] struct {
	Graph  Graph[N]
	Name   N
	Output any
}

// FailedArgs is the argument tuple for on_failed.
type FailedArgs[N comparable] struct {
	Graph Graph[N]
	Name  N
	Err   error
}

// CycleArgs is the argument tuple for on_cycle.
type CycleArgs[N comparable] struct {
	Graph Graph[N]
	Name  N
}

// RenamedArgs is the argument tuple for on_task_renamed.
type RenamedArgs[N comparable] struct {
	Graph   Graph[N]
	OldName N
	NewName N
}

// puller is implemented by DynamicGraph and StreamingGraph so that
// pullSource providers (see inputs.go) can recursively bring an
// upstream task up to date on demand.
type puller[N comparable] interface {
	pull(ctx context.Context, name N, extent any) (any, error)
}

// base holds the substrate and signal bus shared by every strategy.
// StaticGraph, DynamicGraph and StreamingGraph each embed *base[N] and
// layer their own Update/Output/pull on top.
type base[N comparable] struct {
	dg    *digraph.Graph[N]
	tasks map[N]*task[N]

	// self is set by each strategy's constructor to the outer wrapper,
	// so signal arguments and task functions receive the concrete
	// Graph[N] rather than the embedded base.
	self Graph[N]

	onChanged     *signal.Signal[ChangedArgs[N]]
	onUpdate      *signal.Signal[UpdateArgs[N]]
	onExecute     *signal.Signal[ExecuteArgs[N]]
	onFinished    *signal.Signal[FinishedArgs[N]]
	onFailed      *signal.Signal[FailedArgs[N]]
	onCycle       *signal.Signal[CycleArgs[N]]
	onTaskRenamed *signal.Signal[RenamedArgs[N]]
}

func newBase[N comparable]() *base[N] {
	return &base[N]{
		dg:            digraph.New[N](),
		tasks:         make(map[N]*task[N]),
		onChanged:     signal.New[ChangedArgs[N]]("on_changed"),
		onUpdate:      signal.New[UpdateArgs[N]]("on_update"),
		onExecute:     signal.New[ExecuteArgs[N]]("on_execute"),
		onFinished:    signal.New[FinishedArgs[N]]("on_finished"),
		onFailed:      signal.New[FailedArgs[N]]("on_failed"),
		onCycle:       signal.New[CycleArgs[N]]("on_cycle"),
		onTaskRenamed: signal.New[RenamedArgs[N]]("on_task_renamed"),
	}
}

func (b *base[N]) OnChanged() *signal.Signal[ChangedArgs[N]]     { return b.onChanged }
func (b *base[N]) OnUpdate() *signal.Signal[UpdateArgs[N]]       { return b.onUpdate }
func (b *base[N]) OnExecute() *signal.Signal[ExecuteArgs[N]]     { return b.onExecute }
func (b *base[N]) OnFinished() *signal.Signal[FinishedArgs[N]]   { return b.onFinished }
func (b *base[N]) OnFailed() *signal.Signal[FailedArgs[N]]       { return b.onFailed }
func (b *base[N]) OnCycle() *signal.Signal[CycleArgs[N]]         { return b.onCycle }
func (b *base[N]) OnTaskRenamed() *signal.Signal[RenamedArgs[N]] { return b.onTaskRenamed }

func (b *base[N]) fireChanged() {
	b.onChanged.Send(ChangedArgs[N]{Graph: b.self})
}

// AddTask adds a node with the given function. Fails with
// DuplicateTaskError if name already exists.
func (b *base[N]) AddTask(name N, fn Func[N]) error {
	if _, ok := b.tasks[name]; ok {
		return &DuplicateTaskError{Name: name}
	}
	b.tasks[name] = newTask[N](fn)
	b.dg.AddNode(name)
	b.fireChanged()
	return nil
}

// SetTask upserts: new tasks are added and marked unfinished; existing
// tasks are only invalidated if fn differs from the stored one (see
// sameFunc in tasks.go for the equality contract built-in factories
// satisfy).
func (b *base[N]) SetTask(name N, fn Func[N]) error {
	if fn == nil {
		fn = Null[N]()
	}
	existing, ok := b.tasks[name]
	if !ok {
		return b.AddTask(name, fn)
	}
	if sameFunc[N](existing.fn, fn) {
		return nil
	}
	existing.fn = fn
	return b.invalidate([]N{name})
}

// ClearTasks removes the named tasks (and all incident edges) after
// invalidating them and their ancestors. names == nil empties the
// whole graph.
func (b *base[N]) ClearTasks(names ...N) error {
	if names == nil {
		for n := range b.tasks {
			names = append(names, n)
		}
	}
	for _, n := range names {
		if _, ok := b.tasks[n]; !ok {
			return &MissingTaskError{Name: n}
		}
	}
	if err := b.invalidate(names); err != nil {
		return err
	}
	for _, n := range names {
		b.dg.RemoveNode(n)
		delete(b.tasks, n)
	}
	b.fireChanged()
	return nil
}

// AddLinks adds parallel edges from source to every target, without
// deduplication, and invalidates every target.
func (b *base[N]) AddLinks(source N, targets ...TargetInput[N]) error {
	if _, ok := b.tasks[source]; !ok {
		return &MissingTaskError{Name: source}
	}
	for _, t := range targets {
		if _, ok := b.tasks[t.Target]; !ok {
			return &MissingTaskError{Name: t.Target}
		}
	}
	for _, t := range targets {
		b.dg.AddEdge(t.Target, source, t.Input)
	}
	names := make([]N, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Target)
	}
	return b.invalidate(names)
}

// SetLinks removes every existing in-edge of source (every link that
// uses source as its upstream producer), then adds the new links,
// invalidating both the previously connected targets and the new ones.
func (b *base[N]) SetLinks(source N, targets ...TargetInput[N]) error {
	if _, ok := b.tasks[source]; !ok {
		return &MissingTaskError{Name: source}
	}
	for _, t := range targets {
		if _, ok := b.tasks[t.Target]; !ok {
			return &MissingTaskError{Name: t.Target}
		}
	}
	removed := b.dg.RemoveInEdgesOf(source)
	for _, t := range targets {
		b.dg.AddEdge(t.Target, source, t.Input)
	}
	affected := append([]N(nil), removed...)
	for _, t := range targets {
		affected = append(affected, t.Target)
	}
	return b.invalidate(affected)
}

// ClearLinks removes every parallel edge between source and target,
// invalidating source's ancestors' chain starting at source. Since
// target necessarily consumes source (directly or transitively), this
// invalidates target as well.
func (b *base[N]) ClearLinks(source, target N) error {
	if _, ok := b.tasks[source]; !ok {
		return &MissingTaskError{Name: source}
	}
	if _, ok := b.tasks[target]; !ok {
		return &MissingTaskError{Name: target}
	}
	if err := b.invalidate([]N{source}); err != nil {
		return err
	}
	b.dg.RemoveEdgesBetween(target, source)
	return nil
}

// RenameTask renames oldName to newName in place, preserving every
// incident link and its input label, and marks the renamed task
// unfinished.
func (b *base[N]) RenameTask(oldName, newName N) error {
	t, ok := b.tasks[oldName]
	if !ok {
		return &MissingTaskError{Name: oldName}
	}
	if _, exists := b.tasks[newName]; exists {
		return &DuplicateTaskError{Name: newName}
	}
	if !b.dg.RenameNode(oldName, newName) {
		return fmt.Errorf("graph: rename of %v to %v failed unexpectedly", oldName, newName)
	}
	delete(b.tasks, oldName)
	b.tasks[newName] = t
	if err := b.invalidate([]N{newName}); err != nil {
		return err
	}
	b.onTaskRenamed.Send(RenamedArgs[N]{Graph: b.self, OldName: oldName, NewName: newName})
	return nil
}

// Tasks returns every task name. Order is unspecified.
func (b *base[N]) Tasks() []N {
	names := make([]N, 0, len(b.tasks))
	for n := range b.tasks {
		names = append(names, n)
	}
	return names
}

// Contains reports whether name is a task in the graph.
func (b *base[N]) Contains(name N) bool {
	_, ok := b.tasks[name]
	return ok
}

// State returns the task's current state.
func (b *base[N]) State(name N) (TaskState, error) {
	t, ok := b.tasks[name]
	if !ok {
		return Unfinished, &MissingTaskError{Name: name}
	}
	return t.state, nil
}

// Links returns every link in the graph, or only those whose source is
// one of names when names is non-empty.
func (b *base[N]) Links(names ...N) ([]Link[N], error) {
	var subjects []N
	if len(names) == 0 {
		subjects = b.Tasks()
	} else {
		for _, n := range names {
			if _, ok := b.tasks[n]; !ok {
				return nil, &MissingTaskError{Name: n}
			}
		}
		subjects = names
	}
	var links []Link[N]
	for _, source := range subjects {
		for _, e := range b.dg.InEdges(source) {
			links = append(links, Link[N]{Target: e.Other, Source: source, Input: e.Attr})
		}
	}
	return links, nil
}

// SetParameter installs a constant-valued task as source and links it
// to (target, input): set_task(source, constant(value)) followed by
// set_links(target's source wiring).
func (b *base[N]) SetParameter(target N, input any, source N, value any) error {
	if err := b.SetTask(source, Constant[N](value)); err != nil {
		return err
	}
	return b.SetLinks(source, To(target, input))
}

// MarkUnfinished is the canonical invalidation primitive: it expands
// names by their ancestors (downstream consumers), sets each to
// Unfinished with output cleared, then fires on_changed. Called with no
// names, it invalidates the entire graph, matching ClearTasks's nil
// handling (see DESIGN.md).
func (b *base[N]) MarkUnfinished(names ...N) error {
	if len(names) == 0 {
		names = b.Tasks()
	}
	for _, n := range names {
		if _, ok := b.tasks[n]; !ok {
			return &MissingTaskError{Name: n}
		}
	}
	return b.invalidate(names)
}

// invalidate marks names and their ancestors unfinished. Unlike
// MarkUnfinished, an empty names slice here truly means "nothing to
// invalidate" rather than "the whole graph". Callers that already hold
// a precomputed affected-names list (AddLinks, SetLinks, ClearTasks,
// ...) use this directly so a no-op mutation doesn't invalidate
// everything just because its own affected set happened to be empty.
func (b *base[N]) invalidate(names []N) error {
	closure := make(map[N]struct{})
	for _, n := range names {
		closure[n] = struct{}{}
		for _, a := range b.dg.Ancestors(n) {
			closure[a] = struct{}{}
		}
	}
	for n := range closure {
		t := b.tasks[n]
		t.state = Unfinished
		t.clearOutput()
		t.updating = false
	}
	b.fireChanged()
	return nil
}

// autoDepsHost is implemented by base and satisfied by every strategy
// (StaticGraph/DynamicGraph/StreamingGraph embed *base), giving
// AutomaticDependencies the low-level edge access the public Graph
// interface deliberately doesn't expose.
type autoDepsHost[N comparable] interface {
	removeImplicitEdges(name N)
	addImplicitEdge(name, source N)
	descendantsOf(name N) []N
}

func (b *base[N]) removeImplicitEdges(name N) {
	b.dg.RemoveOutEdgesWhere(name, func(attr any) bool { return attr == Implicit })
}

func (b *base[N]) addImplicitEdge(name, source N) {
	b.dg.AddEdge(name, source, Implicit)
}

func (b *base[N]) descendantsOf(name N) []N {
	return b.dg.Descendants(name)
}

// markFailed is shared plumbing for StaticGraph.MarkFailed, the only
// strategy that exposes a way to set a task Failed directly.
func (b *base[N]) markFailed(names ...N) error {
	if len(names) == 0 {
		return nil
	}
	for _, n := range names {
		t, ok := b.tasks[n]
		if !ok {
			return &MissingTaskError{Name: n}
		}
		t.state = Failed
		t.clearOutput()
	}
	b.fireChanged()
	return nil
}
