package graph

import "context"

// Func is a task's computation. Built-in factories (see tasks.go)
// additionally implement EqFunc so SetTask can tell whether a
// replacement function is the same computation as the one already
// installed, per the "equality of task functions" design note: two
// arbitrary Go closures cannot be compared for equality at all, so a
// Func that isn't also an EqFunc is always treated as different from
// whatever was there before.
type Func[N comparable] interface {
	// Call runs the task: g is the owning graph (so expression tasks
	// can call g.Output on other tasks), name is this task's own name,
	// inputs is the NamedInputs view of its incoming links, and extent
	// is the requested extent (nil outside StreamingGraph).
	Call(ctx context.Context, g Graph[N], name N, inputs *NamedInputs[N], extent any) (any, error)
}

// EqFunc is a Func that knows how to compare itself structurally to
// another Func. Built-in factories (Constant, Array, Delay,
// Passthrough, RaiseException, Evaluate) implement it by carrying a
// value and comparing that value.
type EqFunc[N comparable] interface {
	Func[N]
	Equal(other Func[N]) bool
}

// FuncOf adapts a plain Go function into a Func[N]. The result has no
// Equal method, so SetTask always treats it as different from whatever
// function preceded it: there is no general way to compare two Go
// closures for equality, and pretending otherwise would be unsound.
func FuncOf[N comparable](fn func(ctx context.Context, g Graph[N], name N, inputs *NamedInputs[N], extent any) (any, error)) Func[N] {
	return funcAdapter[N]{fn: fn}
}

type funcAdapter[N comparable] struct {
	fn func(ctx context.Context, g Graph[N], name N, inputs *NamedInputs[N], extent any) (any, error)
}

func (a funcAdapter[N]) Call(ctx context.Context, g Graph[N], name N, inputs *NamedInputs[N], extent any) (any, error) {
	return a.fn(ctx, g, name, inputs, extent)
}

// sameFunc reports whether two task functions should be considered the
// same computation for SetTask's invalidate-only-if-different contract.
func sameFunc[N comparable](a, b Func[N]) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if ea, ok := a.(EqFunc[N]); ok {
		return ea.Equal(b)
	}
	return false
}

// task is a vertex's mutable record. Tasks are always created through
// AddTask or SetTask.
type task[N comparable] struct {
	fn    Func[N]
	state TaskState

	output any

	// updating guards DynamicGraph/StreamingGraph recursion: a task
	// revisited while already updating indicates a cycle.
	updating bool

	// extent and hasExtent cache which extent (if any) produced the
	// current output, for StreamingGraph's cache-hit comparison.
	extent    any
	hasExtent bool
}

func newTask[N comparable](fn Func[N]) *task[N] {
	if fn == nil {
		fn = Null[N]()
	}
	return &task[N]{fn: fn, state: Unfinished}
}

func (t *task[N]) clearOutput() {
	t.output = nil
	t.extent = nil
	t.hasExtent = false
}
