package graph

import (
	"context"
	"fmt"
)

// AutomaticDependencies wraps a task function so that its use of
// upstream outputs during execution is reflected back into the link
// graph as IMPLICIT edges, keeping mark_unfinished propagation correct
// for expression tasks that read other tasks' outputs by name rather
// than through a declared link. SetExpression installs every task this
// way; it is also exported so a hand-written fn can opt in the same
// way an expression does.
func AutomaticDependencies[N comparable](fn Func[N]) Func[N] {
	return autoDepsFn[N]{inner: fn}
}

type autoDepsFn[N comparable] struct{ inner Func[N] }

func (a autoDepsFn[N]) Call(ctx context.Context, g Graph[N], name N, inputs *NamedInputs[N], extent any) (any, error) {
	host, ok := g.(autoDepsHost[N])
	if !ok {
		return nil, fmt.Errorf("graph: automatic_dependencies requires a Graph implementation with implicit-edge support")
	}

	host.removeImplicitEdges(name)

	tracker := NewUpdatedTasks[N](g)
	defer tracker.Close()

	out, callErr := a.inner.Call(ctx, g, name, inputs, extent)

	exclude := map[N]struct{}{name: {}}
	for _, d := range host.descendantsOf(name) {
		exclude[d] = struct{}{}
	}
	for _, s := range tracker.Names() {
		if _, skip := exclude[s]; skip {
			continue
		}
		host.addImplicitEdge(name, s)
	}

	return out, callErr
}

func (a autoDepsFn[N]) Equal(other Func[N]) bool {
	o, ok := other.(autoDepsFn[N])
	if !ok {
		return false
	}
	return sameFunc[N](a.inner, o.inner)
}
