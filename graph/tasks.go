package graph

import (
	"context"
	"fmt"
	"time"
)

// Null returns a task function that does nothing and returns nil. It is
// also what AddTask/SetTask install when given a nil fn.
func Null[N comparable]() Func[N] {
	return nullFn[N]{}
}

type nullFn[N comparable] struct{}

func (nullFn[N]) Call(context.Context, Graph[N], N, *NamedInputs[N], any) (any, error) {
	return nil, nil
}

func (nullFn[N]) Equal(other Func[N]) bool {
	_, ok := other.(nullFn[N])
	return ok
}

// Constant returns a task function that ignores its inputs and returns
// value. Two Constant functions are equal (for SetTask's invalidate-
// only-if-different check) iff their values are ==-comparable and equal.
func Constant[N comparable](value any) Func[N] {
	return constantFn[N]{value: value}
}

type constantFn[N comparable] struct{ value any }

func (c constantFn[N]) Call(context.Context, Graph[N], N, *NamedInputs[N], any) (any, error) {
	return c.value, nil
}

func (c constantFn[N]) Equal(other Func[N]) bool {
	o, ok := other.(constantFn[N])
	return ok && comparableEqual(c.value, o.value)
}

// ArrayExtent is the extent type array-task producers and consumers
// agree on: Index selects a single element, Slice selects a half-open
// range [Start, End) (End < 0 means "through the end").
type ArrayExtent struct {
	Index      int
	IsIndex    bool
	Start, End int
}

// Slice builds an ArrayExtent selecting [start, end).
func Slice(start, end int) ArrayExtent {
	return ArrayExtent{Start: start, End: end}
}

// Index builds an ArrayExtent selecting a single element.
func Index(i int) ArrayExtent {
	return ArrayExtent{Index: i, IsIndex: true}
}

// Array returns a task function that returns value unchanged when
// called with no extent, or applies extent (an ArrayExtent) as an
// index/slice of value when one is supplied. An extent that is not an
// ArrayExtent is ignored and the whole value is returned.
func Array[N comparable](value []any) Func[N] {
	return arrayFn[N]{value: value}
}

type arrayFn[N comparable] struct{ value []any }

func (a arrayFn[N]) Call(_ context.Context, _ Graph[N], _ N, _ *NamedInputs[N], extent any) (any, error) {
	if extent == nil {
		return a.value, nil
	}
	ae, ok := extent.(ArrayExtent)
	if !ok {
		return a.value, nil
	}
	if ae.IsIndex {
		if ae.Index < 0 || ae.Index >= len(a.value) {
			return nil, fmt.Errorf("graph: array index %d out of range (len %d)", ae.Index, len(a.value))
		}
		return a.value[ae.Index], nil
	}
	start, end := ae.Start, ae.End
	if end < 0 || end > len(a.value) {
		end = len(a.value)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	out := make([]any, end-start)
	copy(out, a.value[start:end])
	return out, nil
}

func (a arrayFn[N]) Equal(other Func[N]) bool {
	o, ok := other.(arrayFn[N])
	if !ok || len(a.value) != len(o.value) {
		return false
	}
	for i := range a.value {
		if !comparableEqual(a.value[i], o.value[i]) {
			return false
		}
	}
	return true
}

// Delay returns a task function that sleeps for the given duration and
// returns nil. It exists for tests that need to observe ordering or
// overlap, not for production use (the engine has no scheduler to
// overlap it against).
func Delay[N comparable](d time.Duration) Func[N] {
	return delayFn[N]{d: d}
}

type delayFn[N comparable] struct{ d time.Duration }

func (d delayFn[N]) Call(ctx context.Context, _ Graph[N], _ N, _ *NamedInputs[N], _ any) (any, error) {
	t := time.NewTimer(d.d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d delayFn[N]) Equal(other Func[N]) bool {
	o, ok := other.(delayFn[N])
	return ok && d.d == o.d
}

// Passthrough returns a task function that returns the single upstream
// value under the given input label, via NamedInputs.Getone.
func Passthrough[N comparable](input any) Func[N] {
	return passthroughFn[N]{input: input}
}

type passthroughFn[N comparable] struct{ input any }

func (p passthroughFn[N]) Call(ctx context.Context, _ Graph[N], _ N, inputs *NamedInputs[N], extent any) (any, error) {
	if extent != nil {
		return inputs.GetoneExtent(ctx, p.input, extent)
	}
	return inputs.Getone(ctx, p.input)
}

func (p passthroughFn[N]) Equal(other Func[N]) bool {
	o, ok := other.(passthroughFn[N])
	return ok && comparableEqual(p.input, o.input)
}

// RaiseException returns a task function that always fails with err.
func RaiseException[N comparable](err error) Func[N] {
	return raiseFn[N]{err: err}
}

type raiseFn[N comparable] struct{ err error }

func (r raiseFn[N]) Call(context.Context, Graph[N], N, *NamedInputs[N], any) (any, error) {
	return nil, r.err
}

func (r raiseFn[N]) Equal(other Func[N]) bool {
	o, ok := other.(raiseFn[N])
	return ok && r.err == o.err
}

// Consume returns a task function that forces every input (in Keys
// order) and discards the values, returning nil. Useful for sink-style
// tasks whose only purpose is to trigger upstream execution.
func Consume[N comparable]() Func[N] {
	return consumeFn[N]{}
}

type consumeFn[N comparable] struct{}

func (consumeFn[N]) Call(ctx context.Context, _ Graph[N], _ N, inputs *NamedInputs[N], _ any) (any, error) {
	for _, p := range inputs.Values() {
		if _, err := Force(ctx, p); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (consumeFn[N]) Equal(other Func[N]) bool {
	_, ok := other.(consumeFn[N])
	return ok
}

// comparableEqual compares two any-typed values with ==, treating a
// panic (uncomparable dynamic type, e.g. a slice or map) as "not
// equal" rather than crashing SetTask.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
