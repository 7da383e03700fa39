package graph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullTaskDoesNothing(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("n", nil))
	out, err := g.Output(context.Background(), "n")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestArrayExtentIndexAndSlice(t *testing.T) {
	raw := []any{"a", "b", "c", "d"}
	fn := Array[string](raw)
	out, err := fn.Call(context.Background(), nil, "arr", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	out, err = fn.Call(context.Background(), nil, "arr", nil, Index(2))
	require.NoError(t, err)
	assert.Equal(t, "c", out)

	out, err = fn.Call(context.Background(), nil, "arr", nil, Slice(1, 3))
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, out)

	_, err = fn.Call(context.Background(), nil, "arr", nil, Index(10))
	assert.Error(t, err)
}

func TestConsumeForcesAllInputsIgnoresValues(t *testing.T) {
	g := NewStaticGraph[string]()
	visited := make(map[string]bool)
	require.NoError(t, g.AddTask("a", Constant[string](1)))
	require.NoError(t, g.AddTask("b", Constant[string](2)))
	require.NoError(t, g.AddTask("sink", Consume[string]()))
	require.NoError(t, g.AddLinks("a", Bare[string]("sink")))
	require.NoError(t, g.AddLinks("b", Bare[string]("sink")))
	g.OnExecute().Subscribe(func(args ExecuteArgs[string]) { visited[args.Name] = true })

	out, err := g.Output(context.Background(), "sink")
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.True(t, visited["a"])
	assert.True(t, visited["b"])
}

func TestDelayRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fn := Delay[string](time.Hour)
	_, err := fn.Call(ctx, nil, "d", nil, nil)
	assert.Error(t, err)
}

func TestSetTaskSkipsInvalidationWhenFunctionIsUnchanged(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", Constant[string](1)))
	_, err := g.Output(context.Background(), "a")
	require.NoError(t, err)

	require.NoError(t, g.SetTask("a", Constant[string](1)))
	state, err := g.State("a")
	require.NoError(t, err)
	assert.Equal(t, Finished, state, "same-valued constant should not invalidate")

	require.NoError(t, g.SetTask("a", Constant[string](2)))
	state, err = g.State("a")
	require.NoError(t, err)
	assert.Equal(t, Unfinished, state, "different-valued constant should invalidate")
}

func TestRaiseExceptionAlwaysFails(t *testing.T) {
	g := NewDynamicGraph[string]()
	require.NoError(t, g.AddTask("boom", RaiseException[string](assert.AnError)))
	_, err := g.Output(context.Background(), "boom")
	assert.ErrorIs(t, err, assert.AnError)
}
