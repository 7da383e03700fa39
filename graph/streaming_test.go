package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamingExtentCacheMissOnEachDistinctExtent(t *testing.T) {
	// Two distinct extents must each re-execute the producer.
	raw := make([]any, 10)
	for i := range raw {
		raw[i] = i
	}
	g := NewStreamingGraph[string]()
	require.NoError(t, g.AddTask("a", Array[string](raw)))
	require.NoError(t, g.AddTask("b", Passthrough[string](nil)))
	require.NoError(t, g.AddLinks("a", Bare[string]("b")))

	var executed []string
	g.OnExecute().Subscribe(func(args ExecuteArgs[string]) {
		executed = append(executed, args.Name)
	})

	out, err := g.OutputExtent(context.Background(), "b", Slice(0, 3))
	require.NoError(t, err)
	assert.Equal(t, []any{0, 1, 2}, out)

	out, err = g.OutputExtent(context.Background(), "b", Slice(5, 8))
	require.NoError(t, err)
	assert.Equal(t, []any{5, 6, 7}, out)

	count := 0
	for _, name := range executed {
		if name == "a" {
			count++
		}
	}
	assert.Equal(t, 2, count, "a must re-execute for each distinct extent")
}

func TestStreamingCacheHitOnSameExtent(t *testing.T) {
	raw := make([]any, 5)
	for i := range raw {
		raw[i] = i * i
	}
	g := NewStreamingGraph[string]()
	calls := 0
	require.NoError(t, g.AddTask("a", FuncOf(func(_ context.Context, _ Graph[string], _ string, _ *NamedInputs[string], extent any) (any, error) {
		calls++
		ae := extent.(ArrayExtent)
		return raw[ae.Start:ae.End], nil
	})))

	_, err := g.OutputExtent(context.Background(), "a", Slice(0, 2))
	require.NoError(t, err)
	_, err = g.OutputExtent(context.Background(), "a", Slice(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = g.OutputExtent(context.Background(), "a", Slice(1, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
