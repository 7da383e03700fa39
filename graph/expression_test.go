package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplicitDependenciesViaExpression(t *testing.T) {
	// out("x") inside the expression must become an implicit link.
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("x", Constant[string](7)))
	require.NoError(t, g.SetExpression("y", "out('x') * 2", nil))

	out, err := g.Output(context.Background(), "y")
	require.NoError(t, err)
	assert.EqualValues(t, 14, out)

	links, err := g.Links("x")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "y", links[0].Target)
	assert.Equal(t, Implicit, links[0].Input)

	require.NoError(t, g.SetTask("x", Constant[string](8)))

	yState, err := g.State("y")
	require.NoError(t, err)
	assert.Equal(t, Unfinished, yState)

	out, err = g.Output(context.Background(), "y")
	require.NoError(t, err)
	assert.EqualValues(t, 16, out)
}

func TestExpressionSymbolsAreBound(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.SetExpression("area", "w * h", map[string]any{"w": 3, "h": 4}))
	out, err := g.Output(context.Background(), "area")
	require.NoError(t, err)
	assert.EqualValues(t, 12, out)
}

func TestExpressionErrorSurfacesAsTaskFailure(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.SetExpression("bad", "1/0", nil))
	err := g.Update(context.Background(), "bad")
	require.Error(t, err)
	var tf *TaskFailure
	assert.ErrorAs(t, err, &tf)
}
