package graph

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTaskRejectsDuplicate(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", nil))
	err := g.AddTask("a", nil)
	var dup *DuplicateTaskError
	assert.ErrorAs(t, err, &dup)
}

func TestClearTasksEmptiesWholeGraphWhenNilNames(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", nil))
	require.NoError(t, g.AddTask("b", nil))
	require.NoError(t, g.ClearTasks())
	assert.Empty(t, g.Tasks())
}

func TestSetLinksReplacesSourceInEdges(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("s", Constant[string](1)))
	require.NoError(t, g.AddTask("old", Passthrough[string](nil)))
	require.NoError(t, g.AddTask("new", Passthrough[string](nil)))
	require.NoError(t, g.AddLinks("s", Bare[string]("old")))

	require.NoError(t, g.SetLinks("s", Bare[string]("new")))

	links, err := g.Links("s")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "new", links[0].Target)

	oldState, _ := g.State("old")
	assert.Equal(t, Unfinished, oldState)
}

func TestClearLinksInvalidatesSourceAndItsAncestors(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("source", Constant[string](1)))
	require.NoError(t, g.AddTask("target", Passthrough[string](nil)))
	require.NoError(t, g.AddLinks("source", Bare[string]("target")))
	_, err := g.Output(context.Background(), "target")
	require.NoError(t, err)

	require.NoError(t, g.ClearLinks("source", "target"))

	links, err := g.Links("source")
	require.NoError(t, err)
	assert.Empty(t, links)

	sourceState, _ := g.State("source")
	targetState, _ := g.State("target")
	assert.Equal(t, Unfinished, sourceState)
	assert.Equal(t, Unfinished, targetState)
}

func TestRenameTaskPreservesLinksAndLabels(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", Constant[string](1)))
	require.NoError(t, g.AddTask("b", Passthrough[string]("x")))
	require.NoError(t, g.AddLinks("a", To[string]("b", "x")))

	require.NoError(t, g.RenameTask("a", "a2"))

	links, err := g.Links("a2")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "b", links[0].Target)
	assert.Equal(t, "x", links[0].Input)
	assert.False(t, g.Contains("a"))
	assert.True(t, g.Contains("a2"))
}

func TestSetParameterInstallsConstantAndLinks(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("t", Passthrough[string]("p")))
	require.NoError(t, g.AddTask("src", nil))

	require.NoError(t, g.SetParameter("t", "p", "src", 99))

	out, err := g.Output(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, 99, out)
}

func TestMarkUnfinishedNoNamesInvalidatesWholeGraph(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", Constant[string](1)))
	require.NoError(t, g.AddTask("b", Constant[string](2)))
	_, err := g.Output(context.Background(), "a")
	require.NoError(t, err)
	_, err = g.Output(context.Background(), "b")
	require.NoError(t, err)

	require.NoError(t, g.MarkUnfinished())

	aState, _ := g.State("a")
	bState, _ := g.State("b")
	assert.Equal(t, Unfinished, aState)
	assert.Equal(t, Unfinished, bState)
}

func TestStateUnfinishedUntilOutputThenFinished(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", Constant[string](5)))
	state, _ := g.State("a")
	assert.Equal(t, Unfinished, state)

	_, err := g.Output(context.Background(), "a")
	require.NoError(t, err)
	state, _ = g.State("a")
	assert.Equal(t, Finished, state)
}

func TestLinksReturnsEveryLinkWhenNoNamesGiven(t *testing.T) {
	g := NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", nil))
	require.NoError(t, g.AddTask("b", nil))
	require.NoError(t, g.AddTask("c", nil))
	require.NoError(t, g.AddLinks("a", Bare[string]("b")))
	require.NoError(t, g.AddLinks("b", Bare[string]("c")))

	links, err := g.Links()
	require.NoError(t, err)
	targets := make([]string, 0, len(links))
	for _, l := range links {
		targets = append(targets, l.Target)
	}
	sort.Strings(targets)
	assert.Equal(t, []string{"b", "c"}, targets)
}

func TestMissingTaskErrors(t *testing.T) {
	g := NewStaticGraph[string]()
	_, err := g.Output(context.Background(), "ghost")
	var mt *MissingTaskError
	assert.ErrorAs(t, err, &mt)
}
