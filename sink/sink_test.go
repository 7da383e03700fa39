package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"github.com/smallnest/taskgraph/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSmallGraph(t *testing.T) *graph.StaticGraph[string] {
	t.Helper()
	g := graph.NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", graph.Constant[string](1)))
	require.NoError(t, g.AddTask("b", graph.Passthrough[string](nil)))
	require.NoError(t, g.AddLinks("a", graph.Bare[string]("b")))
	_, err := g.Output(context.Background(), "b")
	require.NoError(t, err)
	return g
}

func TestRedisSinkAppendsEventsAsStreamEntries(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisSink(client, RedisOptions{Run: "test"})
	g := graph.NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", graph.Constant[string](1)))
	require.NoError(t, g.AddTask("b", graph.Passthrough[string](nil)))
	require.NoError(t, g.AddLinks("a", graph.Bare[string]("b")))
	s.Attach(g)
	defer s.Close()

	_, err = g.Output(context.Background(), "b")
	require.NoError(t, err)

	entries, err := client.XRange(context.Background(), "taskgraph:events:test", "-", "+").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestRedisSinkFailureIsRecorded(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisSink(client, RedisOptions{Run: "boom-run"})
	g := graph.NewStaticGraph[string]()
	require.NoError(t, g.AddTask("boom", graph.RaiseException[string](assertErr)))
	s.Attach(g)
	defer s.Close()

	err = g.Update(context.Background(), "boom")
	require.Error(t, err)

	entries, err := client.XRange(context.Background(), "taskgraph:events:boom-run", "-", "+").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestPostgresSinkInsertsOneRowPerEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`INSERT INTO`).
		WithArgs(pgxmock.AnyArg(), KindExecute, "a", nil, nil, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO`).
		WithArgs(pgxmock.AnyArg(), KindFinished, "a", "42", nil, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s, err := NewPostgresSinkWithPool(context.Background(), mock, PostgresOptions{})
	require.NoError(t, err)

	g := graph.NewStaticGraph[string]()
	require.NoError(t, g.AddTask("a", graph.Constant[string](42)))
	s.Attach(g)

	_, err = g.Output(context.Background(), "a")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteSinkRecordsLifecycleRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := NewSQLiteSink(SQLiteOptions{Path: path})
	require.NoError(t, err)
	defer s.Close()

	g := runSmallGraph(t)
	s.Attach(g)

	require.NoError(t, g.MarkUnfinished("a"))
	_, err = g.Output(context.Background(), "b")
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	row := s.db.QueryRow(`SELECT COUNT(*) FROM graph_events WHERE kind = ?`, KindFinished)
	var count int
	require.NoError(t, row.Scan(&count))
	assert.GreaterOrEqual(t, count, 1)
}

var assertErr = errString("boom")

type errString string

func (e errString) Error() string { return string(e) }
