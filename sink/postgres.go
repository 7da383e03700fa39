package sink

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smallnest/taskgraph/graph"
)

// DBPool is the subset of *pgxpool.Pool this sink relies on, narrowed
// so tests can substitute pgxmock instead of a live database.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresSink appends lifecycle events as rows in a "graph_events"
// table. Like RedisSink it is write-only: nothing in this package
// ever selects from the table it writes to.
type PostgresSink struct {
	pool      DBPool
	tableName string

	tokens []unsubscribe
}

// PostgresOptions configures a PostgresSink.
type PostgresOptions struct {
	// TableName defaults to "graph_events".
	TableName string
}

// NewPostgresSink connects to dsn and initializes the events table.
func NewPostgresSink(ctx context.Context, dsn string, opts PostgresOptions) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewPostgresSinkWithPool(ctx, pool, opts)
}

// NewPostgresSinkWithPool wraps an already-constructed pool, letting
// tests inject a pgxmock.PgxPoolIface in place of a live connection.
func NewPostgresSinkWithPool(ctx context.Context, pool DBPool, opts PostgresOptions) (*PostgresSink, error) {
	tableName := opts.TableName
	if tableName == "" {
		tableName = "graph_events"
	}
	s := &PostgresSink{pool: pool, tableName: tableName}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresSink) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.tableName+` (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			output TEXT,
			error TEXT,
			timestamp TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_`+s.tableName+`_name ON `+s.tableName+` (name);
	`)
	return err
}

// Attach subscribes the sink to g's signal bus. Call Close to
// unsubscribe.
func (s *PostgresSink) Attach(g graph.Graph[string]) {
	s.tokens = attachCommon(g, s.append)
}

func (s *PostgresSink) append(ev Event) {
	_, _ = s.pool.Exec(context.Background(), `
		INSERT INTO `+s.tableName+` (id, kind, name, output, error, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.ID, ev.Kind, ev.Name, nullIfEmpty(ev.Output), nullIfEmpty(ev.Err), ev.Timestamp)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Close unsubscribes the sink and closes the underlying pool.
func (s *PostgresSink) Close() {
	for _, u := range s.tokens {
		u()
	}
	s.tokens = nil
	s.pool.Close()
}
