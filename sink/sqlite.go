package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smallnest/taskgraph/graph"
)

// SQLiteSink appends lifecycle events as rows in a local SQLite
// database, for single-process runs where standing up Redis or
// Postgres would be overkill.
type SQLiteSink struct {
	db        *sql.DB
	tableName string

	tokens []unsubscribe
}

// SQLiteOptions configures a SQLiteSink.
type SQLiteOptions struct {
	Path string
	// TableName defaults to "graph_events".
	TableName string
}

// NewSQLiteSink opens (creating if necessary) the database at
// opts.Path and initializes its events table.
func NewSQLiteSink(opts SQLiteOptions) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("sink: opening sqlite database: %w", err)
	}
	tableName := opts.TableName
	if tableName == "" {
		tableName = "graph_events"
	}
	s := &SQLiteSink{db: db, tableName: tableName}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.tableName+` (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			output TEXT,
			error TEXT,
			timestamp DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_`+s.tableName+`_name ON `+s.tableName+` (name);
	`)
	if err != nil {
		return fmt.Errorf("sink: creating schema: %w", err)
	}
	return nil
}

// Attach subscribes the sink to g's signal bus. Call Close to
// unsubscribe.
func (s *SQLiteSink) Attach(g graph.Graph[string]) {
	s.tokens = attachCommon(g, s.append)
}

func (s *SQLiteSink) append(ev Event) {
	_, _ = s.db.Exec(`
		INSERT INTO `+s.tableName+` (id, kind, name, output, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Kind, ev.Name, nullIfEmpty(ev.Output), nullIfEmpty(ev.Err), ev.Timestamp)
}

// Close unsubscribes the sink and closes the underlying database
// handle.
func (s *SQLiteSink) Close() {
	for _, u := range s.tokens {
		u()
	}
	s.tokens = nil
	s.db.Close()
}
