// Package sink holds write-only lifecycle-event persistence backends:
// Redis, Postgres and SQLite variants that subscribe to a graph's
// signal bus and append a record of every execution, finish, and
// failure (a JSON-serialized stream entry in Redis, a table row in
// Postgres and SQLite). None of them read state back into a graph;
// replaying or reconstructing a run from these records is left to
// whatever reads the sink's table or stream later, not to this
// package.
package sink
