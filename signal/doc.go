// Package signal provides a minimal, generic, synchronous
// publish-subscribe primitive. It carries no domain knowledge of tasks
// or graphs; the graph package instantiates one Signal per lifecycle
// event (on_changed, on_update, on_execute, on_finished, on_failed,
// on_cycle, on_task_renamed) with that event's own argument tuple.
package signal
