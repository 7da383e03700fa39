// Package graph implements a computational-graph execution engine: a
// directed graph of named tasks wired together by labelled input links,
// where requesting a task's output resolves and executes its transitive
// dependency closure while reusing previously computed results.
//
// Three evaluation disciplines share one Graph[N] contract:
//
//   - StaticGraph: bottom-up snapshot. Update walks the dependency
//     closure in post-order and executes whatever is stale; a task
//     function sees upstream values as already-computed plain values.
//   - DynamicGraph: pull-based recursion. A task function triggers
//     upstream execution itself, on demand, through NamedInputs; it
//     may skip inputs it doesn't need, short-circuiting their upstream
//     chains entirely.
//   - StreamingGraph: DynamicGraph extended with an opaque extent
//     token identifying a requested subset of a task's output; the
//     cache-hit condition becomes state==Finished && cachedExtent==extent.
//
// N is the task-name type, any comparable type usable as a map key.
package graph
