// Package digraph is the leaf substrate of the computational-graph
// engine: a generic directed multigraph keyed by a comparable node
// identifier, with edge-identifier-keyed storage so parallel edges
// between the same pair of nodes are individually addressable. It is
// not specific to task execution; the graph package layers task state
// and invalidation semantics on top of it.
package digraph
