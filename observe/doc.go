// Package observe holds the graph engine's built-in observers: Logger
// emits human-readable lifecycle lines through this module's log
// package, and PerformanceMonitor records per-task wall-clock execution
// series in memory and, when given a registerer, in a Prometheus
// histogram. Both subscribe to a
// graph.Graph's signal bus rather than being wired into the engine
// itself, so an application is free to add its own observers the same
// way.
package observe
