// Package render draws a graph's task/link structure for humans:
// Mermaid and DOT text exports for external tooling, a colorized
// terminal view keyed by task state, and a sanitized HTML fragment
// suitable for embedding in a notebook or dashboard page. None of it
// touches execution; it only reads Tasks/Links/State off a
// graph.Graph.
package render
