package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smallnest/taskgraph/graph"
)

// Diagram exports a graph's current task/link structure. Unlike the
// graph itself it takes no N type parameter at the call site: names
// are rendered through fmt.Sprint, so any comparable N works, string
// or not.
type Diagram[N comparable] struct {
	g graph.Graph[N]
}

// NewDiagram wraps g for rendering.
func NewDiagram[N comparable](g graph.Graph[N]) *Diagram[N] {
	return &Diagram[N]{g: g}
}

func (d *Diagram[N]) sortedTasks() []N {
	names := d.g.Tasks()
	sort.Slice(names, func(i, j int) bool {
		return fmt.Sprint(names[i]) < fmt.Sprint(names[j])
	})
	return names
}

func (d *Diagram[N]) links() []graph.Link[N] {
	links, err := d.g.Links()
	if err != nil {
		return nil
	}
	sort.Slice(links, func(i, j int) bool {
		if fmt.Sprint(links[i].Source) != fmt.Sprint(links[j].Source) {
			return fmt.Sprint(links[i].Source) < fmt.Sprint(links[j].Source)
		}
		return fmt.Sprint(links[i].Target) < fmt.Sprint(links[j].Target)
	})
	return links
}

// Mermaid renders the graph as a Mermaid flowchart, nodes styled by
// their current TaskState (green finished, red failed, grey
// unfinished) and edges labelled with the consuming input when it
// isn't the default positional slot.
func (d *Diagram[N]) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("flowchart LR\n")

	for _, name := range d.sortedTasks() {
		id := mermaidID(name)
		state, _ := d.g.State(name)
		sb.WriteString(fmt.Sprintf("    %s[%q]\n", id, fmt.Sprint(name)))
		sb.WriteString(fmt.Sprintf("    style %s fill:%s\n", id, stateColor(state)))
	}

	for _, l := range d.links() {
		from, to := mermaidID(l.Source), mermaidID(l.Target)
		if label, ok := l.Input.(string); ok && label != "" {
			sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", from, label, to))
		} else {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}
	return sb.String()
}

// DOT renders the graph in Graphviz's DOT language.
func (d *Diagram[N]) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=box];\n")

	for _, name := range d.sortedTasks() {
		id := mermaidID(name)
		state, _ := d.g.State(name)
		sb.WriteString(fmt.Sprintf("    %s [label=%q, style=filled, fillcolor=%q];\n",
			id, fmt.Sprint(name), dotColor(state)))
	}
	for _, l := range d.links() {
		from, to := mermaidID(l.Source), mermaidID(l.Target)
		if label, ok := l.Input.(string); ok && label != "" {
			sb.WriteString(fmt.Sprintf("    %s -> %s [label=%q];\n", from, to, label))
		} else {
			sb.WriteString(fmt.Sprintf("    %s -> %s;\n", from, to))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func stateColor(s graph.TaskState) string {
	switch s {
	case graph.Finished:
		return "#90EE90"
	case graph.Failed:
		return "#FFB6C1"
	default:
		return "#D3D3D3"
	}
}

func dotColor(s graph.TaskState) string {
	switch s {
	case graph.Finished:
		return "lightgreen"
	case graph.Failed:
		return "lightpink"
	default:
		return "lightgrey"
	}
}

// mermaidID turns an arbitrary task name into a Mermaid/DOT-safe node
// identifier by replacing every character other than an ASCII letter
// or digit with an underscore, prefixing with "n_" so a name starting
// with a digit still yields a legal identifier.
func mermaidID[N comparable](name N) string {
	raw := fmt.Sprint(name)
	var sb strings.Builder
	sb.WriteString("n_")
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
