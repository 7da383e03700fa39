package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/smallnest/taskgraph/graph"
)

var (
	finishedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	unfinishedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	arrowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// TerminalView renders one line per task, colored by its current
// TaskState, followed by one line per link.
func (d *Diagram[N]) TerminalView() string {
	var sb strings.Builder
	for _, name := range d.sortedTasks() {
		state, _ := d.g.State(name)
		sb.WriteString(styleFor(state).Render(fmt.Sprintf("%-20s %s", fmt.Sprint(name), state)))
		sb.WriteString("\n")
	}
	for _, l := range d.links() {
		arrow := arrowStyle.Render("-->")
		if label, ok := l.Input.(string); ok && label != "" {
			sb.WriteString(fmt.Sprintf("  %v %s %v [%s]\n", l.Source, arrow, l.Target, label))
		} else {
			sb.WriteString(fmt.Sprintf("  %v %s %v\n", l.Source, arrow, l.Target))
		}
	}
	return sb.String()
}

func styleFor(s graph.TaskState) lipgloss.Style {
	switch s {
	case graph.Finished:
		return finishedStyle
	case graph.Failed:
		return failedStyle
	default:
		return unfinishedStyle
	}
}
