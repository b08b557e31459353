package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	fixtures "github.com/wippyai/wasm-fixtures"
	"github.com/wippyai/wasm-fixtures/graph"
)

var (
	builtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	freshStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	nameStyle = lipgloss.NewStyle().
			Bold(true)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// styledOut reports whether stdout is a terminal; piped output stays plain.
func styledOut() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func paint(style lipgloss.Style, s string) string {
	if !styledOut() {
		return s
	}
	return style.Render(s)
}

func statusStyle(s graph.Status) lipgloss.Style {
	switch s {
	case graph.StatusRan:
		return builtStyle
	case graph.StatusFailed:
		return failStyle
	default:
		return freshStyle
	}
}

func printSummary(w io.Writer, sum *graph.Summary) {
	for _, r := range sum.Results {
		line := fmt.Sprintf("%-12s %s", r.Status, r.Target)
		if r.Status == graph.StatusRan {
			line += fmt.Sprintf(" (%s)", r.Duration.Round(time.Millisecond))
		}
		fmt.Fprintln(w, paint(statusStyle(r.Status), line))
	}

	ran, fresh, failed, skipped := sum.Counts()
	fmt.Fprintf(w, "%d built, %d up to date, %d failed, %d skipped\n", ran, fresh, failed, skipped)
}

func printFixtures(w io.Writer, p *fixtures.BuildPlan) {
	for i := range p.Manifest.Fixtures {
		f := &p.Manifest.Fixtures[i]
		fmt.Fprintf(w, "%s %s  %v -> %s\n",
			paint(nameStyle, f.Name),
			paint(kindStyle, "("+string(f.Kind)+")"),
			f.Sources,
			f.Output,
		)
	}
}
