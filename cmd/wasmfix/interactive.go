package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	fixtures "github.com/wippyai/wasm-fixtures"
	"github.com/wippyai/wasm-fixtures/graph"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	statePick modelState = iota
	stateBuild
	stateDone
)

type buildDoneMsg struct {
	summary *graph.Summary
	err     error
	name    string
	elapsed time.Duration
}

type interactiveModel struct {
	plan     *fixtures.BuildPlan
	names    []string
	spin     spinner.Model
	last     buildDoneMsg
	selected int
	state    modelState
}

func newInteractiveModel(p *fixtures.BuildPlan) *interactiveModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &interactiveModel{
		plan:  p,
		names: p.Manifest.Names(),
		spin:  sp,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) buildCmd(name string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		summary, err := m.plan.Build(context.Background(), []string{name})
		return buildDoneMsg{
			summary: summary,
			err:     err,
			name:    name,
			elapsed: time.Since(start),
		}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.state == stateDone {
				m.state = statePick
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == statePick && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == statePick && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case statePick:
				m.state = stateBuild
				return m, tea.Batch(m.spin.Tick, m.buildCmd(m.names[m.selected]))
			case stateDone:
				m.state = statePick
			}
		}

	case buildDoneMsg:
		m.last = msg
		m.state = stateDone
		return m, nil

	case spinner.TickMsg:
		if m.state == stateBuild {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("wasmfix"))
	b.WriteString("\n\n")

	switch m.state {
	case statePick:
		for i, name := range m.names {
			line := "  " + name
			if i == m.selected {
				line = selectedStyle.Render("> " + name)
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("up/down select, enter build, q quit"))

	case stateBuild:
		fmt.Fprintf(&b, "%s building %s...", m.spin.View(), m.names[m.selected])

	case stateDone:
		if m.last.err != nil {
			b.WriteString(errorStyle.Render("build failed: " + m.last.err.Error()))
		} else {
			ran, fresh, _, _ := m.last.summary.Counts()
			b.WriteString(resultStyle.Render(fmt.Sprintf(
				"%s: %d built, %d up to date in %s",
				m.last.name, ran, fresh, m.last.elapsed.Round(time.Millisecond),
			)))
		}
		if m.last.summary != nil {
			b.WriteString("\n\n")
			for _, r := range m.last.summary.Results {
				fmt.Fprintf(&b, "  %-12s %s\n", r.Status, r.Target)
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back, q quit"))
	}

	b.WriteByte('\n')
	return b.String()
}

func runInteractive(p *fixtures.BuildPlan) error {
	_, err := tea.NewProgram(newInteractiveModel(p)).Run()
	return err
}
