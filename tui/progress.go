// Package tui renders pipeline progress with bubbletea: one line per step,
// a spinner on the running step, and a summary when the run ends.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packforge/internal/pipeline"
)

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	stylePending = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type stepEntry struct {
	name     string
	state    pipeline.State
	warnings []string
	err      error
}

// Model is the bubbletea model for one pipeline run.
type Model struct {
	entries []*stepEntry
	index   map[string]*stepEntry
	ch      <-chan pipeline.Event
	spin    spinner.Model
	done    bool
	failed  error
}

// New builds the progress model over the step names the pipeline reports.
func New(steps []string, ch <-chan pipeline.Event) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	entries := make([]*stepEntry, len(steps))
	index := make(map[string]*stepEntry, len(steps))
	for i, name := range steps {
		entries[i] = &stepEntry{name: name, state: pipeline.StatePending}
		index[name] = entries[i]
	}
	return Model{entries: entries, index: index, ch: ch, spin: sp}
}

// Err returns the error that aborted the pipeline, if any.
func (m Model) Err() error { return m.failed }

// finishedMsg signals that the pipeline closed its event channel.
type finishedMsg struct{}

func waitForEvent(ch <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return finishedMsg{}
		}
		return ev
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.ch))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case pipeline.Event:
		if e, ok := m.index[msg.Step]; ok {
			switch msg.State {
			case pipeline.StateWarning:
				e.warnings = append(e.warnings, msg.Warning)
			default:
				e.state = msg.State
				e.err = msg.Err
			}
		}
		if msg.State == pipeline.StateFailed {
			m.failed = msg.Err
		}
		return m, waitForEvent(m.ch)
	case finishedMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString("\n  Building pack\n\n")

	warnings := 0
	for _, e := range m.entries {
		var line string
		switch e.state {
		case pipeline.StateDone:
			line = styleDone.Render(fmt.Sprintf("  ✓ %-20s", e.name))
		case pipeline.StateFailed:
			line = styleError.Render(fmt.Sprintf("  ✗ %-20s %v", e.name, e.err))
		case pipeline.StateRunning:
			line = fmt.Sprintf("  %s %-20s", m.spin.View(), e.name)
		default:
			line = stylePending.Render(fmt.Sprintf("  · %-20s", e.name))
		}
		sb.WriteString(line + "\n")
		for _, w := range e.warnings {
			warnings++
			sb.WriteString(styleWarning.Render("      ! "+w) + "\n")
		}
	}

	if m.done {
		if m.failed != nil {
			sb.WriteString(styleError.Render("\n  Build failed: "+m.failed.Error()) + "\n")
		} else if warnings > 0 {
			sb.WriteString(styleWarning.Render(fmt.Sprintf("\n  Build complete with %d warning(s)", warnings)) + "\n")
		} else {
			sb.WriteString(styleDone.Render("\n  Build complete") + "\n")
		}
	}
	return sb.String()
}
