// Package tui is the terminal status viewer: it drives the runtime at a
// fixed cadence and renders the vehicle status, pose and task stack. It only
// ever submits nothing and reads snapshots; all mutation happens inside the
// runtime's Step.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/farmm/gantry-engine/internal/sim"
)

type tickMsg time.Time

// Model is the bubbletea model wrapping a runtime.
type Model struct {
	rt       *sim.Runtime
	interval time.Duration
	running  bool
	steps    int
	stepErr  error
	width    int
}

// New builds the viewer. The simulation starts paused, matching the original
// start/pause controls.
func New(rt *sim.Runtime, interval time.Duration) Model {
	return Model{rt: rt, interval: interval}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, Keys.Start):
			m.running = true
		case key.Matches(msg, Keys.Pause):
			m.running = false
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		if m.running && m.stepErr == nil {
			if err := m.rt.Step(); err != nil {
				m.stepErr = err
				m.running = false
			}
			m.steps++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	snap := m.rt.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Gantry status viewer"))
	b.WriteString("\n\n")

	state := statusStyle.Render("running")
	if !m.running {
		state = pausedStyle.Render("paused")
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %d\n",
		labelStyle.Render("Sim:"), state,
		labelStyle.Render("Vehicle:"), statusStyle.Render(snap.StatusText),
		labelStyle.Render("Ticks:"), m.steps))

	b.WriteString(fmt.Sprintf("%s frame (%.3f, %.3f)  tool (%.3f, %.3f, %.3f)  rot %.1f°  world (%.3f, %.3f, %.3f)\n",
		labelStyle.Render("Pose:"),
		snap.FramePosition.X, snap.FramePosition.Y,
		snap.ToolOffset.X, snap.ToolOffset.Y, snap.ToolOffset.Z,
		snap.Rotation,
		snap.WorldToolPoint.X, snap.WorldToolPoint.Y, snap.WorldToolPoint.Z))

	b.WriteString(fmt.Sprintf("%s %d\n\n", labelStyle.Render("Pending commands:"), snap.PendingCommands))

	b.WriteString(labelStyle.Render("Current command stack"))
	b.WriteString("\n")
	if len(snap.Tasks) == 0 {
		b.WriteString(helpStyle.Render("  (no active tasks)"))
		b.WriteString("\n")
	}
	for _, t := range snap.Tasks {
		b.WriteString(fmt.Sprintf("  %s %s\n", t.Operation, taskIDStyle.Render(fmt.Sprintf("Task ID: %d", t.ID))))
		b.WriteString(fmt.Sprintf("      Location type: %s\n", t.Shape))
		b.WriteString(fmt.Sprintf("      Status: %s\n", taskStatusStyle(t.Status).Render(string(t.Status))))
		if t.SliceError != "" {
			b.WriteString(fmt.Sprintf("      Error: %s\n", errTextStyle.Render(t.SliceError)))
		}
	}

	if m.stepErr != nil {
		b.WriteString("\n")
		b.WriteString(errTextStyle.Render(fmt.Sprintf("step error: %v", m.stepErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s start · p pause · q quit"))
	b.WriteString("\n")
	return b.String()
}
