package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/farmm/gantry-engine/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffc799"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a0a0a0"))
	statusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#99ffe4"))
	pausedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8080"))
	taskIDStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc799"))
	errTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8080"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#505050"))

	taskStatusStyles = map[domain.TaskStatus]lipgloss.Style{
		domain.StatusAwaitingSlicing: lipgloss.NewStyle().Foreground(lipgloss.Color("#a0a0a0")),
		domain.StatusInQueue:         lipgloss.NewStyle().Foreground(lipgloss.Color("#6699ff")),
		domain.StatusInProgress:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc799")),
		domain.StatusComplete:        lipgloss.NewStyle().Foreground(lipgloss.Color("#99ffe4")),
	}
)

func taskStatusStyle(s domain.TaskStatus) lipgloss.Style {
	if st, ok := taskStatusStyles[s]; ok {
		return st
	}
	return labelStyle
}
