// Package tui hosts numeric fields and the settings editor in BubbleTea
// programs.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles shared by every model in the package.
var Styles = struct {
	Help lipgloss.Style
}{
	Help: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// Run runs model to completion and returns its final state.
func Run(model tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	return tea.NewProgram(model, opts...).Run()
}
