// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for player UI
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// NewModel creates a new TUI model; a non-empty url plays on start
func NewModel(ctrl Controller, url string) Model {
	input := textinput.New()
	input.Placeholder = "http://example.com/stream.mp3"
	input.Prompt = "Stream URL: "
	input.CharLimit = 2048
	input.SetValue(url)
	input.Focus()

	return Model{
		ctrl:  ctrl,
		input: input,
	}
}

// Run creates the TUI program; the caller runs it
func Run(ctrl Controller, url string) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl, url), tea.WithAltScreen())
	return p, nil
}
