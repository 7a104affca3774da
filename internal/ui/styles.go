// ABOUTME: lipgloss styles for the player TUI
// ABOUTME: Colours follow session state
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/netradio-go/netradio/pkg/radio"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func stateStyle(state radio.State) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	switch state {
	case radio.StatePlaying:
		return s.Foreground(lipgloss.Color("10"))
	case radio.StateErrored:
		return s.Foreground(lipgloss.Color("9"))
	case radio.StateConnecting, radio.StateStreamOpen, radio.StateFormatUnknown:
		return s.Foreground(lipgloss.Color("11"))
	default:
		return s.Faint(true)
	}
}
