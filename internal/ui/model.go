// ABOUTME: Bubbletea model for player TUI
// ABOUTME: Defines URL entry, playback status and update logic
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/netradio-go/netradio/internal/version"
	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/radio"
	"github.com/netradio-go/netradio/pkg/stream"
)

// Controller starts and stops playback for the TUI
type Controller interface {
	Play(url string) (*radio.Session, error)
	Stop()
}

// Model represents the TUI state
type Model struct {
	ctrl  Controller
	input textinput.Model

	// Session
	url     string
	state   radio.State
	station stream.Info

	// Stream
	format    audio.Format
	hasFormat bool

	// Stats
	totalRead int64
	cached    int

	errText string

	// Dimensions
	width  int
	height int
}

// Init starts the cursor and plays the initial URL, if any
func (m Model) Init() tea.Cmd {
	if url := strings.TrimSpace(m.input.Value()); url != "" {
		return tea.Batch(textinput.Blink, m.play(url))
	}
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = inputWidth(msg.Width)
	case StatusMsg:
		m.totalRead = msg.TotalBytesRead
		m.cached = msg.BytesCached
	case ErrorMsg:
		m.errText = msg.Message
	case StateMsg:
		m.applyState(msg.State)
	case FormatMsg:
		m.format = msg.Format
		m.hasFormat = true
	case StationMsg:
		m.station = msg.Info
	case playingMsg:
		m.url = msg.URL
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderStreamInfo())
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return frameStyle.Render(b.String())
}

// renderHeader renders the title and session state
func (m Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("%s %s", version.Product, version.Version))
	return title + " " + stateStyle(m.state).Render(m.state.String())
}

// renderStreamInfo renders station and format
func (m Model) renderStreamInfo() string {
	if m.url == "" {
		return faintStyle.Render("No stream") + "\n"
	}

	s := labelStyle.Render("URL:     ") + truncate(m.url, 60) + "\n"
	if name := m.station.String(); name != "" {
		s += labelStyle.Render("Station: ") + truncate(name, 60) + "\n"
	}
	if m.station.Genre != "" {
		s += labelStyle.Render("Genre:   ") + truncate(m.station.Genre, 60) + "\n"
	}
	if m.hasFormat {
		s += labelStyle.Render("Format:  ") + fmt.Sprintf("%s %s", m.format.Codec, m.format.String()) + "\n"
	}
	return s
}

// renderStatus renders progress or the session error
func (m Model) renderStatus() string {
	if m.errText != "" {
		return errorStyle.Render(truncate(m.errText, 70)) + "\n"
	}
	if m.state == radio.StatePlaying || m.totalRead > 0 {
		return statusText(m.totalRead, m.cached) + "\n"
	}
	return ""
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return faintStyle.Render("enter:Play  ctrl+x:Stop  esc/ctrl+c:Quit")
}

// handleKey handles keyboard input; unhandled keys go to the URL input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit, true
	case "enter":
		url := strings.TrimSpace(m.input.Value())
		if url == "" {
			return m, nil, true
		}
		return m, m.play(url), true
	case "ctrl+x":
		return m, m.stop(), true
	}
	return m, nil, false
}

// play stops the current session and starts url off the UI goroutine
func (m Model) play(url string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		if ctrl == nil {
			return nil
		}
		// failures arrive as ErrorMsg through the observer
		if _, err := ctrl.Play(url); err != nil {
			return nil
		}
		return playingMsg{URL: url}
	}
}

func (m Model) stop() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		if ctrl != nil {
			ctrl.Stop()
		}
		return nil
	}
}

// applyState resets per-session fields when a new session connects
func (m *Model) applyState(state radio.State) {
	if state == radio.StateConnecting {
		m.errText = ""
		m.station = stream.Info{}
		m.hasFormat = false
		m.totalRead = 0
		m.cached = 0
	}
	m.state = state
}

// statusText formats progress the way the status line shows it
func statusText(totalRead int64, cached int) string {
	return fmt.Sprintf("Read: %d bytes, cached: %d bytes", totalRead, cached)
}

func inputWidth(width int) int {
	if width <= 10 {
		return 0
	}
	return width - 10
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
