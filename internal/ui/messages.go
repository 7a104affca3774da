// ABOUTME: TUI messages and the observer that sends them
// ABOUTME: Session callbacks run off the UI goroutine and are marshalled as messages
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/radio"
	"github.com/netradio-go/netradio/pkg/stream"
)

// StatusMsg updates playback progress
type StatusMsg struct {
	TotalBytesRead int64
	BytesCached    int
}

// ErrorMsg replaces the status line with the session error
type ErrorMsg struct {
	Message string
}

// StateMsg reports a session state change
type StateMsg struct {
	State radio.State
}

// FormatMsg reports the stream format once playback starts
type FormatMsg struct {
	Format audio.Format
}

// StationMsg reports the station description
type StationMsg struct {
	Info stream.Info
}

type playingMsg struct {
	URL string
}

// Observer forwards session events to a running program. Events before
// Attach are dropped.
type Observer struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewObserver creates a detached observer
func NewObserver() *Observer {
	return &Observer{}
}

// Attach starts forwarding events to p
func (o *Observer) Attach(p *tea.Program) {
	o.attach(p.Send)
}

func (o *Observer) attach(send func(tea.Msg)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.send = send
}

func (o *Observer) emit(msg tea.Msg) {
	o.mu.RLock()
	send := o.send
	o.mu.RUnlock()

	if send != nil {
		send(msg)
	}
}

func (o *Observer) OnError(message string) {
	o.emit(ErrorMsg{Message: message})
}

func (o *Observer) OnStatus(totalBytesRead int64, bytesCached int) {
	o.emit(StatusMsg{TotalBytesRead: totalBytesRead, BytesCached: bytesCached})
}

func (o *Observer) OnState(state radio.State) {
	o.emit(StateMsg{State: state})
}

func (o *Observer) OnFormat(format audio.Format) {
	o.emit(FormatMsg{Format: format})
}

func (o *Observer) OnInfo(info stream.Info) {
	o.emit(StationMsg{Info: info})
}
