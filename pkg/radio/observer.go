// ABOUTME: Observer interfaces for playback sessions
// ABOUTME: Callbacks run on the session worker goroutine
package radio

import (
	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/stream"
)

// Observer receives session progress. Callbacks are invoked from the
// session's worker goroutine and must not block for long.
type Observer interface {
	// OnError is called at most once per session, after its resources
	// have been released
	OnError(message string)

	// OnStatus is called after every PCM chunk written to the sink
	OnStatus(totalBytesRead int64, bytesCached int)
}

// StateObserver is implemented by observers that track state changes
type StateObserver interface {
	OnState(state State)
}

// FormatObserver is implemented by observers that want the stream format
// once the sink has been configured
type FormatObserver interface {
	OnFormat(format audio.Format)
}

// InfoObserver is implemented by observers that want the station info
// sent with the stream
type InfoObserver interface {
	OnInfo(info stream.Info)
}

// Funcs adapts plain functions to every observer interface. Nil fields
// are skipped.
type Funcs struct {
	Error  func(message string)
	Status func(totalBytesRead int64, bytesCached int)
	State  func(state State)
	Format func(format audio.Format)
	Info   func(info stream.Info)
}

func (f Funcs) OnError(message string) {
	if f.Error != nil {
		f.Error(message)
	}
}

func (f Funcs) OnStatus(totalBytesRead int64, bytesCached int) {
	if f.Status != nil {
		f.Status(totalBytesRead, bytesCached)
	}
}

func (f Funcs) OnState(state State) {
	if f.State != nil {
		f.State(state)
	}
}

func (f Funcs) OnFormat(format audio.Format) {
	if f.Format != nil {
		f.Format(format)
	}
}

func (f Funcs) OnInfo(info stream.Info) {
	if f.Info != nil {
		f.Info(info)
	}
}

// Tee fans every callback out to all observers, in order
func Tee(observers ...Observer) Observer {
	t := make(tee, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			t = append(t, o)
		}
	}
	return t
}

type tee []Observer

func (t tee) OnError(message string) {
	for _, o := range t {
		o.OnError(message)
	}
}

func (t tee) OnStatus(totalBytesRead int64, bytesCached int) {
	for _, o := range t {
		o.OnStatus(totalBytesRead, bytesCached)
	}
}

func (t tee) OnState(state State) {
	for _, o := range t {
		if so, ok := o.(StateObserver); ok {
			so.OnState(state)
		}
	}
}

func (t tee) OnFormat(format audio.Format) {
	for _, o := range t {
		if fo, ok := o.(FormatObserver); ok {
			fo.OnFormat(format)
		}
	}
}

func (t tee) OnInfo(info stream.Info) {
	for _, o := range t {
		if ib, ok := o.(InfoObserver); ok {
			ib.OnInfo(info)
		}
	}
}

type nopObserver struct{}

func (nopObserver) OnError(string)      {}
func (nopObserver) OnStatus(int64, int) {}
