// ABOUTME: Playback session state machine
// ABOUTME: Idle -> Connecting -> StreamOpen -> FormatUnknown -> Playing -> Stopped|Errored
package radio

// State is the lifecycle position of a session
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateStreamOpen
	StateFormatUnknown // decoding, sink not yet configured
	StatePlaying
	StateStopped
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreamOpen:
		return "stream_open"
	case StateFormatUnknown:
		return "buffering"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has released its resources
func (s State) Terminal() bool {
	return s == StateStopped || s == StateErrored
}
