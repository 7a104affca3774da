// ABOUTME: Monitor message type definitions
// ABOUTME: JSON events pushed to websocket clients and commands read from them
package monitor

// Message is the top-level wrapper for all monitor messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Event types
const (
	TypeStatus  = "status"
	TypeError   = "error"
	TypeState   = "state"
	TypeFormat  = "format"
	TypeStation = "station"
)

// Command types
const (
	CommandPlay = "play"
	CommandStop = "stop"
)

// Status reports playback progress
type Status struct {
	TotalBytesRead int64 `json:"total_bytes_read"`
	BytesCached    int   `json:"bytes_cached"`
}

// ErrorEvent carries the terminal session error
type ErrorEvent struct {
	Message string `json:"message"`
}

// StateEvent reports a session state change
type StateEvent struct {
	State string `json:"state"`
}

// Format describes the decoded stream
type Format struct {
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitDepth   int    `json:"bit_depth"`
}

// Station is the ICY station description
type Station struct {
	Name    string `json:"name,omitempty"`
	Genre   string `json:"genre,omitempty"`
	Bitrate int    `json:"bitrate,omitempty"`
}

// Command is sent by clients to control playback
type Command struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}
