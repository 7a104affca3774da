// ABOUTME: Stream source contract for network audio
// ABOUTME: Defines the connect response and station info types
package stream

import (
	"context"
	"fmt"
)

// Source is a connected network byte stream
type Source interface {
	// Connect opens the stream and returns the response header summary
	Connect(url string) (Response, error)

	// Read returns up to len(p) bytes. A zero count with a nil error means
	// no data yet; io.EOF marks the end of the stream.
	Read(p []byte) (int, error)

	// Available is the approximate number of bytes buffered ahead
	Available() int

	// Disconnect closes the stream; safe to call more than once
	Disconnect() error
}

// Factory creates a fresh Source for each session, bound to the
// session's context
type Factory func(ctx context.Context) Source

// Response summarizes the server's answer to Connect
type Response struct {
	StatusCode  int
	Status      string
	ContentType string
	Info        Info
}

// Info is the station description sent in ICY headers
type Info struct {
	Name    string
	Genre   string
	Bitrate int // kbit/s, 0 when not advertised
}

// String formats station info for display
func (i Info) String() string {
	switch {
	case i.Name == "":
		return ""
	case i.Bitrate > 0:
		return fmt.Sprintf("%s (%d kbps)", i.Name, i.Bitrate)
	default:
		return i.Name
	}
}
