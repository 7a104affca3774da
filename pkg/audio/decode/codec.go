// ABOUTME: Codec interface definition
// ABOUTME: Feed-mode contract shared by compressed audio decoders
package decode

import (
	"fmt"

	"github.com/netradio-go/netradio/pkg/audio"
)

// Codec codes surfaced through Error
const (
	CodeDecode = -1 // the underlying decoder rejected a frame
	CodeInit   = -2 // the underlying decoder could not be created
	CodeClosed = -3 // Feed called after Close
	CodeBuffer = -4 // out cannot hold the PCM of one frame
)

// MaxFramePCM is the most PCM one MP3 frame decodes to: 1152 samples of
// 16-bit stereo. Output buffers passed to Feed must be at least this large.
const MaxFramePCM = 1152 * 2 * 2

// Codec turns compressed chunks into PCM as they arrive.
//
// Feed appends in to the decoder's input and writes as much PCM as fits
// into out. It returns 0 when more input is needed and an *Error when the
// stream cannot be decoded. Calling Feed with empty input drains PCM that
// is already decodable.
//
// Format is unknown until the first Feed that produced PCM, and never
// changes afterwards.
type Codec interface {
	Feed(in, out []byte) (int, error)
	Format() (audio.Format, bool)
	Close() error
}

// Factory acquires codec handles
type Factory interface {
	Open() (Codec, error)
}

// FactoryFunc adapts a function to Factory
type FactoryFunc func() (Codec, error)

// Open calls f
func (f FactoryFunc) Open() (Codec, error) {
	return f()
}

// Error is a codec failure with its numeric code
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("codec error %d", e.Code)
	}
	return fmt.Sprintf("codec error %d: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
