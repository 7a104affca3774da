// ABOUTME: Audio output interface definition
// ABOUTME: Sink contract used by the playback pipeline
package output

import (
	"context"

	"github.com/netradio-go/netradio/pkg/audio"
)

// Sink plays interleaved PCM in the format it was configured with
type Sink interface {
	// Write blocks until the device has taken p or ctx is done
	Write(ctx context.Context, p []byte) (int, error)

	// Flush drops audio queued for the device
	Flush() error

	// Stop halts playback; safe to call more than once
	Stop() error

	// Release frees the device; safe to call more than once
	Release() error
}

// Factory creates a Sink once the stream format is known
type Factory interface {
	Configure(format audio.Format) (Sink, error)
}

// DeviceFormat maps a stream format onto what the device is asked to play.
// One channel plays as mono and any other count as stereo; 8 bits per
// sample plays as 8-bit PCM and anything else as 16-bit PCM.
func DeviceFormat(f audio.Format) audio.Format {
	out := f
	if f.Channels != 1 {
		out.Channels = 2
	}
	if f.BitDepth != 8 {
		out.BitDepth = 16
	}
	return out
}
