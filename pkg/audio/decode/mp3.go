// ABOUTME: MP3 feed-mode decoder
// ABOUTME: Drives go-mp3 with whole frames so partial input never reaches it
package decode

import (
	"github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"

	"github.com/netradio-go/netradio/pkg/audio"
)

// go-mp3 always produces interleaved 16-bit stereo
const (
	mp3Channels = 2
	mp3BitDepth = 16
)

var errStarved = errors.New("frame queue empty")

// MP3 decodes an MPEG-1/2 Layer III byte stream fed in arbitrary chunks.
//
// go-mp3 pulls from an io.Reader and treats a short read as end of
// stream, so the scanner holds bytes back until a whole frame is present
// and the decoder only ever reads frames that are already queued.
type MP3 struct {
	scanner frameScanner
	queue   frameQueue
	decoder *mp3.Decoder

	// frames queued but not yet pulled by the decoder
	frames int
	// the decoder holds PCM for a frame it has already read
	holding bool
	// largest PCM output of a single frame seen so far
	framePCM int

	format audio.Format
	known  bool
	closed bool
}

// NewMP3 creates an MP3 decoder waiting for input
func NewMP3() *MP3 {
	return &MP3{}
}

// MP3Factory opens a new MP3 decoder per session
var MP3Factory Factory = FactoryFunc(func() (Codec, error) {
	return NewMP3(), nil
})

// Feed queues in and decodes as many whole frames as fit in out
func (d *MP3) Feed(in, out []byte) (int, error) {
	if d.closed {
		return 0, &Error{Code: CodeClosed, Err: errors.New("decoder closed")}
	}

	d.scanner.push(in)
	for {
		frame, h, ok := d.scanner.next()
		if !ok {
			break
		}
		d.queue.push(frame)
		d.frames++
		if n := h.samples() * mp3Channels * (mp3BitDepth / 8); n > d.framePCM {
			d.framePCM = n
		}
	}

	if d.decoder == nil {
		if d.frames == 0 {
			return 0, nil
		}
		// NewDecoder reads and decodes the first frame
		dec, err := mp3.NewDecoder(&d.queue)
		if err != nil {
			return 0, &Error{Code: CodeInit, Err: errors.Wrap(err, "create mp3 decoder")}
		}
		d.decoder = dec
		d.frames--
		d.holding = true
		d.format = audio.Format{
			Codec:      "mp3",
			SampleRate: dec.SampleRate(),
			Channels:   mp3Channels,
			BitDepth:   mp3BitDepth,
		}
		d.known = true
	}

	// queued frames would only pile up
	if (d.holding || d.frames > 0) && len(out) < d.framePCM {
		return 0, &Error{
			Code: CodeBuffer,
			Err:  errors.Errorf("output buffer of %d bytes is smaller than one frame (%d bytes)", len(out), d.framePCM),
		}
	}

	n := 0
	for (d.holding || d.frames > 0) && len(out)-n >= d.framePCM {
		if !d.holding {
			d.frames--
		}
		m, err := d.decoder.Read(out[n:])
		d.holding = false
		if err != nil {
			return 0, &Error{Code: CodeDecode, Err: errors.Wrap(err, "decode mp3 frame")}
		}
		n += m
	}
	return n, nil
}

// Format returns the stream format once the first frame has been decoded
func (d *MP3) Format() (audio.Format, bool) {
	return d.format, d.known
}

// Skipped returns the number of input bytes that were not part of a frame
func (d *MP3) Skipped() int64 {
	return d.scanner.dropped
}

// Close releases decoder resources
func (d *MP3) Close() error {
	d.closed = true
	d.decoder = nil
	d.queue = frameQueue{}
	d.scanner = frameScanner{}
	d.frames = 0
	d.holding = false
	return nil
}

// frameQueue is the reader handed to go-mp3
type frameQueue struct {
	buf []byte
}

func (q *frameQueue) push(frame []byte) {
	q.buf = append(q.buf, frame...)
}

func (q *frameQueue) Read(p []byte) (int, error) {
	if len(q.buf) == 0 {
		return 0, errStarved
	}
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	if len(q.buf) == 0 {
		q.buf = nil
	}
	return n, nil
}
