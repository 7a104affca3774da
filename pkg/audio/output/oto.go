// ABOUTME: Oto-based audio output implementation
// ABOUTME: Pipe-fed oto player with blocking writes for back-pressure
package output

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/netradio-go/netradio/pkg/audio"
)

// Oto configures sinks on the process-wide oto context.
//
// oto allows a single context per process, so the device format is fixed
// by the first Configure call. Later sessions with a different format are
// converted to it.
type Oto struct {
	mu       sync.Mutex
	bufferMs int
	otoCtx   *oto.Context
	format   audio.Format
	active   int
}

// NewOto creates a new Oto output factory
func NewOto(bufferMs int) *Oto {
	return &Oto{bufferMs: bufferMs}
}

// Configure opens a player for the given stream format
func (o *Oto) Configure(format audio.Format) (Sink, error) {
	want := DeviceFormat(format)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   want.SampleRate,
			ChannelCount: want.Channels,
			Format:       otoFormat(want.BitDepth),
			BufferSize:   time.Duration(o.bufferMs) * time.Millisecond,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create oto context")
		}
		<-readyChan

		o.otoCtx = ctx
		o.format = want
		log.WithField("format", want.String()).Info("Audio output initialized")
	} else if o.active == 0 {
		if err := o.otoCtx.Resume(); err != nil {
			return nil, errors.Wrap(err, "failed to resume oto context")
		}
	}

	conv := newConverter(want, o.format)
	if conv != nil {
		log.WithFields(log.Fields{
			"stream": want.String(),
			"device": o.format.String(),
		}).Warn("Stream format differs from device format, converting")
	}

	pr, pw := io.Pipe()
	player := o.otoCtx.NewPlayer(pr)
	player.Play()
	o.active++

	return newPipeSink(player, pr, pw, conv, o.released), nil
}

// released suspends the device when no sink is left
func (o *Oto) released() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.active--
	if o.active == 0 && o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.WithError(err).Warn("Failed to suspend oto context")
		}
	}
}

func otoFormat(bitDepth int) oto.Format {
	if bitDepth == 8 {
		return oto.FormatUnsignedInt8
	}
	return oto.FormatSignedInt16LE
}

// devicePlayer is the part of *oto.Player a sink drives
type devicePlayer interface {
	Play()
	Pause()
	Close() error
}

// pipeSink feeds a device player through a synchronous pipe, so Write
// returns only once the player has pulled the data
type pipeSink struct {
	player  devicePlayer
	pr      *io.PipeReader
	pw      *io.PipeWriter
	convert *converter
	onFree  func()

	stopOnce    sync.Once
	releaseOnce sync.Once
}

func newPipeSink(player devicePlayer, pr *io.PipeReader, pw *io.PipeWriter, conv *converter, onFree func()) *pipeSink {
	return &pipeSink{
		player:  player,
		pr:      pr,
		pw:      pw,
		convert: conv,
		onFree:  onFree,
	}
}

// Write outputs PCM (blocks until the player has read it)
func (s *pipeSink) Write(ctx context.Context, p []byte) (int, error) {
	data := p
	if s.convert != nil {
		data = s.convert.apply(p)
	}

	unblock := context.AfterFunc(ctx, func() {
		s.pr.CloseWithError(ctx.Err())
	})
	defer unblock()

	if _, err := s.pw.Write(data); err != nil {
		return 0, errors.Wrap(err, "pipe write failed")
	}
	return len(p), nil
}

// Flush is a no-op: the pipe holds nothing once Write has returned, and
// audio already handed to the device is dropped by Release
func (s *pipeSink) Flush() error {
	return nil
}

// Stop pauses the player
func (s *pipeSink) Stop() error {
	s.stopOnce.Do(func() {
		s.player.Pause()
	})
	return nil
}

// Release closes the pipe and the player
func (s *pipeSink) Release() error {
	var err error
	s.releaseOnce.Do(func() {
		s.pw.Close()
		err = s.player.Close()
		s.pr.Close()
		if s.onFree != nil {
			s.onFree()
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to close player")
	}
	return nil
}
