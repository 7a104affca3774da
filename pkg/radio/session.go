// ABOUTME: Playback session worker loop
// ABOUTME: Reads the stream, decodes it and writes PCM to the sink until stopped
package radio

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/netradio-go/netradio/pkg/audio/decode"
	"github.com/netradio-go/netradio/pkg/audio/output"
	"github.com/netradio-go/netradio/pkg/stream"
)

// Session is one run of the playback pipeline, from launch until its
// resources are released
type Session struct {
	id       string
	url      string
	config   Config
	observer Observer
	log      log.FieldLogger

	ctx     context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool
	state   atomic.Int32
	done    chan struct{}
	err     error // written before done is closed

	// owned by the worker goroutine
	source    stream.Source
	codec     decode.Codec
	sink      output.Sink
	totalRead int64
	cached    int
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// URL returns the stream URL
func (s *Session) URL() string {
	return s.url
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return State(s.state.Load())
}

// Stop asks the session to end. It returns immediately; pending network
// reads and sink writes are cancelled. Calling Stop more than once is a no-op.
func (s *Session) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.log.Debug("Stop requested")
		s.cancel()
	}
}

// Done is closed once the session has released its resources
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends and returns its terminal error, or
// nil if it was stopped
func (s *Session) Wait() error {
	<-s.done
	return s.err
}

func (s *Session) run() {
	defer close(s.done)

	err := func() error {
		defer s.free()
		return s.loop()
	}()

	s.finish(err)
}

func (s *Session) loop() error {
	s.setState(StateConnecting)

	s.source = s.config.Sources(s.ctx)
	resp, err := s.source.Connect(s.url)
	if err != nil {
		return newError(ConnectionError, err, "unable to open stream")
	}

	// Check if server returned 200 OK status
	if resp.StatusCode != http.StatusOK {
		return newError(ProtocolError, nil, "stream returned HTTP status %d %s, expected 200 OK",
			resp.StatusCode, resp.Status)
	}
	if !acceptedType(resp.ContentType) {
		return newError(ProtocolError, nil, "unsupported content type: %q", resp.ContentType)
	}

	s.log.WithFields(log.Fields{
		"station": resp.Info.Name,
		"genre":   resp.Info.Genre,
		"bitrate": resp.Info.Bitrate,
	}).Info("Stream opened")
	s.setState(StateStreamOpen)
	if ib, ok := s.observer.(InfoObserver); ok {
		ib.OnInfo(resp.Info)
	}

	codec, err := s.config.Codecs.Open()
	if err != nil {
		return newError(DecoderInitError, err, "unable to open decoder")
	}
	s.codec = codec
	s.setState(StateFormatUnknown)

	in := make([]byte, s.config.ReadChunk)
	out := make([]byte, s.config.OutputBuffer)

	for !s.stopped.Load() {
		n, err := s.source.Read(in)
		s.cached = s.source.Available()

		s.log.WithFields(log.Fields{
			"bytes_read": n,
			"cached":     s.cached,
		}).Debug("Read stream chunk")

		if n > 0 {
			s.totalRead += int64(n)
			if derr := s.decode(in[:n], out); derr != nil {
				return derr
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return newError(StreamEndedError, nil, "reached the end of the stream")
		default:
			return newError(StreamReadError, err, "unable to read stream")
		}
	}

	return nil
}

// decode feeds one chunk and drains every PCM chunk the codec has ready
func (s *Session) decode(chunk, out []byte) error {
	n, err := s.codec.Feed(chunk, out)
	for {
		if err != nil {
			return newError(DecodeError, err, "error while decoding the stream: %d", codecCode(err))
		}
		// the codec wants more input
		if n == 0 {
			return nil
		}
		if perr := s.play(out[:n]); perr != nil {
			return perr
		}
		if s.stopped.Load() {
			return nil
		}
		n, err = s.codec.Feed(nil, out)
	}
}

// play configures the sink from the first decoded chunk, which is used
// only to learn the format, and writes every later chunk
func (s *Session) play(pcm []byte) error {
	if s.sink == nil {
		format, ok := s.codec.Format()
		if !ok || !format.Valid() {
			return newError(FormatUnsupportedError, nil, "stream has invalid bits per sample")
		}

		sink, err := s.config.Sinks.Configure(format)
		if err != nil {
			return newError(SinkError, err, "unable to open audio output")
		}
		s.sink = sink

		s.log.WithField("format", format.String()).Info("Audio output configured")
		s.setState(StatePlaying)
		if fo, ok := s.observer.(FormatObserver); ok {
			fo.OnFormat(format)
		}
		return nil
	}

	// Write blocks until the device has taken the chunk
	if _, err := s.sink.Write(s.ctx, pcm); err != nil {
		return newError(SinkError, err, "unable to write audio output")
	}
	s.observer.OnStatus(s.totalRead, s.cached)
	return nil
}

// free releases everything the session acquired, in reverse order.
// Every handle is released at most once; missing handles are skipped.
func (s *Session) free() {
	s.log.Debug("Session is stopping, free resources...")

	if s.source != nil {
		if err := s.source.Disconnect(); err != nil {
			s.log.WithError(err).Warn("Failed to disconnect stream")
		}
		s.source = nil
	}

	if s.codec != nil {
		if err := s.codec.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close decoder")
		}
		s.codec = nil
	}

	if s.sink != nil {
		if err := s.sink.Flush(); err != nil {
			s.log.WithError(err).Warn("Failed to flush audio output")
		}
		if err := s.sink.Stop(); err != nil {
			s.log.WithError(err).Warn("Failed to stop audio output")
		}
		if err := s.sink.Release(); err != nil {
			s.log.WithError(err).Warn("Failed to release audio output")
		}
		s.sink = nil
	}

	// nothing is left to cancel
	s.cancel()
}

// finish records the outcome and reports it. A stopped session reports
// no error, even if stopping interrupted a read or write.
func (s *Session) finish(err error) {
	if err == nil || s.stopped.Load() {
		s.log.WithField("bytes_read", s.totalRead).Info("Playback session stopped")
		s.setState(StateStopped)
		return
	}

	s.err = err
	s.log.WithError(err).WithField("bytes_read", s.totalRead).Error("Playback session failed")
	s.setState(StateErrored)
	s.observer.OnError(err.Error())
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
	if so, ok := s.observer.(StateObserver); ok {
		so.OnState(state)
	}
}

// acceptedType compares media types, ignoring parameters and case
func acceptedType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(contentType), ContentType)
	}
	return mediaType == ContentType
}

// codecCode extracts the numeric codec status from a decode failure
func codecCode(err error) int {
	var cerr *decode.Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return decode.CodeDecode
}
