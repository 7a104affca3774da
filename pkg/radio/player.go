// ABOUTME: Player launches playback sessions
// ABOUTME: Wires a stream source, codec and audio sink per session
package radio

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/netradio-go/netradio/pkg/audio/decode"
	"github.com/netradio-go/netradio/pkg/audio/output"
	"github.com/netradio-go/netradio/pkg/stream"
)

// ContentType is the only stream encoding accepted
const ContentType = "audio/mpeg"

const (
	DefaultReadChunk    = 1024
	DefaultOutputBuffer = 10 * 1024
)

// Config holds player configuration
type Config struct {
	// Sources creates the network stream for each session
	Sources stream.Factory

	// Codecs opens a decoder for each session
	Codecs decode.Factory

	// Sinks configures the audio output once the format is known
	Sinks output.Factory

	// ReadChunk is the most bytes read from the stream per iteration (default: 1024)
	ReadChunk int

	// OutputBuffer is the decoded PCM buffer size (default: 10240)
	OutputBuffer int

	// Logger receives session logs (default: the standard logrus logger)
	Logger log.FieldLogger
}

// Player starts independent playback sessions. It holds no session
// state itself; serializing sessions is up to the caller (see Controller).
type Player struct {
	config Config
}

// NewPlayer creates a new player with the given configuration
func NewPlayer(config Config) (*Player, error) {
	if config.Sources == nil {
		return nil, errors.New("player requires a stream source factory")
	}
	if config.Codecs == nil {
		return nil, errors.New("player requires a codec factory")
	}
	if config.Sinks == nil {
		return nil, errors.New("player requires an audio sink factory")
	}

	// Set defaults
	if config.ReadChunk <= 0 {
		config.ReadChunk = DefaultReadChunk
	}
	if config.OutputBuffer <= 0 {
		config.OutputBuffer = DefaultOutputBuffer
	}
	if config.OutputBuffer < decode.MaxFramePCM {
		return nil, errors.Errorf("output buffer of %d bytes cannot hold one decoded frame (%d bytes)",
			config.OutputBuffer, decode.MaxFramePCM)
	}
	if config.Logger == nil {
		config.Logger = log.StandardLogger()
	}

	return &Player{config: config}, nil
}

// Launch validates the stream URL and starts a session on its own
// goroutine. An invalid URL is reported to the observer and returned
// without starting anything.
func (p *Player) Launch(rawURL string, observer Observer) (*Session, error) {
	if observer == nil {
		observer = nopObserver{}
	}

	target, err := validateURL(rawURL)
	if err != nil {
		p.config.Logger.WithField("url", rawURL).WithError(err).Warn("Rejected stream URL")
		observer.OnError(err.Error())
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()

	s := &Session{
		id:       id,
		url:      target,
		config:   p.config,
		observer: observer,
		log: p.config.Logger.WithFields(log.Fields{
			"session": id,
			"url":     target,
		}),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.log.Info("Launching playback session")
	go s.run()

	return s, nil
}

// validateURL returns the trimmed URL if it is an absolute http(s) URL
func validateURL(rawURL string) (string, error) {
	target := strings.TrimSpace(rawURL)
	u, err := url.Parse(target)
	if err != nil {
		return "", newError(InvalidLocatorError, nil, "invalid stream URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", newError(InvalidLocatorError, nil, "invalid stream URL %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return "", newError(InvalidLocatorError, nil, "invalid stream URL %q: missing host", rawURL)
	}
	return target, nil
}
