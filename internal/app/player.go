// ABOUTME: Main player application orchestration
// ABOUTME: Coordinates all components (stream, audio, metrics, monitor, UI)
package app

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/netradio-go/netradio/internal/config"
	"github.com/netradio-go/netradio/internal/metrics"
	"github.com/netradio-go/netradio/internal/monitor"
	"github.com/netradio-go/netradio/internal/ui"
	"github.com/netradio-go/netradio/internal/version"
	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/audio/decode"
	"github.com/netradio-go/netradio/pkg/audio/output"
	"github.com/netradio-go/netradio/pkg/radio"
	"github.com/netradio-go/netradio/pkg/stream"
)

const shutdownTimeout = 5 * time.Second

// ErrNoURL is returned in headless mode when no stream URL is configured
var ErrNoURL = errors.New("no stream URL given")

// Player represents the main player application
type Player struct {
	config  *config.Config
	log     log.FieldLogger
	metrics *metrics.Metrics
	ctrl    *radio.Controller
	monitor *monitor.Server
	tuiObs  *ui.Observer

	// ended receives the terminal error of every session, nil when stopped
	ended chan error
	wg    sync.WaitGroup
}

type components struct {
	sources stream.Factory
	codecs  decode.Factory
	sinks   output.Factory
}

// New creates a player playing through the system audio device
func New(cfg *config.Config, logger log.FieldLogger) (*Player, error) {
	opts := stream.Options{
		ConnectTimeout: cfg.ConnectTimeout(),
		UserAgent:      cfg.Stream.UserAgent,
		ReadChunk:      cfg.Stream.ReadChunkBytes,
		ReadAhead:      cfg.Stream.ReadAheadChunks,
		Headers:        cfg.Stream.RequestHeaders,
	}
	if opts.UserAgent == "" {
		opts.UserAgent = version.UserAgent()
	}

	return newPlayer(cfg, logger, components{
		sources: stream.HTTPFactory(opts),
		codecs:  decode.MP3Factory,
		sinks:   output.NewOto(cfg.Output.BufferMs),
	})
}

func newPlayer(cfg *config.Config, logger log.FieldLogger, c components) (*Player, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}

	rp, err := radio.NewPlayer(radio.Config{
		Sources:      c.sources,
		Codecs:       c.codecs,
		Sinks:        c.sinks,
		ReadChunk:    cfg.Stream.ReadChunkBytes,
		OutputBuffer: cfg.Decoder.OutputBufferBytes,
		Logger:       logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create player")
	}

	p := &Player{
		config:  cfg,
		log:     logger,
		metrics: metrics.New(),
		ended:   make(chan error, 1),
	}

	observers := []radio.Observer{p.logObserver()}

	if cfg.Monitor.Listen != "" {
		p.monitor = monitor.New(monitor.Config{
			Addr:       cfg.Monitor.Listen,
			Gatherer:   p.metrics.Registry,
			Controller: p,
			Logger:     logger,
		})
		observers = append(observers, p.monitor)
	}

	if cfg.UI.Enabled {
		p.tuiObs = ui.NewObserver()
		observers = append(observers, p.tuiObs)
	}

	p.ctrl = radio.NewController(rp, p.metrics.Observe(radio.Tee(observers...)))
	return p, nil
}

// Play stops the current session and launches url
func (p *Player) Play(url string) (*radio.Session, error) {
	session, err := p.ctrl.Play(url)
	if err != nil {
		p.metrics.SessionEnded(err)
		return nil, err
	}

	p.wg.Add(1)
	go p.watch(session)
	return session, nil
}

// Stop stops the current session, if any
func (p *Player) Stop() {
	p.ctrl.Stop()
}

// watch records how a session ended and reports it to Run
func (p *Player) watch(session *radio.Session) {
	defer p.wg.Done()

	err := session.Wait()
	p.metrics.SessionEnded(err)

	// sessions replaced by a later Play are not reported
	if err == nil && p.ctrl.Current() != session {
		return
	}
	select {
	case p.ended <- err:
	default:
	}
}

// Run starts the monitor and plays until ctx is done, the TUI quits or,
// without a TUI, the session ends. The session error is returned when
// running headless.
func (p *Player) Run(ctx context.Context) error {
	if p.monitor != nil {
		if err := p.monitor.Start(); err != nil {
			return errors.Wrap(err, "failed to start monitor")
		}
	}
	defer p.shutdown()

	if p.tuiObs != nil {
		return p.runTUI(ctx)
	}
	return p.runHeadless(ctx)
}

func (p *Player) runTUI(ctx context.Context) error {
	prog, err := ui.Run(p, p.config.Stream.URL)
	if err != nil {
		return errors.Wrap(err, "failed to start TUI")
	}
	p.tuiObs.Attach(prog)

	go func() {
		<-ctx.Done()
		prog.Quit()
	}()

	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "TUI failed")
	}
	return nil
}

func (p *Player) runHeadless(ctx context.Context) error {
	if p.config.Stream.URL == "" {
		return ErrNoURL
	}
	if _, err := p.Play(p.config.Stream.URL); err != nil {
		return err
	}

	select {
	case err := <-p.ended:
		return err
	case <-ctx.Done():
		p.log.Info("Shutdown signal received")
		return nil
	}
}

func (p *Player) shutdown() {
	p.ctrl.Stop()
	p.wg.Wait()

	if p.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := p.monitor.Stop(ctx); err != nil {
			p.log.WithError(err).Warn("Error stopping monitor")
		}
	}

	p.log.Info("Player stopped")
}

// logObserver writes session events to the log
func (p *Player) logObserver() radio.Observer {
	return radio.Funcs{
		Error: func(message string) {
			p.log.WithField("error", message).Error("Playback failed")
		},
		Status: func(totalBytesRead int64, bytesCached int) {
			p.log.WithFields(log.Fields{
				"read":   totalBytesRead,
				"cached": bytesCached,
			}).Trace("Status")
		},
		State: func(state radio.State) {
			p.log.WithField("state", state.String()).Debug("Session state")
		},
		Format: func(format audio.Format) {
			p.log.WithField("format", format.String()).Info("Playing")
		},
		Info: func(info stream.Info) {
			if name := info.String(); name != "" {
				p.log.WithField("genre", info.Genre).Infof("Station: %s", name)
			}
		},
	}
}
