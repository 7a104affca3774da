// ABOUTME: Monitor HTTP server for a running player
// ABOUTME: Serves /ws event fan-out, /metrics and /healthz
package monitor

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/radio"
	"github.com/netradio-go/netradio/pkg/stream"
)

const (
	sendBuffer    = 64
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Controller is the playback control the monitor exposes to clients
type Controller interface {
	Play(url string) (*radio.Session, error)
	Stop()
}

// Config holds monitor configuration
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:9090"
	Addr string

	// Gatherer backs /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer

	// Controller accepts play/stop commands; nil makes /ws read-only
	Controller Controller

	Logger log.FieldLogger
}

type client struct {
	conn     *websocket.Conn
	sendChan chan Message
}

// Server fans observer events out to websocket clients
type Server struct {
	config   Config
	log      log.FieldLogger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	httpServer *http.Server
	listener   net.Listener

	clients   map[*client]struct{}
	stopped   bool // no clients are accepted once set
	clientsMu sync.RWMutex

	// latest event per type, replayed to new clients
	snapshot   map[string]Message
	state      radio.State
	snapshotMu sync.Mutex

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new monitor server
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = log.StandardLogger()
	}

	s := &Server{
		config: config,
		log:    config.Logger.WithField("component", "monitor"),
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow non-browser clients (no Origin header)
				return r.Header.Get("Origin") == "" || sameHost(r)
			},
		},
		clients:  make(map[*client]struct{}),
		snapshot: make(map[string]Message),
	}

	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	if config.Gatherer != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

// Handler returns the monitor's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.config.Addr)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.WithField("addr", ln.Addr().String()).Info("Monitor listening")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("Monitor server failed")
		}
	}()

	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and disconnects every client
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.clientsMu.Lock()
		s.stopped = true
		s.clientsMu.Unlock()

		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}

		// hijacked connections are not closed by Shutdown
		s.clientsMu.RLock()
		for c := range s.clients {
			c.conn.Close()
		}
		s.clientsMu.RUnlock()

		s.wg.Wait()
	})
	if err != nil {
		return errors.Wrap(err, "monitor shutdown")
	}
	return nil
}

// OnError broadcasts the session error
func (s *Server) OnError(message string) {
	s.broadcast(Message{Type: TypeError, Payload: ErrorEvent{Message: message}})
}

// OnStatus broadcasts playback progress
func (s *Server) OnStatus(totalBytesRead int64, bytesCached int) {
	s.broadcast(Message{Type: TypeStatus, Payload: Status{
		TotalBytesRead: totalBytesRead,
		BytesCached:    bytesCached,
	}})
}

// OnState broadcasts a state change
func (s *Server) OnState(state radio.State) {
	s.snapshotMu.Lock()
	s.state = state
	if state == radio.StateConnecting {
		// a new session starts from a clean slate
		s.snapshot = make(map[string]Message)
	}
	s.snapshotMu.Unlock()

	s.broadcast(Message{Type: TypeState, Payload: StateEvent{State: state.String()}})
}

// OnFormat broadcasts the stream format
func (s *Server) OnFormat(format audio.Format) {
	s.broadcast(Message{Type: TypeFormat, Payload: Format{
		Codec:      format.Codec,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   format.BitDepth,
	}})
}

// OnInfo broadcasts the station description
func (s *Server) OnInfo(info stream.Info) {
	s.broadcast(Message{Type: TypeStation, Payload: Station{
		Name:    info.Name,
		Genre:   info.Genre,
		Bitrate: info.Bitrate,
	}})
}

func (s *Server) broadcast(msg Message) {
	s.snapshotMu.Lock()
	s.snapshot[msg.Type] = msg
	s.snapshotMu.Unlock()

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for c := range s.clients {
		select {
		case c.sendChan <- msg:
		default:
			s.log.Debug("Client send buffer full, dropping event")
		}
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// counted before the connection exists so Stop waits for it
	s.clientsMu.Lock()
	if s.stopped {
		s.clientsMu.Unlock()
		http.Error(w, "monitor is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	s.clientsMu.Unlock()
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("WebSocket upgrade error")
		return
	}

	s.log.WithField("remote", r.RemoteAddr).Debug("New WebSocket connection")
	s.handleConnection(conn)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	c := &client{
		conn:     conn,
		sendChan: make(chan Message, sendBuffer),
	}

	// replay the current picture before live events
	s.snapshotMu.Lock()
	for _, typ := range []string{TypeState, TypeStation, TypeFormat, TypeStatus, TypeError} {
		if msg, ok := s.snapshot[typ]; ok {
			c.sendChan <- msg
		}
	}
	s.clientsMu.Lock()
	if s.stopped {
		// Stop already closed every registered client
		s.clientsMu.Unlock()
		s.snapshotMu.Unlock()
		return
	}
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
	s.snapshotMu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.clientWriter(c)
	}()

	// Read commands from client
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Debug("WebSocket error")
			}
			break
		}
		s.handleCommand(data)
	}

	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
	close(c.sendChan)
	<-done
}

// clientWriter sends messages to the client
func (s *Server) clientWriter(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.log.WithError(err).Warn("Error marshaling message")
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.WithError(err).Debug("Error writing message")
				c.conn.Close()
				drain(c.sendChan)
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				c.conn.Close()
				drain(c.sendChan)
				return
			}
		}
	}
}

// drain consumes the channel until the reader closes it
func drain(ch <-chan Message) {
	for range ch {
	}
}

// handleCommand processes a play or stop request
func (s *Server) handleCommand(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.log.WithError(err).Warn("Invalid command")
		return
	}

	if s.config.Controller == nil {
		s.log.WithField("command", cmd.Type).Debug("Ignoring command, monitor is read-only")
		return
	}

	switch cmd.Type {
	case CommandPlay:
		s.log.WithField("url", cmd.URL).Info("Play requested by monitor client")
		// invalid URLs reach clients through OnError
		s.config.Controller.Play(cmd.URL)
	case CommandStop:
		s.log.Info("Stop requested by monitor client")
		s.config.Controller.Stop()
	default:
		s.log.WithField("command", cmd.Type).Warn("Unknown command")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.snapshotMu.Lock()
	state := s.state
	s.snapshotMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"state":  state.String(),
	})
}

func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
