// ABOUTME: In-package fakes for the playback pipeline tests
// ABOUTME: Scripted stream source, codec and sink plus a recording observer
package radio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/audio/decode"
	"github.com/netradio-go/netradio/pkg/audio/output"
	"github.com/netradio-go/netradio/pkg/stream"
)

type readResult struct {
	n      int
	cached int
	err    error
}

// fakeSource replays scripted reads. Once the script is used up it
// reports end of stream, or no data forever when idle is set.
type fakeSource struct {
	mu          sync.Mutex
	resp        stream.Response
	connectErr  error
	reads       []readResult
	idle        bool
	cached      int
	connects    int
	readCalls   int
	disconnects int
}

func okSource(reads ...readResult) *fakeSource {
	return &fakeSource{
		resp:  stream.Response{StatusCode: 200, Status: "OK", ContentType: "audio/mpeg"},
		reads: reads,
	}
}

func (s *fakeSource) factory() stream.Factory {
	return func(ctx context.Context) stream.Source {
		return s
	}
}

func (s *fakeSource) Connect(url string) (stream.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
	return s.resp, s.connectErr
}

func (s *fakeSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	s.readCalls++
	if len(s.reads) == 0 {
		idle := s.idle
		s.cached = 0
		s.mu.Unlock()
		if idle {
			time.Sleep(time.Millisecond)
			return 0, nil
		}
		return 0, io.EOF
	}
	r := s.reads[0]
	s.reads = s.reads[1:]
	s.cached = r.cached
	s.mu.Unlock()

	for i := 0; i < r.n && i < len(p); i++ {
		p[i] = byte(i)
	}
	return r.n, r.err
}

func (s *fakeSource) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached
}

func (s *fakeSource) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
	return nil
}

func (s *fakeSource) counts() (reads, disconnects int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCalls, s.disconnects
}

type feedResult struct {
	n    int
	more []int // returned by the following drain calls
	err  error
}

// fakeCodec replays scripted results for every Feed with input. Drain
// calls (nil input) return the pending "more" counts, then 0.
type fakeCodec struct {
	mu      sync.Mutex
	results []feedResult
	pending []int
	format  audio.Format
	known   bool
	// format becomes known on the first positive decode
	learns bool
	feeds  int
	closes int
}

func (c *fakeCodec) Feed(in, out []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	if in == nil {
		if len(c.pending) == 0 {
			return 0, nil
		}
		n = c.pending[0]
		c.pending = c.pending[1:]
	} else {
		c.feeds++
		if len(c.results) == 0 {
			return 0, nil
		}
		r := c.results[0]
		c.results = c.results[1:]
		if r.err != nil {
			return 0, r.err
		}
		n = r.n
		c.pending = r.more
	}

	if n > 0 && c.learns {
		c.known = true
	}
	return n, nil
}

func (c *fakeCodec) Format() (audio.Format, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format, c.known
}

func (c *fakeCodec) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *fakeCodec) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

type codecFactory struct {
	codec   *fakeCodec
	openErr error
	opens   int
}

func (f *codecFactory) Open() (decode.Codec, error) {
	f.opens++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.codec, nil
}

type fakeSink struct {
	mu       sync.Mutex
	writes   []int
	writeErr error
	// block makes Write wait for ctx to be cancelled
	block    bool
	blocked  chan struct{}
	flushes  int
	stops    int
	releases int
}

func (s *fakeSink) Write(ctx context.Context, p []byte) (int, error) {
	s.mu.Lock()
	if s.block {
		ch := s.blocked
		s.blocked = nil
		s.mu.Unlock()
		if ch != nil {
			close(ch)
		}
		<-ctx.Done()
		return 0, ctx.Err()
	}
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.writes = append(s.writes, len(p))
	return len(p), nil
}

func (s *fakeSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

func (s *fakeSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	return nil
}

func (s *fakeSink) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	return nil
}

type sinkFactory struct {
	mu           sync.Mutex
	sink         *fakeSink
	configureErr error
	formats      []audio.Format
}

func (f *sinkFactory) Configure(format audio.Format) (output.Sink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formats = append(f.formats, format)
	if f.configureErr != nil {
		return nil, f.configureErr
	}
	return f.sink, nil
}

func (f *sinkFactory) configures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.formats)
}

type status struct {
	total  int64
	cached int
}

type recorder struct {
	mu       sync.Mutex
	errors   []string
	statuses []status
	states   []State
	formats  []audio.Format
	infos    []stream.Info
}

func (r *recorder) OnError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recorder) OnStatus(total int64, cached int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status{total, cached})
}

func (r *recorder) OnState(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recorder) OnFormat(format audio.Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats = append(r.formats, format)
}

func (r *recorder) OnInfo(info stream.Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, info)
}

var stereo16 = audio.Format{Codec: "mp3", SampleRate: 44100, Channels: 2, BitDepth: 16}

// rig bundles the fakes behind one player
type rig struct {
	source *fakeSource
	codecs *codecFactory
	sinks  *sinkFactory
	obs    *recorder
	player *Player
}

func newRig(source *fakeSource, codec *fakeCodec) *rig {
	r := &rig{
		source: source,
		codecs: &codecFactory{codec: codec},
		sinks:  &sinkFactory{sink: &fakeSink{}},
		obs:    &recorder{},
	}
	player, err := NewPlayer(Config{
		Sources: source.factory(),
		Codecs:  r.codecs,
		Sinks:   r.sinks,
	})
	if err != nil {
		panic(err)
	}
	r.player = player
	return r
}

// run launches a session and waits for it to end
func (r *rig) run() (*Session, error) {
	s, err := r.player.Launch("http://radio.example.com/live", r.obs)
	if err != nil {
		return nil, err
	}
	return s, s.Wait()
}
