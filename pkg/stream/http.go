// ABOUTME: HTTP stream source with a buffered read-ahead window
// ABOUTME: Sends ICY headers and captures station info from the response
package stream

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Options configures the HTTP source
type Options struct {
	ConnectTimeout time.Duration
	UserAgent      string
	ReadChunk      int // bytes per Read issued by the pipeline
	ReadAhead      int // read-ahead window, in chunks
	Headers        map[string]string
}

// DefaultOptions returns a 1 KiB chunk with a ten-chunk read-ahead window
func DefaultOptions() Options {
	return Options{
		ConnectTimeout: 10 * time.Second,
		UserAgent:      "netradio",
		ReadChunk:      1024,
		ReadAhead:      10,
	}
}

// ErrNotConnected is returned by Read before Connect succeeds
var ErrNotConnected = errors.New("stream not connected")

// HTTP reads a live stream over HTTP
type HTTP struct {
	ctx    context.Context
	opts   Options
	client *http.Client

	mu   sync.Mutex
	resp *http.Response
	body *bufio.Reader
}

// HTTPFactory returns a Factory producing HTTP sources
func HTTPFactory(opts Options) Factory {
	return func(ctx context.Context) Source {
		return NewHTTP(ctx, opts)
	}
}

// NewHTTP creates a source whose request is bound to ctx.
// Cancelling ctx unblocks a pending Connect or Read.
func NewHTTP(ctx context.Context, opts Options) *HTTP {
	def := DefaultOptions()
	if opts.ReadChunk <= 0 {
		opts.ReadChunk = def.ReadChunk
	}
	if opts.ReadAhead <= 0 {
		opts.ReadAhead = def.ReadAhead
	}

	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ConnectTimeout,
		DisableCompression:    true,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTP{
		ctx:  ctx,
		opts: opts,
		client: &http.Client{
			Transport: transport,
			Timeout:   0, // No total timeout for streaming
		},
	}
}

// Connect issues the GET request and wraps the body in the read-ahead buffer
func (h *HTTP) Connect(url string) (Response, error) {
	req, err := http.NewRequestWithContext(h.ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, errors.Wrap(err, "create request")
	}

	// Set ICY headers
	req.Header.Set("Icy-MetaData", "0")
	if h.opts.UserAgent != "" {
		req.Header.Set("User-Agent", h.opts.UserAgent)
	}
	for k, v := range h.opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return Response{}, errors.Wrap(err, "http request")
	}

	h.mu.Lock()
	h.resp = resp
	h.body = bufio.NewReaderSize(resp.Body, h.opts.ReadChunk*h.opts.ReadAhead)
	h.mu.Unlock()

	return Response{
		StatusCode:  resp.StatusCode,
		Status:      statusText(resp),
		ContentType: resp.Header.Get("Content-Type"),
		Info:        parseInfo(resp.Header),
	}, nil
}

// Read reads from the buffered body
func (h *HTTP) Read(p []byte) (int, error) {
	h.mu.Lock()
	body := h.body
	h.mu.Unlock()

	if body == nil {
		return 0, ErrNotConnected
	}

	n, err := body.Read(p)
	if err == io.EOF {
		return n, io.EOF
	}
	if err != nil {
		return n, errors.Wrap(err, "read stream")
	}
	return n, nil
}

// Available returns the bytes held in the read-ahead buffer
func (h *HTTP) Available() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.body == nil {
		return 0
	}
	return h.body.Buffered()
}

// Disconnect closes the response body
func (h *HTTP) Disconnect() error {
	h.mu.Lock()
	resp := h.resp
	h.resp = nil
	h.body = nil
	h.mu.Unlock()

	if resp == nil {
		return nil
	}
	if err := resp.Body.Close(); err != nil {
		return errors.Wrap(err, "close stream")
	}
	return nil
}

// statusText strips the code from "200 OK"
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if msg := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode)
}

func parseInfo(h http.Header) Info {
	info := Info{
		Name:  h.Get("icy-name"),
		Genre: h.Get("icy-genre"),
	}
	// some servers send "128,128"
	br := h.Get("icy-br")
	if i := strings.IndexByte(br, ','); i >= 0 {
		br = br[:i]
	}
	if v, err := strconv.Atoi(strings.TrimSpace(br)); err == nil && v > 0 {
		info.Bitrate = v
	}
	return info
}
