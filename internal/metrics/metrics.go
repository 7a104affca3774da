// ABOUTME: Prometheus collectors for playback sessions
// ABOUTME: An observer decorator records session events as it forwards them
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/netradio-go/netradio/internal/version"
	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/radio"
	"github.com/netradio-go/netradio/pkg/stream"
)

const namespace = "netradio"

// Metrics holds the collectors on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	sessions       prometheus.Counter
	sessionsEnd    *prometheus.CounterVec
	bytesRead      prometheus.Counter
	bytesCached    prometheus.Gauge
	chunks         prometheus.Counter
	errors         prometheus.Counter
	state          prometheus.Gauge
	sampleRate     prometheus.Gauge
	stationBitrate prometheus.Gauge
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Playback sessions launched.",
		}),
		sessionsEnd: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Playback sessions ended, by reason.",
		}, []string{"reason"}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_read_bytes_total",
			Help:      "Compressed bytes read from streams.",
		}),
		bytesCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_cached_bytes",
			Help:      "Bytes buffered ahead in the current stream.",
		}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pcm_chunks_written_total",
			Help:      "Decoded PCM chunks written to the audio output.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_errors_total",
			Help:      "Errors reported to observers.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_state",
			Help:      "Current session state (0 idle, 1 connecting, 2 stream open, 3 buffering, 4 playing, 5 stopped, 6 errored).",
		}),
		sampleRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_sample_rate_hertz",
			Help:      "Sample rate of the current stream.",
		}),
		stationBitrate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "station_bitrate_kbps",
			Help:      "Bitrate advertised by the current station.",
		}),
	}

	m.Registry.MustRegister(
		m.sessions,
		m.sessionsEnd,
		m.bytesRead,
		m.bytesCached,
		m.chunks,
		m.errors,
		m.state,
		m.sampleRate,
		m.stationBitrate,
		version.Collector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// SessionEnded records why a session finished, given the error from Session.Wait
func (m *Metrics) SessionEnded(err error) {
	reason := "stopped"
	if err != nil {
		reason = radio.KindOf(err).String()
	}
	m.sessionsEnd.WithLabelValues(reason).Inc()
}

// Observe wraps next so every event is recorded before it is forwarded
func (m *Metrics) Observe(next radio.Observer) radio.Observer {
	return &observer{m: m, next: next}
}

type observer struct {
	m    *Metrics
	next radio.Observer

	mu   sync.Mutex
	last int64 // total reported by the current session
}

func (o *observer) OnError(message string) {
	o.m.errors.Inc()
	o.next.OnError(message)
}

func (o *observer) OnStatus(totalBytesRead int64, bytesCached int) {
	o.mu.Lock()
	if delta := totalBytesRead - o.last; delta > 0 {
		o.m.bytesRead.Add(float64(delta))
	}
	o.last = totalBytesRead
	o.mu.Unlock()

	o.m.bytesCached.Set(float64(bytesCached))
	o.m.chunks.Inc()
	o.next.OnStatus(totalBytesRead, bytesCached)
}

func (o *observer) OnState(state radio.State) {
	if state == radio.StateConnecting {
		o.mu.Lock()
		o.last = 0
		o.mu.Unlock()
		o.m.sessions.Inc()
	}
	if state.Terminal() {
		o.m.bytesCached.Set(0)
	}
	o.m.state.Set(float64(state))

	if so, ok := o.next.(radio.StateObserver); ok {
		so.OnState(state)
	}
}

func (o *observer) OnFormat(format audio.Format) {
	o.m.sampleRate.Set(float64(format.SampleRate))

	if fo, ok := o.next.(radio.FormatObserver); ok {
		fo.OnFormat(format)
	}
}

func (o *observer) OnInfo(info stream.Info) {
	o.m.stationBitrate.Set(float64(info.Bitrate))

	if ib, ok := o.next.(radio.InfoObserver); ok {
		ib.OnInfo(info)
	}
}
