// Package metrics exposes Prometheus metrics for stream bindings and renders.
//
// Metrics collected (namespace "streambind" by default):
//   - streambind_rebuilds_total{subscribed}: subscription rebuilds
//   - streambind_terminations_total{released}: subscription terminations
//   - streambind_updates_total{result}: stream notifications, rendered or dropped
//   - streambind_renders_total{reason}: host renders by reason
//   - streambind_render_duration_seconds: render latency
//   - streambind_active_sessions: live demo sessions
//   - streambind_frames_sent_total: frames written to websocket clients
//   - streambind_http_requests_total{route,status}: HTTP requests
//   - streambind_http_request_duration_seconds{route}: HTTP latency
//
// Example:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	mgr := bind.NewManager(props, root.ForceUpdate, bind.WithObserver(m))
//	root := host.NewRoot(host.WithRenderObserver(m))
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "streambind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "streambind",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. It implements bind.Observer and
// host.RenderObserver.
type Metrics struct {
	rebuilds       *prometheus.CounterVec
	terminations   *prometheus.CounterVec
	updates        *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	activeSessions prometheus.Gauge
	framesSent     prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ bind.Observer       = (*Metrics)(nil)
	_ host.RenderObserver = (*Metrics)(nil)
)

// New registers the collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rebuilds_total",
			Help:        "Total number of stream subscription rebuilds",
			ConstLabels: config.ConstLabels,
		}, []string{"subscribed"}),

		terminations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "terminations_total",
			Help:        "Total number of stream subscription terminations",
			ConstLabels: config.ConstLabels,
		}, []string{"released"}),

		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of stream notifications by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of component renders by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Component render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of live demo sessions",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of frames written to websocket clients",
			ConstLabels: config.ConstLabels,
		}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Rebuilt implements bind.Observer.
func (m *Metrics) Rebuilt(streams int, subscribed bool) {
	m.rebuilds.WithLabelValues(strconv.FormatBool(subscribed)).Inc()
}

// Terminated implements bind.Observer.
func (m *Metrics) Terminated(hadHandle bool) {
	m.terminations.WithLabelValues(strconv.FormatBool(hadHandle)).Inc()
}

// Updated implements bind.Observer.
func (m *Metrics) Updated(rendered bool) {
	result := "dropped"
	if rendered {
		result = "rendered"
	}
	m.updates.WithLabelValues(result).Inc()
}

// Rendered implements host.RenderObserver.
func (m *Metrics) Rendered(reason host.Reason, d time.Duration) {
	m.renders.WithLabelValues(string(reason)).Inc()
	m.renderDuration.Observe(d.Seconds())
}

// SessionStarted records a new session.
func (m *Metrics) SessionStarted() {
	m.activeSessions.Inc()
}

// SessionEnded records a closed session.
func (m *Metrics) SessionEnded() {
	m.activeSessions.Dec()
}

// FrameSent records a frame delivered to a client.
func (m *Metrics) FrameSent() {
	m.framesSent.Inc()
}
