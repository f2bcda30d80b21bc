package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/vango-dev/streambind/internal/config"
)

// Config holds server settings.
type Config struct {
	// Address is the listen address (e.g. "localhost:3000").
	Address string

	// ReadBufferSize is the WebSocket read buffer size.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	WriteBufferSize int

	// CheckOrigin validates the request origin on upgrade.
	// Default: SameOriginCheck
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration

	// PongWait is how long a connection may stay silent.
	PongWait time.Duration

	// PingInterval must be shorter than PongWait.
	PingInterval time.Duration

	// FrameBuffer is the number of frames queued per session before
	// frames are dropped.
	FrameBuffer int

	// Tick is the interval between demo stream emissions.
	Tick time.Duration

	// Streams is the number of counter streams passed to the dashboard.
	Streams int

	// Title is the dashboard heading.
	Title string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:         "localhost:3000",
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     SameOriginCheck,
		ShutdownTimeout: 10 * time.Second,
		WriteTimeout:    10 * time.Second,
		PongWait:        60 * time.Second,
		PingInterval:    50 * time.Second,
		FrameBuffer:     32,
		Tick:            time.Second,
		Streams:         config.DefaultStreams,
		Title:           "streambind",
	}
}

// FromConfig builds a server Config from the loaded configuration.
func FromConfig(c *config.Config) Config {
	cfg := DefaultConfig()
	cfg.Address = c.Address()
	cfg.ShutdownTimeout = c.ShutdownTimeout()
	cfg.Tick = c.TickInterval()
	cfg.Streams = c.Demo.Streams
	if c.Demo.Title != "" {
		cfg.Title = c.Demo.Title
	}
	return cfg
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.FrameBuffer <= 0 {
		c.FrameBuffer = d.FrameBuffer
	}
	if c.Tick <= 0 {
		c.Tick = d.Tick
	}
	if c.Streams < 0 {
		c.Streams = 0
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	return c
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
