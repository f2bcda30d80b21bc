package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/streambind/internal/errors"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/metrics"
	"github.com/vango-dev/streambind/pkg/snapshot"
	"github.com/vango-dev/streambind/pkg/tracing"
)

// Server is the HTTP/WebSocket server for the live dashboard.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// Instrumentation
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	tracer     *tracing.Observer
	instrument tracing.Multi

	// Render archive
	recorder *snapshot.Recorder

	mu         sync.Mutex
	sessions   map[string]*Session
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records metrics and serves them from g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithTracing records spans for every session.
func WithTracing(o *tracing.Observer) Option {
	return func(s *Server) {
		s.tracer = o
	}
}

// WithRecorder archives every rendered frame.
func WithRecorder(r *snapshot.Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// New creates a server.
func New(cfg Config, opts ...Option) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}

	var instruments []tracing.Instrument
	if s.metrics != nil {
		instruments = append(instruments, s.metrics)
	}
	if s.tracer != nil {
		instruments = append(instruments, s.tracer)
	}
	s.instrument = tracing.NewMulti(instruments...)

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	if s.tracer != nil {
		r.Use(s.tracer.Middleware)
	}

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	frame, err := Preview(s.config, time.Now())
	if err != nil {
		s.logger.Error("preview render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := writePage(w, s.config.Title, frame.HTML); err != nil {
		s.logger.Error("page write failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warn("websocket upgrade failed", "error", errors.FromError(err, "E160"))
		return
	}

	id := ulid.Make().String()
	sess := newSession(s, id, conn)
	s.addSession(sess)

	if err := sess.mount(); err != nil {
		s.logger.Error("mount failed", "session", id, "error", err)
		sess.Close()
		return
	}

	s.logger.Info("session opened", "session", id, "remote", r.RemoteAddr, "request", middleware.GetReqID(r.Context()))
	sess.serve()
}

func (s *Server) addSession(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionStarted()
	}
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok && s.metrics != nil {
		s.metrics.SessionEnded()
	}
}

// Session returns a live session by id.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	srv := s.httpServer
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Preview mounts the dashboard headless and returns its first frame.
func Preview(cfg Config, now time.Time) (host.Frame, error) {
	cfg = cfg.withDefaults()
	feed := NewFeed(cfg.Streams, now)
	root := host.NewRoot()
	if err := root.Mount(Demo(), feed.Props(cfg.Title)); err != nil {
		return host.Frame{}, err
	}
	frame := root.Last()
	if err := root.Unmount(); err != nil {
		return host.Frame{}, err
	}
	return frame, nil
}
