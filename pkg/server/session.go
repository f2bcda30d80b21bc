package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/streambind/internal/errors"
	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/stream"
	"github.com/vango-dev/streambind/pkg/streaming"
)

// Client operations.
const (
	OpAdd   = "add"
	OpClear = "clear"
	OpReset = "reset"
)

// ClientMessage is a message sent by the browser.
type ClientMessage struct {
	Op string `json:"op"`
}

// maxMessageSize bounds client messages.
const maxMessageSize = 1024

// Session is one live dashboard connection.
type Session struct {
	ID string

	server *Server
	conn   *websocket.Conn
	config Config
	logger *slog.Logger

	loop *host.Loop
	root *host.Root
	feed *Feed

	frames chan host.Frame
	done   chan struct{}

	closeOnce sync.Once
	sent      atomic.Uint64
	dropped   atomic.Uint64
}

func newSession(s *Server, id string, conn *websocket.Conn) *Session {
	sess := &Session{
		ID:     id,
		server: s,
		conn:   conn,
		config: s.config,
		logger: s.logger.With("session", id),
		feed:   NewFeed(s.config.Streams, time.Now()),
		frames: make(chan host.Frame, s.config.FrameBuffer),
		done:   make(chan struct{}),
	}
	sess.loop = host.NewLoop(16, sess.logger)
	sess.root = host.NewRoot(
		host.WithID(id),
		host.WithLogger(sess.logger),
		host.WithSink(sess.push),
		host.WithRenderObserver(s.instrument),
	)
	return sess
}

// push is the root's sink. It runs on the loop and never blocks it.
func (s *Session) push(f host.Frame) {
	if s.server.recorder != nil {
		s.server.recorder.Record(f)
	}
	select {
	case s.frames <- f:
	default:
		s.dropped.Add(1)
		s.logger.Warn("frame dropped", "seq", f.Seq)
	}
}

// mount mounts the dashboard on the loop.
func (s *Session) mount() error {
	factory := Demo(
		bind.WithLogger(s.logger),
		bind.WithObserver(s.server.instrument),
		bind.WithName(s.ID),
	)
	var err error
	if doErr := s.loop.Do(func() {
		err = s.root.Mount(factory, s.feed.Props(s.config.Title))
	}); doErr != nil {
		return doErr
	}
	return err
}

// serve runs the session until the connection closes.
func (s *Session) serve() {
	defer s.Close()

	go s.writeLoop()
	go s.tickLoop()
	s.readLoop()
}

// readLoop applies client messages until the connection fails.
func (s *Session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("bad client message", "error", err)
			continue
		}
		if err := s.Apply(msg.Op); err != nil {
			s.logger.Warn("client operation failed", "op", msg.Op, "error", err)
		}
	}
}

// writeLoop writes queued frames and keeps the connection alive.
func (s *Session) writeLoop() {
	ping := time.NewTicker(s.config.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-s.done:
			return

		case f := <-s.frames:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteJSON(f); err != nil {
				s.logger.Debug("write failed", "error", err)
				go s.Close()
				return
			}
			s.sent.Add(1)
			if s.server.metrics != nil {
				s.server.metrics.FrameSent()
			}

		case <-ping.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				go s.Close()
				return
			}
		}
	}
}

// tickLoop posts feed emissions onto the loop.
func (s *Session) tickLoop() {
	t := time.NewTicker(s.config.Tick)
	defer t.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-t.C:
			if err := s.loop.Post(func() { s.feed.Tick(now) }); err != nil {
				return
			}
		}
	}
}

// Apply runs a client operation on the loop and re-renders.
func (s *Session) Apply(op string) error {
	var err error
	if doErr := s.loop.Do(func() {
		err = s.apply(op)
		if err == nil {
			s.root.ForceUpdate()
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

func (s *Session) apply(op string) error {
	comp, ok := s.root.Component().(*streaming.Component)
	if !ok || !s.root.Mounted() {
		return host.ErrUnmounted
	}

	switch op {
	case OpAdd:
		extra := s.feed.AddExtra()
		return comp.AddStreams([]stream.Source{extra})
	case OpClear:
		comp.ClearStreams()
		return nil
	case OpReset:
		s.feed.DropExtras()
		return comp.SetStreams(bind.Extract(s.root.Props()))
	default:
		return errors.New("E161").WithDetailf("op %q", op)
	}
}

// Watching returns the number of streams the dashboard is subscribed to.
func (s *Session) Watching() int {
	n := 0
	_ = s.loop.Do(func() {
		if comp, ok := s.root.Component().(*streaming.Component); ok {
			n = len(comp.Manager().Streams())
		}
	})
	return n
}

// Stats returns frames sent to and dropped for the client.
func (s *Session) Stats() (sent, dropped uint64) {
	return s.sent.Load(), s.dropped.Load()
}

// Close unmounts the dashboard, stops the loop and closes the connection.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		_ = s.loop.Do(func() {
			if s.root.Mounted() {
				_ = s.root.Unmount()
			}
		})
		s.loop.Close()
		s.conn.Close()
		s.feed.DropExtras()

		s.server.removeSession(s.ID)
		sent, dropped := s.Stats()
		s.logger.Info("session closed", "frames", s.root.Frames(), "sent", sent, "dropped", dropped)
	})
}
