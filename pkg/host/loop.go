package host

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Loop runs submitted work on a single goroutine, the UI thread for the
// roots it drives.
type Loop struct {
	tasks  chan func()
	quit   chan struct{}
	exited chan struct{}
	gid    atomic.Int64
	logger *slog.Logger

	closeOnce sync.Once
}

// NewLoop starts a loop with the given task buffer.
func NewLoop(buffer int, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		tasks:  make(chan func(), buffer),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
		logger: logger,
	}

	started := make(chan struct{})
	go l.run(started)
	<-started
	return l
}

func (l *Loop) run(started chan<- struct{}) {
	defer close(l.exited)
	l.gid.Store(goid.Get())
	close(started)

	for {
		select {
		case <-l.quit:
			return
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("host: task panicked: %v", p)
			l.logger.Error("host: task panicked", "panic", p)
		}
	}()
	fn()
	return nil
}

// OnLoop reports whether the caller is running on the loop goroutine.
func (l *Loop) OnLoop() bool {
	return goid.Get() == l.gid.Load()
}

// Do runs fn on the loop and waits for it. Called from the loop itself, fn
// runs inline.
func (l *Loop) Do(fn func()) error {
	if l.OnLoop() {
		return l.exec(fn)
	}

	done := make(chan error, 1)
	task := func() { done <- l.exec(fn) }

	select {
	case <-l.quit:
		return loopClosedError()
	case l.tasks <- task:
	}

	select {
	case err := <-done:
		return err
	case <-l.exited:
		// The loop may have run the task just before exiting.
		select {
		case err := <-done:
			return err
		default:
			return loopClosedError()
		}
	}
}

// Post enqueues fn without waiting for it.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.quit:
		return loopClosedError()
	default:
	}

	select {
	case <-l.quit:
		return loopClosedError()
	case l.tasks <- func() { _ = l.exec(fn) }:
		return nil
	}
}

// Close stops the loop. Queued tasks that have not started are dropped.
// Close must not be called from the loop goroutine.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.quit)
	})
	<-l.exited
}

// Closed reports whether Close was called.
func (l *Loop) Closed() bool {
	select {
	case <-l.quit:
		return true
	default:
		return false
	}
}
