package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/streambind/pkg/host"
)

// Recorder writes frames to a Store from a background worker.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	timeout time.Duration

	queue chan host.Frame
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	written atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewRecorder starts a recorder with the given queue size.
func NewRecorder(store Store, logger *slog.Logger, buffer int) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 64
	}
	r := &Recorder{
		store:   store,
		logger:  logger,
		timeout: 10 * time.Second,
		queue:   make(chan host.Frame, buffer),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record queues a frame. It never blocks; frames are dropped when the
// queue is full or the recorder is closed. Record satisfies host.Sink.
func (r *Recorder) Record(f host.Frame) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.dropped.Add(1)
		return
	}
	select {
	case r.queue <- f:
	default:
		r.dropped.Add(1)
		r.logger.Warn("snapshot: queue full, frame dropped", "root", f.Root, "seq", f.Seq)
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for f := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err := r.store.Put(ctx, Key(f.Root, f.Seq), []byte(f.HTML))
		cancel()

		if err != nil {
			r.failed.Add(1)
			r.logger.Error("snapshot: write failed", "root", f.Root, "seq", f.Seq, "error", err)
			continue
		}
		r.written.Add(1)
	}
}

// Close stops accepting frames and waits for queued frames to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
}

// Stats reports written, dropped and failed frame counts.
func (r *Recorder) Stats() (written, dropped, failed uint64) {
	return r.written.Load(), r.dropped.Load(), r.failed.Load()
}
