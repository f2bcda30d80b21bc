package stream

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Source is the capability shared by every stream.
type Source interface {
	// Watch registers fn to run after every emission.
	// The returned cancel func removes the registration and is idempotent.
	Watch(fn func()) (cancel func())

	// Ended reports whether the source has stopped emitting.
	Ended() bool
}

// IsStream reports whether v is a stream. Typed nil pointers are not.
func IsStream(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Source); !ok {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

var idCounter atomic.Uint64

func nextID() uint64 {
	return idCounter.Add(1)
}

// watcher is a single registration on a stream.
type watcher struct {
	id uint64
	fn func()
}

// hub provides type-erased watcher management.
// It is embedded in Stream[T] and Combined to share notification logic.
type hub struct {
	mu       sync.RWMutex
	watchers []watcher
	ended    bool
}

func (h *hub) watch(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	if h.ended {
		h.mu.Unlock()
		return func() {}
	}
	id := nextID()
	h.watchers = append(h.watchers, watcher{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, w := range h.watchers {
		if w.id == id {
			h.watchers = append(h.watchers[:i], h.watchers[i+1:]...)
			return
		}
	}
}

// notify runs every watcher registered at the time of the call.
// Uses copy-before-notify so watchers may cancel themselves.
func (h *hub) notify() {
	h.mu.RLock()
	ws := make([]watcher, len(h.watchers))
	copy(ws, h.watchers)
	h.mu.RUnlock()

	for _, w := range ws {
		w.fn()
	}
}

// end marks the hub ended and drops all watchers.
// Returns false if it was already ended.
func (h *hub) end() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ended {
		return false
	}
	h.ended = true
	h.watchers = nil
	return true
}

func (h *hub) isEnded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ended
}

func (h *hub) watcherCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

// Stream is a reactive value container.
type Stream[T any] struct {
	hub

	id uint64

	vmu   sync.RWMutex
	value T
	has   bool
}

var _ Source = (*Stream[int])(nil)

// New creates a stream. With an initial value the stream starts populated,
// without one HasValue reports false until the first Set.
func New[T any](initial ...T) *Stream[T] {
	s := &Stream[T]{id: nextID()}
	if len(initial) > 0 {
		s.value = initial[0]
		s.has = true
	}
	return s
}

// ID returns the unique identifier for this stream.
func (s *Stream[T]) ID() uint64 {
	return s.id
}

// Get returns the current value, or the zero value if none was set.
func (s *Stream[T]) Get() T {
	s.vmu.RLock()
	defer s.vmu.RUnlock()
	return s.value
}

// Peek returns the current value and whether one was ever set.
func (s *Stream[T]) Peek() (T, bool) {
	s.vmu.RLock()
	defer s.vmu.RUnlock()
	return s.value, s.has
}

// HasValue reports whether the stream holds a value.
func (s *Stream[T]) HasValue() bool {
	s.vmu.RLock()
	defer s.vmu.RUnlock()
	return s.has
}

// Set stores v and notifies every watcher. Ignored after End.
func (s *Stream[T]) Set(v T) {
	if s.isEnded() {
		return
	}

	s.vmu.Lock()
	s.value = v
	s.has = true
	s.vmu.Unlock()

	s.notify()
}

// Update sets the stream to fn applied to the current value.
func (s *Stream[T]) Update(fn func(T) T) {
	s.Set(fn(s.Get()))
}

// Watch implements Source.
func (s *Stream[T]) Watch(fn func()) func() {
	return s.watch(fn)
}

// Ended implements Source.
func (s *Stream[T]) Ended() bool {
	return s.isEnded()
}

// End stops the stream. The last value stays readable.
func (s *Stream[T]) End() {
	s.end()
}

// Watchers returns the number of live registrations.
func (s *Stream[T]) Watchers() int {
	return s.watcherCount()
}
