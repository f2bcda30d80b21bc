package bind

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/streambind/pkg/stream"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithObserver attaches an Observer. Multiple calls fan out in order.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o == nil {
			return
		}
		if _, ok := m.observer.(nopObserver); ok {
			m.observer = o
			return
		}
		m.observer = Observers{m.observer, o}
	}
}

// WithName labels the manager in log output.
func WithName(name string) Option {
	return func(m *Manager) {
		m.name = name
	}
}

// Manager owns the subscription between a component and its streams.
//
// All methods are meant to run on the host's UI goroutine. The only method
// that may run elsewhere is the internal update callback, which is guarded by
// the mounted flag.
type Manager struct {
	name        string
	forceUpdate func()
	logger      *slog.Logger
	observer    Observer

	mu      sync.Mutex
	streams []stream.Source
	handle  *stream.Combined

	mounted atomic.Bool
}

// NewManager creates a manager watching the streams found in props.
// forceUpdate is called for every stream emission while mounted.
func NewManager(props Props, forceUpdate func(), opts ...Option) *Manager {
	m := &Manager{
		forceUpdate: forceUpdate,
		logger:      slog.Default(),
		observer:    nopObserver{},
		streams:     Extract(props),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount marks the component mounted and builds the subscription.
func (m *Manager) Mount() {
	m.mounted.Store(true)
	m.Rebuild()
}

// Unmount marks the component unmounted and releases the subscription.
// Stream emissions are ignored from this point on.
func (m *Manager) Unmount() {
	m.mounted.Store(false)
	m.Terminate()
}

// Rebuild ends the current subscription and, when mounted with at least one
// stream, creates a new one over the current stream set.
func (m *Manager) Rebuild() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuildLocked()
}

func (m *Manager) rebuildLocked() {
	m.terminateLocked()

	if m.mounted.Load() && len(m.streams) > 0 {
		set := make([]stream.Source, len(m.streams))
		copy(set, m.streams)
		m.handle = stream.Combine(m.onUpdate, set)
	}

	subscribed := m.handle != nil
	m.logger.Debug("bind: rebuild",
		"component", m.name,
		"streams", len(m.streams),
		"subscribed", subscribed)
	m.observer.Rebuilt(len(m.streams), subscribed)
}

// Terminate ends the current subscription, if any.
func (m *Manager) Terminate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terminateLocked()
}

func (m *Manager) terminateLocked() {
	had := m.handle != nil
	if had {
		m.handle.End(true)
		m.handle = nil
	}
	m.observer.Terminated(had)
}

// AddStreams appends the streams in candidates to the watched set and
// rebuilds once. candidates must be a slice or array; non-stream entries are
// skipped. Any other argument returns ErrInvalidArgument and changes nothing.
func (m *Manager) AddStreams(candidates any) error {
	add, err := extractCandidates("AddStreams", candidates)
	if err != nil {
		m.logger.Warn("bind: rejected streams", "component", m.name, "error", err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = append(m.streams, add...)
	m.rebuildLocked()
	return nil
}

// SetStreams replaces the watched set with the streams in candidates and
// rebuilds once. Validation matches AddStreams.
func (m *Manager) SetStreams(candidates any) error {
	set, err := extractCandidates("SetStreams", candidates)
	if err != nil {
		m.logger.Warn("bind: rejected streams", "component", m.name, "error", err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = set
	m.rebuildLocked()
	return nil
}

// ClearStreams ends the subscription and empties the watched set.
// It does not rebuild.
func (m *Manager) ClearStreams() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terminateLocked()
	m.streams = nil
}

// PropsChanged replaces the watched set when next carries a different number
// of streams than are currently watched. Equal counts are left alone, even if
// the streams themselves differ.
func (m *Manager) PropsChanged(next Props) {
	found := Extract(next)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(found) == len(m.streams) {
		return
	}

	m.logger.Debug("bind: stream count changed",
		"component", m.name,
		"from", len(m.streams),
		"to", len(found))

	m.streams = found
	m.rebuildLocked()
}

// onUpdate is the subscription callback.
func (m *Manager) onUpdate() {
	if !m.mounted.Load() {
		m.observer.Updated(false)
		return
	}
	m.observer.Updated(true)
	if m.forceUpdate != nil {
		m.forceUpdate()
	}
}

// Streams returns a copy of the watched set.
func (m *Manager) Streams() []stream.Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]stream.Source, len(m.streams))
	copy(out, m.streams)
	return out
}

// Subscribed reports whether a subscription is live.
func (m *Manager) Subscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil
}

// Mounted reports whether the component is mounted.
func (m *Manager) Mounted() bool {
	return m.mounted.Load()
}
