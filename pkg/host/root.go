package host

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/view"
)

// Reason says why a frame was rendered.
type Reason string

const (
	ReasonMount Reason = "mount"
	ReasonProps Reason = "props"
	ReasonForce Reason = "force"
)

// Frame is one render of a root.
type Frame struct {
	Root   string    `json:"root"`
	Seq    uint64    `json:"seq"`
	HTML   string    `json:"html"`
	Reason Reason    `json:"reason"`
	At     time.Time `json:"at"`
}

// Sink receives every rendered frame.
type Sink func(Frame)

// RenderObserver is notified after every render.
type RenderObserver interface {
	Rendered(reason Reason, d time.Duration)
}

type rootState uint8

const (
	stateNew rootState = iota
	stateMounted
	stateUnmounted
)

// RootOption configures a Root.
type RootOption func(*Root)

// WithSink sets the frame sink.
func WithSink(s Sink) RootOption {
	return func(r *Root) {
		r.sink = s
	}
}

// WithRenderObserver attaches a render observer.
func WithRenderObserver(o RenderObserver) RootOption {
	return func(r *Root) {
		r.observer = o
	}
}

// WithLogger sets the root's logger.
func WithLogger(l *slog.Logger) RootOption {
	return func(r *Root) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithID sets the root identifier used in frames and logs.
func WithID(id string) RootOption {
	return func(r *Root) {
		r.id = id
	}
}

var rootCounter atomic.Uint64

// Root hosts a single component. It is not safe for concurrent use.
type Root struct {
	id       string
	sink     Sink
	observer RenderObserver
	logger   *slog.Logger

	state rootState
	comp  Component
	props bind.Props
	seq   uint64
	last  Frame

	rendering bool
	dirty     bool
}

var _ Updater = (*Root)(nil)

// NewRoot creates an unmounted root.
func NewRoot(opts ...RootOption) *Root {
	r := &Root{
		id:     fmt.Sprintf("r%d", rootCounter.Add(1)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the root identifier.
func (r *Root) ID() string {
	return r.id
}

// Mount creates the component and runs the mount hooks.
func (r *Root) Mount(f Factory, props bind.Props) error {
	if r.state != stateNew {
		if r.state == stateMounted {
			return alreadyMountedError(r.id)
		}
		return unmountedError(r.id)
	}

	r.props = props
	r.comp = f(props, r)

	if wm, ok := r.comp.(WillMounter); ok {
		wm.WillMount()
	}
	r.state = stateMounted
	r.render(ReasonMount)

	if dm, ok := r.comp.(DidMounter); ok {
		dm.DidMount()
	}

	r.logger.Debug("host: mounted", "root", r.id)
	return nil
}

// SetProps hands next to the component and re-renders.
func (r *Root) SetProps(next bind.Props) error {
	if r.state != stateMounted {
		return unmountedError(r.id)
	}

	if pr, ok := r.comp.(PropsReceiver); ok {
		pr.WillReceiveProps(next)
	}
	r.props = next
	if ph, ok := r.comp.(PropsHolder); ok {
		ph.SetProps(next)
	}

	r.render(ReasonProps)
	return nil
}

// ForceUpdate re-renders the component. It is a no-op unless mounted.
// A call made while rendering schedules one more render afterwards.
func (r *Root) ForceUpdate() {
	if r.state != stateMounted {
		r.logger.Debug("host: force update ignored", "root", r.id)
		return
	}
	if r.rendering {
		r.dirty = true
		return
	}
	r.render(ReasonForce)
}

// Unmount runs the unmount hook. The root cannot be mounted again.
func (r *Root) Unmount() error {
	if r.state != stateMounted {
		return unmountedError(r.id)
	}
	r.state = stateUnmounted

	if wu, ok := r.comp.(WillUnmounter); ok {
		wu.WillUnmount()
	}

	r.logger.Debug("host: unmounted", "root", r.id, "frames", r.seq)
	return nil
}

// Mounted reports whether the root is mounted.
func (r *Root) Mounted() bool {
	return r.state == stateMounted
}

// Component returns the hosted component, or nil before Mount.
func (r *Root) Component() Component {
	return r.comp
}

// Props returns the current props.
func (r *Root) Props() bind.Props {
	return r.props
}

// Last returns the most recent frame.
func (r *Root) Last() Frame {
	return r.last
}

// Frames returns the number of frames rendered.
func (r *Root) Frames() uint64 {
	return r.seq
}

func (r *Root) render(reason Reason) {
	r.rendering = true
	defer func() { r.rendering = false }()

	for {
		r.dirty = false
		start := time.Now()
		html := view.HTML(r.comp.Render())

		r.seq++
		r.last = Frame{
			Root:   r.id,
			Seq:    r.seq,
			HTML:   html,
			Reason: reason,
			At:     start,
		}
		if r.observer != nil {
			r.observer.Rendered(reason, time.Since(start))
		}
		if r.sink != nil {
			r.sink(r.last)
		}

		if !r.dirty || r.state != stateMounted {
			return
		}
		reason = ReasonForce
	}
}
