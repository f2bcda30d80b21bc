package tracing

import (
	"time"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
)

// Instrument is both a subscription and a render observer.
type Instrument interface {
	bind.Observer
	host.RenderObserver
}

// Multi fans lifecycle and render notifications out to several instruments
// in order. Nil entries are skipped.
type Multi []Instrument

var _ Instrument = Multi(nil)

// NewMulti builds a Multi from the non-nil instruments.
func NewMulti(instruments ...Instrument) Multi {
	m := make(Multi, 0, len(instruments))
	for _, in := range instruments {
		if in != nil {
			m = append(m, in)
		}
	}
	return m
}

func (m Multi) Rebuilt(streams int, subscribed bool) {
	for _, in := range m {
		in.Rebuilt(streams, subscribed)
	}
}

func (m Multi) Terminated(hadHandle bool) {
	for _, in := range m {
		in.Terminated(hadHandle)
	}
}

func (m Multi) Updated(rendered bool) {
	for _, in := range m {
		in.Updated(rendered)
	}
}

func (m Multi) Rendered(reason host.Reason, d time.Duration) {
	for _, in := range m {
		in.Rendered(reason, d)
	}
}
