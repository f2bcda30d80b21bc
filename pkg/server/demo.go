package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/stream"
	"github.com/vango-dev/streambind/pkg/streaming"
	"github.com/vango-dev/streambind/pkg/view"
)

// Prop names used by the dashboard.
const (
	PropTitle = "title"
	PropClock = "clock"
	PropFeed  = "feed"
)

// counterProp names the i-th counter prop.
func counterProp(i int) string {
	return fmt.Sprintf("counter%d", i)
}

// Feed owns the demo streams and advances them on every tick.
//
// Extras are streams added at runtime through AddStreams. They are not
// props, so the dashboard reads them through the feed, which is itself a
// plain (non-stream) prop.
type Feed struct {
	Clock    *stream.Stream[time.Time]
	Counters []*stream.Stream[int]

	mu     sync.Mutex
	extras []*stream.Stream[int]
}

// NewFeed creates a feed with n counter streams.
func NewFeed(n int, now time.Time) *Feed {
	f := &Feed{
		Clock:    stream.New(now),
		Counters: make([]*stream.Stream[int], n),
	}
	for i := range f.Counters {
		f.Counters[i] = stream.New(0)
	}
	return f
}

// Props builds the dashboard props in display order.
func (f *Feed) Props(title string) bind.Props {
	props := bind.Props{
		bind.P(PropTitle, title),
		bind.P(PropClock, f.Clock),
	}
	for i, c := range f.Counters {
		props = append(props, bind.P(counterProp(i), c))
	}
	return append(props, bind.P(PropFeed, f))
}

// Tick emits on every stream: the clock gets now, counter i grows by i+1,
// and each extra grows by one.
func (f *Feed) Tick(now time.Time) {
	f.Clock.Set(now)
	for i, c := range f.Counters {
		step := i + 1
		c.Update(func(v int) int { return v + step })
	}
	for _, e := range f.Extras() {
		e.Update(func(v int) int { return v + 1 })
	}
}

// AddExtra creates and tracks a new extra stream.
func (f *Feed) AddExtra() *stream.Stream[int] {
	s := stream.New(0)
	f.mu.Lock()
	f.extras = append(f.extras, s)
	f.mu.Unlock()
	return s
}

// Extras returns a copy of the extra streams.
func (f *Feed) Extras() []*stream.Stream[int] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*stream.Stream[int], len(f.extras))
	copy(out, f.extras)
	return out
}

// DropExtras ends and forgets the extra streams.
func (f *Feed) DropExtras() {
	f.mu.Lock()
	extras := f.extras
	f.extras = nil
	f.mu.Unlock()

	for _, e := range extras {
		e.End()
	}
}

// Dashboard renders the demo view from its props.
func Dashboard(props bind.Props) *view.Node {
	title, _ := props.Value(PropTitle).(string)

	var items []*view.Node
	if clock, ok := props.Value(PropClock).(*stream.Stream[time.Time]); ok {
		items = append(items, view.Li(view.Attrs{"class": "clock"},
			view.Text(clock.Get().UTC().Format(time.TimeOnly)),
		))
	}
	for _, name := range props.Names() {
		c, ok := props.Value(name).(*stream.Stream[int])
		if !ok {
			continue
		}
		items = append(items, view.Li(view.Attrs{"data-stream": name},
			view.Textf("%s: %d", name, c.Get()),
		))
	}

	var extras []*view.Node
	if feed, ok := props.Value(PropFeed).(*Feed); ok {
		for i, e := range feed.Extras() {
			extras = append(extras, view.Li(view.Attrs{"data-extra": i},
				view.Textf("extra%d: %d", i, e.Get()),
			))
		}
	}

	return view.Div(view.Attrs{"class": "dashboard"},
		view.H1(nil, view.Text(title)),
		view.Ul(view.Attrs{"class": "streams"}, items...),
		view.Ul(view.Attrs{"class": "extras"}, extras...),
	)
}

// Demo returns the dashboard factory.
func Demo(opts ...bind.Option) host.Factory {
	return streaming.Wrap(Dashboard, opts...)
}
