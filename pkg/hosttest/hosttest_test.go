package hosttest_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/hosttest"
	"github.com/vango-dev/streambind/pkg/stream"
	"github.com/vango-dev/streambind/pkg/streaming"
	"github.com/vango-dev/streambind/pkg/view"
)

var counter = streaming.Wrap(func(p bind.Props) *view.Node {
	count := p.Value("count").(*stream.Stream[int])
	return view.Div(view.Attrs{"class": "counter"}, view.Textf("%d", count.Get()))
})

func TestMount_RecordsFrames(t *testing.T) {
	count := stream.New(0)
	h := hosttest.Mount(t, counter, bind.Props{bind.P("count", count)})

	count.Set(1)
	count.Set(2)

	h.ExpectFrames(3)
	h.ExpectReasons(host.ReasonMount, host.ReasonForce, host.ReasonForce)
	h.ExpectLastHTML(`<div class="counter">2</div>`)

	if h.Last().Root != t.Name() {
		t.Errorf("Root = %q, want %q", h.Last().Root, t.Name())
	}
	if _, ok := h.Component().(*streaming.Component); !ok {
		t.Errorf("Component() = %T, want *streaming.Component", h.Component())
	}
}

func TestMount_CleanupUnmounts(t *testing.T) {
	count := stream.New(0)

	t.Run("inner", func(t *testing.T) {
		hosttest.Mount(t, counter, bind.Props{bind.P("count", count)})
		if count.Watchers() != 1 {
			t.Errorf("Watchers() = %d, want 1", count.Watchers())
		}
	})

	if count.Watchers() != 0 {
		t.Errorf("Watchers() after cleanup = %d, want 0", count.Watchers())
	}
}

func TestRenderAssertions(t *testing.T) {
	node := view.Ul(view.Attrs{"class": "list"}, view.Li(nil, view.Text("one")))

	hosttest.ExpectContains(t, node, "one")
	hosttest.ExpectNotContains(t, node, "two")
	hosttest.ExpectElement(t, node, "li")
	hosttest.ExpectAttribute(t, node, "class", "list")
	hosttest.ExpectHTMLContains(t, view.HTML(node), "<ul")
}

// fakeT captures failures from assertion helpers.
type fakeT struct {
	testing.TB
	failed []string
}

func (f *fakeT) Helper() {}

func (f *fakeT) Errorf(format string, args ...any) {
	f.failed = append(f.failed, format)
}

func TestRenderAssertions_Failures(t *testing.T) {
	ft := &fakeT{TB: t}
	node := view.P(nil, view.Text(strings.Repeat("x", 600)))

	hosttest.ExpectContains(ft, node, "missing")
	hosttest.ExpectNotContains(ft, node, "xxx")
	hosttest.ExpectElement(ft, node, "span")
	hosttest.ExpectAttribute(ft, node, "id", "a")

	if len(ft.failed) != 4 {
		t.Errorf("failures = %d, want 4", len(ft.failed))
	}
}
