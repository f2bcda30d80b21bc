package hosttest

import (
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/view"
)

// Harness is a mounted root that records its frames.
type Harness struct {
	t    testing.TB
	Root *host.Root

	mu     sync.Mutex
	frames []host.Frame
}

// Mount mounts factory with props on a recording root.
//
// Example:
//
//	h := hosttest.Mount(t, streaming.Wrap(render), props)
func Mount(t testing.TB, factory host.Factory, props bind.Props, opts ...host.RootOption) *Harness {
	t.Helper()

	h := &Harness{t: t}
	opts = append([]host.RootOption{host.WithID(t.Name())}, opts...)
	opts = append(opts, host.WithSink(h.record))
	h.Root = host.NewRoot(opts...)

	if err := h.Root.Mount(factory, props); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	t.Cleanup(func() {
		if h.Root.Mounted() {
			_ = h.Root.Unmount()
		}
	})
	return h
}

func (h *Harness) record(f host.Frame) {
	h.mu.Lock()
	h.frames = append(h.frames, f)
	h.mu.Unlock()
}

// Frames returns a copy of the recorded frames.
func (h *Harness) Frames() []host.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]host.Frame, len(h.frames))
	copy(out, h.frames)
	return out
}

// Last returns the most recent frame.
func (h *Harness) Last() host.Frame {
	return h.Root.Last()
}

// Component returns the mounted component.
func (h *Harness) Component() host.Component {
	return h.Root.Component()
}

// ExpectFrames asserts the number of recorded frames.
func (h *Harness) ExpectFrames(n int) {
	h.t.Helper()
	if got := len(h.Frames()); got != n {
		h.t.Errorf("frames = %d, want %d", got, n)
	}
}

// ExpectReasons asserts the reason of every recorded frame in order.
func (h *Harness) ExpectReasons(reasons ...host.Reason) {
	h.t.Helper()
	frames := h.Frames()
	if len(frames) != len(reasons) {
		h.t.Errorf("frames = %d, want %d", len(frames), len(reasons))
		return
	}
	for i, f := range frames {
		if f.Reason != reasons[i] {
			h.t.Errorf("frame %d reason = %s, want %s", i, f.Reason, reasons[i])
		}
	}
}

// ExpectLastHTML asserts the exact HTML of the last frame.
func (h *Harness) ExpectLastHTML(want string) {
	h.t.Helper()
	if got := h.Last().HTML; got != want {
		h.t.Errorf("last frame = %s, want %s", got, want)
	}
}

// ExpectHTMLContains asserts that html contains expected.
func ExpectHTMLContains(t testing.TB, html, expected string) {
	t.Helper()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t testing.TB, node *view.Node, expected string) {
	t.Helper()
	ExpectHTMLContains(t, view.HTML(node), expected)
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *view.Node, unexpected string) {
	t.Helper()
	html := view.HTML(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, node *view.Node, tag string) {
	t.Helper()
	html := view.HTML(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *view.Node, attr, value string) {
	t.Helper()
	html := view.HTML(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
