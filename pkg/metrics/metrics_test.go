package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/stream"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
}

func TestMetrics_ManagerLifecycle(t *testing.T) {
	m := newTestMetrics(t)

	s := stream.New(0)
	mgr := bind.NewManager(bind.Props{bind.P("s", s)}, func() {}, bind.WithObserver(m))
	mgr.Mount()
	s.Set(1)
	s.Set(2)
	mgr.Unmount()

	if got := testutil.ToFloat64(m.rebuilds.WithLabelValues("true")); got != 1 {
		t.Errorf("rebuilds{subscribed=true} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.updates.WithLabelValues("rendered")); got != 2 {
		t.Errorf("updates{rendered} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.terminations.WithLabelValues("true")); got != 1 {
		t.Errorf("terminations{released=true} = %v, want 1", got)
	}
}

func TestMetrics_Renders(t *testing.T) {
	m := newTestMetrics(t)

	m.Rendered(host.ReasonMount, time.Millisecond)
	m.Rendered(host.ReasonForce, time.Millisecond)
	m.Rendered(host.ReasonForce, time.Millisecond)

	if got := testutil.ToFloat64(m.renders.WithLabelValues("force")); got != 2 {
		t.Errorf("renders{force} = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.renderDuration); got != 1 {
		t.Errorf("render_duration series = %d, want 1", got)
	}
}

func TestMetrics_Sessions(t *testing.T) {
	m := newTestMetrics(t)

	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()
	m.FrameSent()

	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.framesSent); got != 1 {
		t.Errorf("frames_sent_total = %v, want 1", got)
	}
}

func TestMetrics_DroppedUpdate(t *testing.T) {
	m := newTestMetrics(t)
	m.Updated(false)
	if got := testutil.ToFloat64(m.updates.WithLabelValues("dropped")); got != 1 {
		t.Errorf("updates{dropped} = %v, want 1", got)
	}
}

func TestMetrics_Middleware(t *testing.T) {
	m := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/items/{id}", "418")); got != 2 {
		t.Errorf("http_requests{/items/{id},418} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "404")); got != 1 {
		t.Errorf("http_requests{unmatched,404} = %v, want 1", got)
	}
}
