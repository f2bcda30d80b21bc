package server

import (
	"testing"
	"time"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/hosttest"
)

func TestFeed_Props(t *testing.T) {
	f := NewFeed(2, time.Now())
	props := f.Props("t")

	want := []string{PropTitle, PropClock, "counter0", "counter1", PropFeed}
	got := props.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// The feed and the title are plain props.
	if n := len(bind.Extract(props)); n != 3 {
		t.Errorf("len(Extract) = %d, want 3", n)
	}
}

func TestFeed_Tick(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFeed(2, start)
	extra := f.AddExtra()

	f.Tick(start.Add(time.Second))
	f.Tick(start.Add(2 * time.Second))

	if got := f.Clock.Get(); !got.Equal(start.Add(2 * time.Second)) {
		t.Errorf("Clock = %v", got)
	}
	if got := f.Counters[0].Get(); got != 2 {
		t.Errorf("counter0 = %d, want 2", got)
	}
	if got := f.Counters[1].Get(); got != 4 {
		t.Errorf("counter1 = %d, want 4", got)
	}
	if got := extra.Get(); got != 2 {
		t.Errorf("extra = %d, want 2", got)
	}

	f.DropExtras()
	if !extra.Ended() {
		t.Error("extra not ended after DropExtras")
	}
	if n := len(f.Extras()); n != 0 {
		t.Errorf("len(Extras) = %d, want 0", n)
	}
}

func TestDemo_RerendersOnTick(t *testing.T) {
	f := NewFeed(1, time.Now())
	h := hosttest.Mount(t, Demo(), f.Props("x"))

	f.Tick(time.Now())

	// clock and counter each emit once
	h.ExpectReasons(host.ReasonMount, host.ReasonForce, host.ReasonForce)
	hosttest.ExpectHTMLContains(t, h.Last().HTML, "counter0: 1")

	_ = h.Root.Unmount()
	f.Tick(time.Now())
	h.ExpectFrames(3)
}

func TestDashboard_ExtrasFromFeed(t *testing.T) {
	f := NewFeed(0, time.Now())
	e := f.AddExtra()
	e.Set(7)

	node := Dashboard(f.Props("x"))
	hosttest.ExpectContains(t, node, `<li data-extra="0">extra0: 7</li>`)
	hosttest.ExpectAttribute(t, node, "class", "dashboard")
	hosttest.ExpectNotContains(t, node, "counter0")
}
