package stream

import "testing"

func TestCombine_FiresOnAnyInput(t *testing.T) {
	a, b := New(1), New("x")
	calls := 0
	h := Combine(func() { calls++ }, []Source{a, b})

	if calls != 0 {
		t.Fatalf("Combine fired on creation: calls = %d", calls)
	}

	a.Set(2)
	b.Set("y")
	a.Set(3)

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if h.Ended() {
		t.Error("handle ended unexpectedly")
	}
}

func TestCombine_DuplicateSourceFiresOnce(t *testing.T) {
	a := New(0)
	calls := 0
	h := Combine(func() { calls++ }, []Source{a, a, a})

	if a.Watchers() != 1 {
		t.Errorf("Watchers() = %d, want 1", a.Watchers())
	}

	a.Set(1)
	if calls != 1 {
		t.Errorf("calls = %d after one emission, want 1", calls)
	}

	h.End(true)
	if a.Watchers() != 0 {
		t.Errorf("Watchers() = %d after End, want 0", a.Watchers())
	}
}

func TestCombine_EndDetachesFromInputs(t *testing.T) {
	a, b := New(1), New(2)
	calls := 0
	h := Combine(func() { calls++ }, []Source{a, b})

	h.End(true)
	a.Set(5)
	b.Set(6)

	if calls != 0 {
		t.Errorf("calls after End = %d, want 0", calls)
	}
	if a.Watchers() != 0 || b.Watchers() != 0 {
		t.Errorf("watchers left: a=%d b=%d", a.Watchers(), b.Watchers())
	}
	if !h.Ended() {
		t.Error("Ended() = false")
	}

	// idempotent
	h.End(true)
	h.End(false)
}

func TestCombine_Empty(t *testing.T) {
	calls := 0
	h := Combine(func() { calls++ }, nil)
	if !h.Ended() {
		t.Error("combining zero sources should yield an ended handle")
	}
	h.End(true)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestCombine_SkipsNilSources(t *testing.T) {
	a := New(0)
	calls := 0
	Combine(func() { calls++ }, []Source{nil, a})
	a.Set(1)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCombine_NonForcedEndDefersDuringDelivery(t *testing.T) {
	a := New(0)
	var h *Combined
	calls := 0
	h = Combine(func() {
		calls++
		h.End(false)
		if h.Ended() {
			t.Error("non-forced end took effect during delivery")
		}
	}, []Source{a})

	a.Set(1)
	if !h.Ended() {
		t.Error("deferred end did not complete after delivery")
	}

	a.Set(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCombine_ForcedEndDuringDelivery(t *testing.T) {
	a := New(0)
	var h *Combined
	h = Combine(func() {
		h.End(true)
		if !h.Ended() {
			t.Error("forced end should take effect immediately")
		}
	}, []Source{a})

	a.Set(1)
	if a.Watchers() != 0 {
		t.Errorf("Watchers() = %d, want 0", a.Watchers())
	}
}

func TestCombine_Chained(t *testing.T) {
	a := New(0)
	inner := Combine(nil, []Source{a})
	calls := 0
	outer := Combine(func() { calls++ }, []Source{inner})

	a.Set(1)
	if calls != 1 {
		t.Errorf("chained calls = %d, want 1", calls)
	}

	inner.End(true)
	a.Set(2)
	if calls != 1 {
		t.Errorf("calls after inner end = %d, want 1", calls)
	}
	outer.End(true)
}

func TestOn(t *testing.T) {
	s := New[string]()
	var got []string
	h := On(func(v string) { got = append(got, v) }, s)

	s.Set("hi")
	s.Set("there")
	h.End(true)
	s.Set("ignored")

	if len(got) != 2 || got[0] != "hi" || got[1] != "there" {
		t.Errorf("On values = %v", got)
	}
}
