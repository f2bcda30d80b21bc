package stream

import (
	"testing"
)

type fakeSource struct{}

func (fakeSource) Watch(fn func()) func() { return func() {} }
func (fakeSource) Ended() bool             { return false }

func TestIsStream(t *testing.T) {
	var nilStream *Stream[int]

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"stream", New(1), true},
		{"empty stream", New[string](), true},
		{"combined", Combine(func() {}, []Source{New(1)}), true},
		{"value source", fakeSource{}, true},
		{"nil", nil, false},
		{"typed nil stream", nilStream, false},
		{"int", 5, false},
		{"string", "x", false},
		{"func", func() int { return 1 }, false},
		{"slice of streams", []any{New(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStream(tt.v); got != tt.want {
				t.Errorf("IsStream() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStream_GetSet(t *testing.T) {
	s := New[int]()
	if s.HasValue() {
		t.Error("new stream without initial value should not have a value")
	}
	if _, ok := s.Peek(); ok {
		t.Error("Peek() ok = true, want false")
	}

	s.Set(3)
	if got := s.Get(); got != 3 {
		t.Errorf("Get() = %d, want 3", got)
	}
	if v, ok := s.Peek(); !ok || v != 3 {
		t.Errorf("Peek() = %d, %v, want 3, true", v, ok)
	}

	s.Update(func(v int) int { return v * 2 })
	if got := s.Get(); got != 6 {
		t.Errorf("Get() after Update = %d, want 6", got)
	}
}

func TestStream_WatchAndCancel(t *testing.T) {
	s := New(0)
	calls := 0
	cancel := s.Watch(func() { calls++ })

	s.Set(1)
	s.Set(2)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	cancel()
	cancel()
	s.Set(3)
	if calls != 2 {
		t.Errorf("calls after cancel = %d, want 2", calls)
	}
	if s.Watchers() != 0 {
		t.Errorf("Watchers() = %d, want 0", s.Watchers())
	}
}

func TestStream_End(t *testing.T) {
	s := New("a")
	calls := 0
	s.Watch(func() { calls++ })

	s.End()
	s.Set("b")

	if !s.Ended() {
		t.Error("Ended() = false after End")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if s.Get() != "a" {
		t.Errorf("Get() = %q, want last value %q", s.Get(), "a")
	}

	s.Watch(func() { calls++ })
	if s.Watchers() != 0 {
		t.Error("Watch after End should not register")
	}
}

func TestStream_WatcherCancelsItselfDuringNotify(t *testing.T) {
	s := New(0)
	var cancel func()
	calls := 0
	cancel = s.Watch(func() {
		calls++
		cancel()
	})
	other := 0
	s.Watch(func() { other++ })

	s.Set(1)
	s.Set(2)

	if calls != 1 {
		t.Errorf("self-cancelling watcher calls = %d, want 1", calls)
	}
	if other != 2 {
		t.Errorf("other watcher calls = %d, want 2", other)
	}
}
