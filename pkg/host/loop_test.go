package host

import (
	"errors"
	"sync"
	"testing"
)

func TestLoop_DoRunsOnLoop(t *testing.T) {
	l := NewLoop(8, nil)
	defer l.Close()

	if l.OnLoop() {
		t.Fatal("test goroutine reported as loop")
	}

	var onLoop bool
	if err := l.Do(func() { onLoop = l.OnLoop() }); err != nil {
		t.Fatal(err)
	}
	if !onLoop {
		t.Error("Do did not run on the loop goroutine")
	}
}

func TestLoop_NestedDoRunsInline(t *testing.T) {
	l := NewLoop(0, nil)
	defer l.Close()

	var order []int
	err := l.Do(func() {
		order = append(order, 1)
		if err := l.Do(func() { order = append(order, 2) }); err != nil {
			t.Error(err)
		}
		order = append(order, 3)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestLoop_PostPreservesOrder(t *testing.T) {
	l := NewLoop(16, nil)
	defer l.Close()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		if err := l.Post(func() { got = append(got, i) }); err != nil {
			t.Fatal(err)
		}
	}
	// Do is queued behind every Post.
	var n int
	if err := l.Do(func() { n = len(got) }); err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("len = %d, want 10", n)
	}
	for i, v := range got {
		if v != i {
			t.Errorf("got = %v, not in order", got)
			break
		}
	}
}

func TestLoop_PanicIsRecovered(t *testing.T) {
	l := NewLoop(1, nil)
	defer l.Close()

	if err := l.Do(func() { panic("boom") }); err == nil {
		t.Error("Do() error = nil after panic")
	}
	if err := l.Do(func() {}); err != nil {
		t.Errorf("loop unusable after panic: %v", err)
	}
}

func TestLoop_Closed(t *testing.T) {
	l := NewLoop(1, nil)
	l.Close()
	l.Close()

	if !l.Closed() {
		t.Error("Closed() = false")
	}
	if err := l.Do(func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("Do() error = %v, want ErrLoopClosed", err)
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("Post() error = %v, want ErrLoopClosed", err)
	}
}

func TestLoop_ConcurrentProducers(t *testing.T) {
	l := NewLoop(4, nil)
	defer l.Close()

	count := 0
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = l.Do(func() { count++ })
			}
		}()
	}
	wg.Wait()

	var final int
	_ = l.Do(func() { final = count })
	if final != 400 {
		t.Errorf("count = %d, want 400", final)
	}
}
