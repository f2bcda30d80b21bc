package stream

import "sync"

// Combined is a handle derived from several sources. It fires whenever any
// input fires, until End detaches it.
type Combined struct {
	hub

	fn func()

	stateMu    sync.Mutex
	cancels    []func()
	delivering int
	pendingEnd bool
	detached   bool
}

var _ Source = (*Combined)(nil)

// Combine wires fn to every distinct dep. A source listed more than once is
// watched once, so fn runs once per emission. It does not fire on creation.
// Combining zero sources yields a handle that is already ended.
func Combine(fn func(), deps []Source) *Combined {
	c := &Combined{fn: fn}
	if len(deps) == 0 {
		c.detached = true
		c.end()
		return c
	}

	c.cancels = make([]func(), 0, len(deps))
	seen := make(map[Source]struct{}, len(deps))
	for _, d := range deps {
		if d == nil {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		c.cancels = append(c.cancels, d.Watch(c.fire))
	}
	return c
}

// On calls fn with every new value of s.
func On[T any](fn func(T), s *Stream[T]) *Combined {
	return Combine(func() { fn(s.Get()) }, []Source{s})
}

func (c *Combined) fire() {
	c.stateMu.Lock()
	if c.detached {
		c.stateMu.Unlock()
		return
	}
	c.delivering++
	c.stateMu.Unlock()

	defer c.finishDelivery()

	if c.fn != nil {
		c.fn()
	}
	c.notify()
}

func (c *Combined) finishDelivery() {
	c.stateMu.Lock()
	c.delivering--
	finish := c.delivering == 0 && c.pendingEnd
	c.stateMu.Unlock()

	if finish {
		c.detach()
	}
}

// End releases the handle and detaches it from every input.
// A forced end takes effect immediately. Otherwise an end requested while
// the callback is running waits for that delivery to return.
func (c *Combined) End(forced bool) {
	c.stateMu.Lock()
	if c.detached {
		c.stateMu.Unlock()
		return
	}
	if !forced && c.delivering > 0 {
		c.pendingEnd = true
		c.stateMu.Unlock()
		return
	}
	c.stateMu.Unlock()

	c.detach()
}

func (c *Combined) detach() {
	c.stateMu.Lock()
	if c.detached {
		c.stateMu.Unlock()
		return
	}
	c.detached = true
	cancels := c.cancels
	c.cancels = nil
	c.pendingEnd = false
	c.stateMu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	c.end()
}

// Watch implements Source, so combined handles can be combined again.
func (c *Combined) Watch(fn func()) func() {
	return c.watch(fn)
}

// Ended implements Source.
func (c *Combined) Ended() bool {
	return c.isEnded()
}
