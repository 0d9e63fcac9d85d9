// Package cursor implements the bounded week index that drives every context-dependent
// request and display.
package cursor

import (
	"fmt"
	"sync"
)

// Listener is called with the new week after every change.
type Listener func(week int)

// Cursor is a week index >= 1. Once a parsed schedule bound is known the index is
// clamped to [1, bound]; before that it is only clamped from below.
type Cursor struct {
	mu        sync.Mutex
	value     int
	bound     int // 0 until a parsed schedule is known
	nextID    int
	listeners []subscription

	// Changes made while listeners run are queued and delivered in order by the
	// delivery already in progress.
	pending    []int
	delivering bool
}

type subscription struct {
	id int
	fn Listener
}

// New creates a cursor positioned at week 1 with no known bound.
func New() *Cursor {
	return &Cursor{value: 1}
}

// Value returns the current week.
func (c *Cursor) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Bound returns the parsed bound and whether one is known.
func (c *Cursor) Bound() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bound, c.bound > 0
}

// Label returns the current week as the two-digit label the dashboard shows.
func (c *Cursor) Label() string {
	return fmt.Sprintf("%02d", c.Value())
}

// Set moves the cursor to n, clamped. Listeners run before Set returns unless a
// delivery is already in progress, in which case that delivery runs them.
func (c *Cursor) Set(n int) int {
	c.mu.Lock()
	v := c.clampLocked(n)
	changed := v != c.value
	c.value = v
	c.mu.Unlock()

	if changed {
		c.notify(v)
	}
	return v
}

// Step moves the cursor by delta, clamped.
func (c *Cursor) Step(delta int) int {
	c.mu.Lock()
	v := c.clampLocked(c.value + delta)
	changed := v != c.value
	c.value = v
	c.mu.Unlock()

	if changed {
		c.notify(v)
	}
	return v
}

// SetBound records the number of parsed weeks. A count below 1 still yields bound 1.
// The current value is re-clamped against the new bound.
func (c *Cursor) SetBound(weeks int) int {
	if weeks < 1 {
		weeks = 1
	}

	c.mu.Lock()
	c.bound = weeks
	v := c.clampLocked(c.value)
	changed := v != c.value
	c.value = v
	c.mu.Unlock()

	if changed {
		c.notify(v)
	}
	return v
}

// Subscribe registers a listener and returns a function that removes it.
func (c *Cursor) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Cursor) clampLocked(n int) int {
	if n < 1 {
		n = 1
	}
	if c.bound > 0 && n > c.bound {
		n = c.bound
	}
	return n
}

// notify runs listeners outside c.mu so they may read or move the cursor.
func (c *Cursor) notify(week int) {
	c.mu.Lock()
	c.pending = append(c.pending, week)
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true

	for len(c.pending) > 0 {
		w := c.pending[0]
		c.pending = c.pending[1:]
		subs := make([]subscription, len(c.listeners))
		copy(subs, c.listeners)
		c.mu.Unlock()

		for _, s := range subs {
			s.fn(w)
		}

		c.mu.Lock()
	}
	c.delivering = false
	c.mu.Unlock()
}
