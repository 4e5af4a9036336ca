// Package busy marks elements as busy while a request is in flight, but
// only once the request has been running for longer than a short delay,
// so fast responses never flicker.
//
// The controller runs on the Bubble Tea event loop. BeforeRequest arms a
// timer by returning a tea.Cmd; the resulting ExpiredMsg must be fed back
// through Update. Because arming, expiry and AfterRequest are all
// processed serially, a request that finishes before its ExpiredMsg is
// delivered simply leaves that message stale, and it is dropped.
package busy

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultDelay is how long a request must be in flight before the
	// marker is shown.
	DefaultDelay = 150 * time.Millisecond
	// MarkerClass is the class added to busy elements.
	MarkerClass = "busy"
)

// Phase is the per-element state.
type Phase int

const (
	Idle Phase = iota
	Pending
	Busy
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Busy:
		return "busy"
	default:
		return "idle"
	}
}

// Target is an element that can carry the busy marker.
type Target interface {
	ID() string
	AddClass(name string)
	RemoveClass(name string)
}

// ExpiredMsg is delivered when an element's delay timer fires.
type ExpiredMsg struct {
	ID    string
	Timer uint64
}

// Scheduler produces a command that sleeps for d and then returns fn's message.
// tea.Tick has this shape.
type Scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces tea.Tick, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.schedule = s
		}
	}
}

type entry struct {
	target Target
	phase  Phase
	timer  uint64 // 0 when no timer is armed
}

// Controller tracks Idle/Pending/Busy per element id. Idle elements are
// not stored. Not safe for concurrent use.
type Controller struct {
	delay    time.Duration
	schedule Scheduler
	nextID   uint64
	entries  map[string]*entry
}

// New creates a controller. A non-positive delay means DefaultDelay.
func New(delay time.Duration, opts ...Option) *Controller {
	if delay <= 0 {
		delay = DefaultDelay
	}
	c := &Controller{
		delay:    delay,
		schedule: tea.Tick,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeforeRequest moves t to Pending and returns the timer command.
// A Pending element gets a fresh timer and the old one goes stale. A Busy
// element stays Busy and no timer is armed.
func (c *Controller) BeforeRequest(t Target) tea.Cmd {
	id := t.ID()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{}
		c.entries[id] = e
	}
	e.target = t
	if e.phase == Busy {
		return nil
	}

	c.nextID++
	e.phase = Pending
	e.timer = c.nextID

	timer := e.timer
	return c.schedule(c.delay, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id, Timer: timer}
	})
}

// AfterRequest returns t to Idle. The marker is removed and any timer is
// forgotten regardless of the current phase, so calling it more than once
// is harmless.
func (c *Controller) AfterRequest(t Target) {
	t.RemoveClass(MarkerClass)
	delete(c.entries, t.ID())
}

// Update handles ExpiredMsg. It reports whether msg belonged to the
// controller, including stale expiries that were dropped.
func (c *Controller) Update(msg tea.Msg) bool {
	m, ok := msg.(ExpiredMsg)
	if !ok {
		return false
	}
	e, ok := c.entries[m.ID]
	if !ok || e.phase != Pending || e.timer != m.Timer {
		return true
	}
	e.phase = Busy
	e.timer = 0
	e.target.AddClass(MarkerClass)
	return true
}

// Phase returns the phase of the element with the given id.
func (c *Controller) Phase(id string) Phase {
	if e, ok := c.entries[id]; ok {
		return e.phase
	}
	return Idle
}

// IsBusy reports whether the element currently carries the marker.
func (c *Controller) IsBusy(id string) bool { return c.Phase(id) == Busy }

// HasTimer reports whether the element has an armed timer.
func (c *Controller) HasTimer(id string) bool {
	e, ok := c.entries[id]
	return ok && e.timer != 0
}

// Len returns the number of elements that are Pending or Busy.
func (c *Controller) Len() int { return len(c.entries) }
