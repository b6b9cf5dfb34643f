// Package clock holds the simulated session time. Time only moves when an
// external caller supplies a new timestamp; every registered listener is
// notified synchronously with the elapsed delta before Advance returns.
package clock

import (
	"errors"
	"fmt"
)

// ErrInvalidTimestamp is returned when Advance is called with a timestamp
// earlier than the current simulated time.
var ErrInvalidTimestamp = errors.New("timestamp precedes current simulated time")

// Listener receives the elapsed delta every time the clock advances.
type Listener interface {
	OnTimeChanged(delta int)
}

// Clock is the single process-wide source of simulated time for a session.
// It is not safe for concurrent use.
type Clock struct {
	current   int
	listeners []Listener
}

// New creates a clock starting at time 0.
func New() *Clock {
	return &Clock{}
}

// Now returns the current simulated time.
func (c *Clock) Now() int { return c.current }

// Advance moves the clock to the given timestamp and notifies all listeners,
// in registration order, with the elapsed delta. Timestamps must be
// monotonically non-decreasing.
func (c *Clock) Advance(timestamp int) (int, error) {
	if timestamp < c.current {
		return 0, fmt.Errorf("advance to %d from %d: %w", timestamp, c.current, ErrInvalidTimestamp)
	}
	delta := timestamp - c.current
	c.current = timestamp
	for _, l := range c.listeners {
		l.OnTimeChanged(delta)
	}
	return delta, nil
}

// Register appends a listener. Listeners are notified in registration order.
func (c *Clock) Register(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Unregister removes a previously registered listener.
func (c *Clock) Unregister(l Listener) {
	for i, registered := range c.listeners {
		if registered == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// Reset returns the clock to time 0 and drops all listeners. Used between
// independent simulated sessions.
func (c *Clock) Reset() {
	c.current = 0
	c.listeners = nil
}
