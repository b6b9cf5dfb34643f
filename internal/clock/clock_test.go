package clock

import (
	"errors"
	"testing"
)

type recordingListener struct {
	name   string
	deltas []int
	order  *[]string
}

func (r *recordingListener) OnTimeChanged(delta int) {
	r.deltas = append(r.deltas, delta)
	if r.order != nil {
		*r.order = append(*r.order, r.name)
	}
}

func TestClockAdvance(t *testing.T) {
	c := New()

	delta, err := c.Advance(10)
	if err != nil {
		t.Fatalf("Advance(10) failed: %v", err)
	}
	if delta != 10 {
		t.Errorf("Expected delta 10, got %d", delta)
	}

	delta, err = c.Advance(25)
	if err != nil {
		t.Fatalf("Advance(25) failed: %v", err)
	}
	if delta != 15 {
		t.Errorf("Expected delta 15, got %d", delta)
	}
	if c.Now() != 25 {
		t.Errorf("Expected current time 25, got %d", c.Now())
	}
}

func TestClockRejectsNonMonotonic(t *testing.T) {
	c := New()
	if _, err := c.Advance(100); err != nil {
		t.Fatalf("Advance(100) failed: %v", err)
	}

	_, err := c.Advance(99)
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("Expected ErrInvalidTimestamp, got %v", err)
	}
	if c.Now() != 100 {
		t.Errorf("Failed advance must not move time, got %d", c.Now())
	}
}

func TestClockZeroDelta(t *testing.T) {
	c := New()
	l := &recordingListener{}
	c.Register(l)

	if _, err := c.Advance(0); err != nil {
		t.Fatalf("Advance(0) failed: %v", err)
	}
	if len(l.deltas) != 1 || l.deltas[0] != 0 {
		t.Errorf("Expected a single zero delta notification, got %v", l.deltas)
	}
}

func TestClockNotifiesInRegistrationOrder(t *testing.T) {
	c := New()
	var order []string
	first := &recordingListener{name: "first", order: &order}
	second := &recordingListener{name: "second", order: &order}
	c.Register(first)
	c.Register(second)

	if _, err := c.Advance(5); err != nil {
		t.Fatalf("Advance(5) failed: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Expected notification order [first second], got %v", order)
	}
	if len(first.deltas) != 1 || first.deltas[0] != 5 {
		t.Errorf("Expected first listener delta [5], got %v", first.deltas)
	}
}

func TestClockUnregister(t *testing.T) {
	c := New()
	l := &recordingListener{}
	c.Register(l)
	c.Unregister(l)

	if _, err := c.Advance(5); err != nil {
		t.Fatalf("Advance(5) failed: %v", err)
	}
	if len(l.deltas) != 0 {
		t.Errorf("Unregistered listener must not be notified, got %v", l.deltas)
	}
}

func TestClockReset(t *testing.T) {
	c := New()
	l := &recordingListener{}
	c.Register(l)
	if _, err := c.Advance(50); err != nil {
		t.Fatalf("Advance(50) failed: %v", err)
	}

	c.Reset()

	if c.Now() != 0 {
		t.Errorf("Expected time 0 after reset, got %d", c.Now())
	}
	if _, err := c.Advance(10); err != nil {
		t.Fatalf("Advance after reset failed: %v", err)
	}
	if len(l.deltas) != 1 {
		t.Errorf("Listeners must be dropped on reset, got %v", l.deltas)
	}
}
