// Package ads tracks the per-listener ad-interruption window: whether one is
// open, its price and how much of it is left. It splits incoming time deltas
// at the ad boundary so the playback chain only ever sees time during which
// the player actually advances.
package ads

// Split is the decomposition of one time delta at the ad boundary.
// Before + Ad + After always equals the original delta. Before is normal
// playback time ahead of the ad, Ad is calendar time consumed by the ad
// itself (playback does not advance), After is playback time following a
// fully elapsed ad.
type Split struct {
	Before int
	Ad     int
	After  int
	// Closed reports that the window fully elapsed inside this split; Price
	// carries the ad price to settle against the free-listen ledger.
	Closed bool
	Price  int
}

// Controller holds the ad window state for one listener session. An ad
// occupies calendar time between the moment the current track is one second
// from completion and the track's actual completion, which is why the window
// only interrupts deltas large enough to finish the track.
type Controller struct {
	duration  int
	active    bool
	price     int
	remaining int
}

// NewController creates a controller whose windows last duration simulated
// seconds.
func NewController(duration int) *Controller {
	return &Controller{duration: duration}
}

// Active reports whether an ad window is open.
func (c *Controller) Active() bool { return c.active }

// Price returns the price of the open window, 0 when inactive.
func (c *Controller) Price() int { return c.price }

// Remaining returns the unconsumed window time, 0 when inactive.
func (c *Controller) Remaining() int { return c.remaining }

// Insert opens an ad window at the given price. Premium listeners never see
// ads; the caller checks that before calling. An already open window is
// replaced.
func (c *Controller) Insert(price int) {
	c.active = true
	c.price = price
	c.remaining = c.duration
}

// Remove discards any pending window without settling revenue. Loading a new
// source cancels ads this way.
func (c *Controller) Remove() {
	c.active = false
	c.price = 0
	c.remaining = 0
}

// SplitDelta decomposes delta around the ad window given the current unit's
// remaining play time. Without an open window, or when the track finishes
// strictly after the delta, everything passes through as Before. Otherwise
// playback advances to one second before the track's completion, the window
// consumes what it can of the rest, and any leftover returns to normal
// playback. A window that fully elapses inside the call is cleared and
// reported via Closed/Price so the caller can settle the free-listen ledger.
func (c *Controller) SplitDelta(delta, unitRemaining int) Split {
	if !c.active || delta < unitRemaining {
		return Split{Before: delta}
	}

	before := unitRemaining - 1
	if before < 0 {
		before = 0
	}
	rest := delta - before
	consumed := min(c.remaining, rest)
	c.remaining -= consumed

	split := Split{Before: before, Ad: consumed, After: rest - consumed}
	if c.remaining == 0 {
		split.Closed = true
		split.Price = c.price
		c.Remove()
	}
	return split
}
