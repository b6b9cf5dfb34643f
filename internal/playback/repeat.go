package playback

// RepeatMode is the closed set of repeat behaviours a playing unit can be in.
// Standalone tracks cycle None -> Once -> Infinite -> None; tracks owned by a
// collection cycle None -> All -> Current -> None.
type RepeatMode int

const (
	// RepeatNone plays the unit once and stops at the end.
	RepeatNone RepeatMode = iota
	// RepeatOnce replays the unit one extra time, then drops to RepeatNone.
	RepeatOnce
	// RepeatInfinite loops the unit forever.
	RepeatInfinite
	// RepeatAll restarts the owning collection when its order is exhausted.
	// At the unit level it behaves like RepeatNone; it exists for status
	// reporting while the collection drives the looping.
	RepeatAll
	// RepeatCurrent loops just the current unit of a collection forever.
	RepeatCurrent
)

// String returns the user-facing label for the mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOnce:
		return "Repeat Once"
	case RepeatInfinite:
		return "Repeat Infinite"
	case RepeatAll:
		return "Repeat All"
	case RepeatCurrent:
		return "Repeat Current Song"
	default:
		return "No Repeat"
	}
}

// loops reports whether the mode keeps looping fully inside the unit, so the
// owning collection never advances past it.
func (m RepeatMode) loops() bool {
	return m == RepeatInfinite || m == RepeatCurrent
}

// nextStandalone returns the successor in the standalone cycle.
func (m RepeatMode) nextStandalone() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatOnce
	case RepeatOnce:
		return RepeatInfinite
	default:
		return RepeatNone
	}
}
