package playback

import (
	"github.com/anaailiesei/EchoWave/pkg/models"
)

// ListenSink receives playback-completion events. count is 1 for a single
// completion and larger when a repeating unit wrapped several times inside
// one time delta.
type ListenSink interface {
	TrackCompleted(track models.Track, count int)
}

// discardSink swallows listen events; used when no sink is wired (tests,
// detached units).
type discardSink struct{}

func (discardSink) TrackCompleted(models.Track, int) {}

// Unit is the playback state machine for a single track: remaining time,
// paused flag and repeat mode. Remaining time is always in [0, duration];
// a unit whose remaining time reaches 0 with RepeatNone pauses itself and
// will not advance again without an explicit resume.
type Unit struct {
	track     models.Track
	remaining int
	paused    bool
	mode      RepeatMode
	shuffled  bool // status reporting only, owned by the collection
	completed bool // RepeatNone emits at most one listen per load
	sink      ListenSink
}

// NewUnit creates a playing (not paused) unit with the full track duration
// remaining. Completion events are delivered to sink.
func NewUnit(track models.Track, sink ListenSink) *Unit {
	if sink == nil {
		sink = discardSink{}
	}
	return &Unit{track: track, remaining: track.Duration, sink: sink}
}

// Track returns the track the unit plays.
func (u *Unit) Track() models.Track { return u.track }

// Remaining returns the remaining play time.
func (u *Unit) Remaining() int { return u.remaining }

// Duration returns the full track duration.
func (u *Unit) Duration() int { return u.track.Duration }

// Elapsed returns how much of the track has been played.
func (u *Unit) Elapsed() int { return u.track.Duration - u.remaining }

// Paused reports whether the unit is paused.
func (u *Unit) Paused() bool { return u.paused }

// RepeatMode returns the current repeat mode.
func (u *Unit) RepeatMode() RepeatMode { return u.mode }

// SetRepeatMode sets the repeat mode directly. Collections use this to stamp
// RepeatAll/RepeatCurrent onto their units.
func (u *Unit) SetRepeatMode(mode RepeatMode) { u.mode = mode }

// CycleRepeat advances the repeat mode through the standalone sequence
// None -> Once -> Infinite -> None and returns the new mode.
func (u *Unit) CycleRepeat() RepeatMode {
	u.mode = u.mode.nextStandalone()
	return u.mode
}

// AdvanceTime plays the unit forward by delta simulated seconds, emitting a
// listen event for every completed pass according to the repeat mode. A
// paused unit ignores the call. Repeating modes wrap the remaining time back
// into the track and report the number of completed loops in bulk, so a huge
// delta costs one event, not one per loop.
func (u *Unit) AdvanceTime(delta int) {
	if u.paused || delta < 0 {
		return
	}
	newRemaining := u.remaining - delta
	duration := u.track.Duration

	switch {
	case u.mode == RepeatOnce:
		if newRemaining <= 0 {
			// The track completed mid-interval; the overflow continues into
			// a fresh, non-repeating pass from the top.
			u.mode = RepeatNone
			u.sink.TrackCompleted(u.track, 1)
			newRemaining += duration
			if newRemaining <= 0 {
				// The overflow swallowed the repeat pass as well.
				newRemaining = 0
				u.completed = true
				u.sink.TrackCompleted(u.track, 1)
			}
		}
	case u.mode.loops():
		if newRemaining <= 0 {
			loops := (-newRemaining)/duration + 1
			u.sink.TrackCompleted(u.track, loops)
			newRemaining = ((newRemaining % duration) + duration) % duration
			if newRemaining == 0 {
				// The delta landed exactly on a loop boundary; the next pass
				// starts from the top, still playing.
				newRemaining = duration
			}
		}
	default:
		if newRemaining <= 0 {
			newRemaining = 0
			if !u.completed {
				u.completed = true
				u.sink.TrackCompleted(u.track, 1)
			}
		}
	}

	u.remaining = newRemaining
	u.checkFinished()
}

// checkFinished pauses the unit once the remaining time hits exactly 0.
// Must be called after every remaining-time update.
func (u *Unit) checkFinished() {
	if u.remaining == 0 {
		u.paused = true
	}
}

// Pause stops the unit from advancing.
func (u *Unit) Pause() { u.paused = true }

// Resume lets the unit advance again.
func (u *Unit) Resume() { u.paused = false }

// ResetRemaining rewinds the unit to the top of the track and re-arms the
// completion latch. Used by prev/seek and by collection restarts.
func (u *Unit) ResetRemaining() {
	u.remaining = u.track.Duration
	u.completed = false
}

// SkipToEnd forces the unit to its finished state without emitting a listen:
// remaining time 0, repeat off. Used by "next" on a standalone track.
func (u *Unit) SkipToEnd() {
	u.mode = RepeatNone
	u.remaining = 0
	u.completed = true
	u.checkFinished()
}

// AddForward seeks forward by n seconds. The caller guarantees the seek does
// not cross the completion boundary.
func (u *Unit) AddForward(n int) {
	u.remaining -= n
	u.checkFinished()
}

// AddBackward seeks backward by n seconds. The caller guarantees at least n
// seconds have elapsed.
func (u *Unit) AddBackward(n int) {
	u.remaining += n
}

// SetShuffled records whether the owning collection is shuffled. Status
// reporting only; it does not change unit behaviour.
func (u *Unit) SetShuffled(shuffled bool) { u.shuffled = shuffled }

// Status returns the reportable state of the unit.
func (u *Unit) Status() Status {
	return Status{
		Name:         u.track.Name,
		RemainedTime: u.remaining,
		Repeat:       u.mode.String(),
		Shuffle:      u.shuffled,
		Paused:       u.paused,
	}
}
