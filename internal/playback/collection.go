package playback

import (
	"github.com/anaailiesei/EchoWave/pkg/models"
)

// CollectionPlayer sequences playback over an ordered collection. It owns
// one Unit per track, a logical play position and, when shuffled, a
// permutation mapping play-order positions to unit indexes. The current
// shuffled position is always located by searching the permutation for the
// current unit index, never stored redundantly.
type CollectionPlayer struct {
	collection *models.Collection
	units      []*Unit
	index      int   // index into units of the current item
	order      []int // play-order position -> unit index; nil when not shuffled
	repeatAll  bool
	shuffled   bool
	finished   bool
}

// NewCollectionPlayer builds a player over the collection with every unit at
// the top of its track and the first item current. Completion events from
// all units flow into sink.
func NewCollectionPlayer(collection *models.Collection, sink ListenSink) *CollectionPlayer {
	units := make([]*Unit, 0, len(collection.Tracks))
	for _, track := range collection.Tracks {
		units = append(units, NewUnit(track, sink))
	}
	return &CollectionPlayer{collection: collection, units: units}
}

// Collection returns the collection being played.
func (p *CollectionPlayer) Collection() *models.Collection { return p.collection }

// Current returns the unit at the play position, or nil for an empty
// collection.
func (p *CollectionPlayer) Current() *Unit {
	if len(p.units) == 0 {
		return nil
	}
	return p.units[p.index]
}

// CurrentIndex returns the unit index of the current item.
func (p *CollectionPlayer) CurrentIndex() int { return p.index }

// Size returns the number of items.
func (p *CollectionPlayer) Size() int { return len(p.units) }

// Finished reports whether the play order has been exhausted.
func (p *CollectionPlayer) Finished() bool { return p.finished }

// Shuffled reports whether a shuffle permutation is active.
func (p *CollectionPlayer) Shuffled() bool { return p.shuffled }

// RepeatCollection reports whether the collection restarts on exhaustion.
func (p *CollectionPlayer) RepeatCollection() bool { return p.repeatAll }

// AdvanceTime plays the collection forward by delta simulated seconds. A
// delta spanning several short tracks is resolved as an explicit loop over
// completion segments: each pass advances the current unit, transitions at
// its completion boundary and carries the overshoot into the next item.
// Looping repeat modes are fully contained within the unit, so the loop
// stops there.
func (p *CollectionPlayer) AdvanceTime(delta int) {
	for !p.finished && len(p.units) > 0 {
		unit := p.units[p.index]
		if unit.Paused() {
			return
		}
		oldRemaining := unit.Remaining()
		oldMode := unit.RepeatMode()
		unit.AdvanceTime(delta)
		if oldMode.loops() {
			return
		}

		remainder := oldRemaining - delta
		if oldMode == RepeatOnce && remainder <= 0 {
			// The one repeat pass absorbed part of the delta.
			remainder += unit.Duration()
		}
		if remainder > 0 {
			return
		}

		p.advancePastCompletion()
		delta = -remainder
	}
}

// advancePastCompletion moves past the just-finished current item: on to the
// next item, back to the start of the order under collection-repeat, or into
// the finished state.
func (p *CollectionPlayer) advancePastCompletion() {
	if p.hasNext() {
		p.PlayNext()
		return
	}
	if p.repeatAll {
		p.finished = false
		p.Replay(p.orderStart())
		return
	}
	p.finished = true
	p.Pause()
}

// hasNext reports whether another item follows the current one in play
// order.
func (p *CollectionPlayer) hasNext() bool {
	return p.positionOf(p.index) < len(p.units)-1
}

// positionOf returns the play-order position of a unit index.
func (p *CollectionPlayer) positionOf(unitIndex int) int {
	if !p.shuffled {
		return unitIndex
	}
	for pos, idx := range p.order {
		if idx == unitIndex {
			return pos
		}
	}
	return 0
}

// unitAt returns the unit index at a play-order position.
func (p *CollectionPlayer) unitAt(position int) int {
	if !p.shuffled {
		return position
	}
	return p.order[position]
}

// orderStart returns the unit index of the first item in play order.
func (p *CollectionPlayer) orderStart() int { return p.unitAt(0) }

// PlayNext advances to the next item in play order. At the end of the order
// it restarts under collection-repeat or marks the collection finished. The
// finished item is paused and rewound so a later pass plays it from the top.
func (p *CollectionPlayer) PlayNext() {
	if !p.hasNext() {
		if !p.repeatAll {
			p.finished = true
			return
		}
		p.finished = false
		p.Replay(p.orderStart())
		return
	}
	old := p.index
	p.units[old].Pause()
	p.index = p.unitAt(p.positionOf(old) + 1)
	p.units[old].ResetRemaining()
	p.units[p.index].Resume()
}

// PlayPrevious steps back to the previous item only when the current item
// has not started playing; otherwise it restarts the current item from the
// top. At the very beginning of the order it also restarts the current item.
func (p *CollectionPlayer) PlayPrevious() {
	unit := p.units[p.index]
	position := p.positionOf(p.index)
	if unit.Elapsed() > 0 || position == 0 {
		unit.ResetRemaining()
		unit.Resume()
		return
	}
	unit.Pause()
	unit.ResetRemaining()
	p.index = p.unitAt(position - 1)
	p.units[p.index].Resume()
}

// Replay restarts the collection from the item at the given unit index,
// rewinding every unit.
func (p *CollectionPlayer) Replay(unitIndex int) {
	p.index = unitIndex
	for _, unit := range p.units {
		unit.ResetRemaining()
	}
	p.units[p.index].Resume()
	p.finished = false
}

// Pause pauses the current item.
func (p *CollectionPlayer) Pause() {
	if u := p.Current(); u != nil {
		u.Pause()
	}
}

// Resume resumes the current item.
func (p *CollectionPlayer) Resume() {
	if u := p.Current(); u != nil {
		u.Resume()
	}
}

// SetShuffle toggles shuffling. Enabling generates a fresh permutation from
// seed and revives a unit stalled at its completion point; disabling
// discards the permutation while the logical position keeps referring to the
// same track.
func (p *CollectionPlayer) SetShuffle(seed int64) (bool, error) {
	if p.shuffled {
		p.shuffled = false
		p.order = nil
		p.setShuffledAll(false)
		return false, nil
	}
	order := newShuffleOrder(len(p.units), seed)
	if err := validateShuffleOrder(order, len(p.units)); err != nil {
		return false, err
	}
	p.order = order
	p.shuffled = true
	p.setShuffledAll(true)
	if unit := p.Current(); unit != nil && unit.Remaining() == 0 {
		unit.ResetRemaining()
		unit.Resume()
	}
	return true, nil
}

// setShuffledAll stamps the shuffle flag on every unit for status reporting.
func (p *CollectionPlayer) setShuffledAll(shuffled bool) {
	for _, unit := range p.units {
		unit.SetShuffled(shuffled)
	}
}

// setRepeatAllUnits stamps a repeat mode on every unit.
func (p *CollectionPlayer) setRepeatAllUnits(mode RepeatMode) {
	for _, unit := range p.units {
		unit.SetRepeatMode(mode)
	}
}

// CycleRepeat advances the collection repeat state through
// None -> All -> Current -> None and returns the new mode. All turns on
// collection-repeat and stamps every unit for status reporting; Current pins
// only the present item into an infinite loop. Entering All or Current
// revives a unit stalled at its completion point.
func (p *CollectionPlayer) CycleRepeat() RepeatMode {
	unit := p.Current()
	if unit == nil {
		return RepeatNone
	}
	var mode RepeatMode
	switch unit.RepeatMode() {
	case RepeatAll:
		p.repeatAll = false
		p.setRepeatAllUnits(RepeatNone)
		unit.SetRepeatMode(RepeatCurrent)
		mode = RepeatCurrent
	case RepeatCurrent:
		p.repeatAll = false
		p.setRepeatAllUnits(RepeatNone)
		mode = RepeatNone
	default:
		p.repeatAll = true
		p.setRepeatAllUnits(RepeatAll)
		mode = RepeatAll
	}
	if mode != RepeatNone && unit.Remaining() == 0 {
		unit.ResetRemaining()
		unit.Resume()
	}
	return mode
}

// Status returns the reportable state of the current item, or the empty
// status once the collection has finished.
func (p *CollectionPlayer) Status() Status {
	if p.finished || len(p.units) == 0 {
		return EmptyStatus()
	}
	return p.units[p.index].Status()
}
