package playback

import (
	"testing"

	"github.com/anaailiesei/EchoWave/pkg/models"
)

type countingSink struct {
	events []listenEvent
}

type listenEvent struct {
	track string
	count int
}

func (s *countingSink) TrackCompleted(track models.Track, count int) {
	s.events = append(s.events, listenEvent{track: track.Name, count: count})
}

func (s *countingSink) total() int {
	sum := 0
	for _, e := range s.events {
		sum += e.count
	}
	return sum
}

func song(name string, duration int) models.Track {
	return models.Track{
		Name:     name,
		Owner:    "The Owner",
		Duration: duration,
		Kind:     models.KindSong,
		Genre:    "Pop",
		Album:    "The Album",
	}
}

func TestUnitAdvanceNoRepeat(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 30), sink)

	u.AdvanceTime(10)
	if u.Remaining() != 20 {
		t.Errorf("Expected remaining 20, got %d", u.Remaining())
	}
	if u.Paused() {
		t.Error("Unit should still be playing")
	}

	u.AdvanceTime(25)
	if u.Remaining() != 0 {
		t.Errorf("Expected remaining 0, got %d", u.Remaining())
	}
	if !u.Paused() {
		t.Error("A finished unit must pause itself")
	}
	if sink.total() != 1 {
		t.Errorf("Expected exactly 1 listen, got %d", sink.total())
	}

	// A finished, non-repeating unit does not advance or emit again.
	u.AdvanceTime(100)
	if u.Remaining() != 0 || sink.total() != 1 {
		t.Errorf("Finished unit moved: remaining=%d listens=%d", u.Remaining(), sink.total())
	}
}

func TestUnitOnceThenStop(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 20), sink)
	u.SetRepeatMode(RepeatOnce)

	u.AdvanceTime(25)

	if u.RepeatMode() != RepeatNone {
		t.Errorf("Expected RepeatNone after the extra pass, got %v", u.RepeatMode())
	}
	if u.Remaining() != 15 {
		t.Errorf("Expected remaining 15, got %d", u.Remaining())
	}
	if sink.total() != 1 {
		t.Errorf("Expected exactly 1 listen, got %d", sink.total())
	}
}

func TestUnitOnceExactBoundaryRestarts(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 20), sink)
	u.SetRepeatMode(RepeatOnce)

	u.AdvanceTime(20)

	if u.RepeatMode() != RepeatNone {
		t.Errorf("Expected RepeatNone after the boundary, got %v", u.RepeatMode())
	}
	if u.Remaining() != 20 {
		t.Errorf("Expected full duration remaining, got %d", u.Remaining())
	}
	if u.Paused() {
		t.Error("Expected the repeat pass to keep playing")
	}
	if sink.total() != 1 {
		t.Errorf("Expected exactly 1 listen, got %d", sink.total())
	}
}

func TestUnitOnceOvershootsBothPasses(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 20), sink)
	u.SetRepeatMode(RepeatOnce)

	u.AdvanceTime(45)

	if u.Remaining() != 0 {
		t.Errorf("Expected remaining 0, got %d", u.Remaining())
	}
	if !u.Paused() {
		t.Error("Expected the unit to pause at the end")
	}
	if sink.total() != 2 {
		t.Errorf("Expected 2 listens for 2 completed passes, got %d", sink.total())
	}
}

func TestUnitInfiniteBulkLoops(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 10), sink)
	u.SetRepeatMode(RepeatInfinite)

	u.AdvanceTime(35)

	if u.Remaining() != 5 {
		t.Errorf("Expected remaining 5, got %d", u.Remaining())
	}
	if sink.total() != 3 {
		t.Errorf("Expected 3 listens (completions at 10, 20, 30), got %d", sink.total())
	}
	if len(sink.events) != 1 {
		t.Errorf("Loop listens must be emitted in bulk, got %d events", len(sink.events))
	}
}

func TestUnitInfiniteExactWrap(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 10), sink)
	u.SetRepeatMode(RepeatInfinite)

	u.AdvanceTime(20)

	if u.Remaining() != 10 {
		t.Errorf("Expected a fresh pass with 10 remaining, got %d", u.Remaining())
	}
	if u.Paused() {
		t.Error("A looping unit must keep playing across a loop boundary")
	}
	if sink.total() != 2 {
		t.Errorf("Expected 2 listens, got %d", sink.total())
	}

	// Time after the boundary keeps flowing into the next pass.
	u.AdvanceTime(5)
	if u.Remaining() != 5 {
		t.Errorf("Expected remaining 5, got %d", u.Remaining())
	}
	if sink.total() != 2 {
		t.Errorf("Expected no extra listens, got %d", sink.total())
	}
}

func TestUnitCurrentExactBoundaryKeepsPlaying(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 10), sink)
	u.SetRepeatMode(RepeatCurrent)

	u.AdvanceTime(10)

	if u.Remaining() != 10 {
		t.Errorf("Expected a fresh pass with 10 remaining, got %d", u.Remaining())
	}
	if u.Paused() {
		t.Error("A looping unit must keep playing across a loop boundary")
	}
	if sink.total() != 1 {
		t.Errorf("Expected exactly 1 listen, got %d", sink.total())
	}
}

func TestUnitMonotonicBound(t *testing.T) {
	deltas := []int{3, 0, 7, 50, 1, 1000}
	for _, mode := range []RepeatMode{RepeatNone, RepeatOnce, RepeatInfinite, RepeatCurrent} {
		u := NewUnit(song("Track", 13), nil)
		u.SetRepeatMode(mode)
		for _, d := range deltas {
			u.AdvanceTime(d)
			if u.Remaining() < 0 || u.Remaining() > u.Duration() {
				t.Fatalf("mode %v: remaining %d out of [0, %d]", mode, u.Remaining(), u.Duration())
			}
		}
	}
}

func TestUnitPauseStopsAdvance(t *testing.T) {
	u := NewUnit(song("Track", 30), nil)
	u.Pause()
	u.AdvanceTime(10)
	if u.Remaining() != 30 {
		t.Errorf("Paused unit advanced: remaining %d", u.Remaining())
	}

	u.Resume()
	u.AdvanceTime(10)
	if u.Remaining() != 20 {
		t.Errorf("Expected remaining 20 after resume, got %d", u.Remaining())
	}
}

func TestUnitSkipToEnd(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 30), sink)
	u.SetRepeatMode(RepeatInfinite)

	u.SkipToEnd()

	if u.Remaining() != 0 {
		t.Errorf("Expected remaining 0, got %d", u.Remaining())
	}
	if u.RepeatMode() != RepeatNone {
		t.Errorf("SkipToEnd must clear repeat, got %v", u.RepeatMode())
	}
	if !u.Paused() {
		t.Error("Skipped unit must be paused")
	}
	if sink.total() != 0 {
		t.Errorf("A forced skip must not emit listens, got %d", sink.total())
	}
}

func TestUnitSeek(t *testing.T) {
	u := NewUnit(song("Episode", 300), nil)
	u.AdvanceTime(100) // elapsed 100, remaining 200

	u.AddForward(90)
	if u.Remaining() != 110 {
		t.Errorf("Expected remaining 110 after forward, got %d", u.Remaining())
	}

	u.AddBackward(90)
	if u.Remaining() != 200 {
		t.Errorf("Expected remaining 200 after backward, got %d", u.Remaining())
	}
}

func TestUnitResetReArmsListenLatch(t *testing.T) {
	sink := &countingSink{}
	u := NewUnit(song("Track", 10), sink)

	u.AdvanceTime(10)
	u.ResetRemaining()
	u.Resume()
	u.AdvanceTime(10)

	if sink.total() != 2 {
		t.Errorf("Expected a listen per full natural pass, got %d", sink.total())
	}
}

func TestUnitCycleRepeatStandalone(t *testing.T) {
	u := NewUnit(song("Track", 30), nil)

	want := []RepeatMode{RepeatOnce, RepeatInfinite, RepeatNone, RepeatOnce}
	for i, expected := range want {
		if got := u.CycleRepeat(); got != expected {
			t.Fatalf("cycle %d: expected %v, got %v", i, expected, got)
		}
	}
}

func TestRepeatModeLabels(t *testing.T) {
	labels := map[RepeatMode]string{
		RepeatNone:     "No Repeat",
		RepeatOnce:     "Repeat Once",
		RepeatInfinite: "Repeat Infinite",
		RepeatAll:      "Repeat All",
		RepeatCurrent:  "Repeat Current Song",
	}
	for mode, label := range labels {
		if mode.String() != label {
			t.Errorf("Expected %q, got %q", label, mode.String())
		}
	}
}

func TestUnitStatus(t *testing.T) {
	u := NewUnit(song("Track", 30), nil)
	u.AdvanceTime(12)

	status := u.Status()
	if status.Name != "Track" || status.RemainedTime != 18 {
		t.Errorf("Unexpected status %+v", status)
	}
	if status.Repeat != "No Repeat" || status.Shuffle || status.Paused {
		t.Errorf("Unexpected status flags %+v", status)
	}
}
