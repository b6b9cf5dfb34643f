// Package session ties the engine together per listener: one Session owns
// the playing source, the ad window, the listen ledger and the saved
// podcast positions, and reacts to clock advances. The Manager owns the
// clock, the shared revenue allocator and every session of the run.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anaailiesei/EchoWave/internal/ads"
	"github.com/anaailiesei/EchoWave/internal/ledger"
	"github.com/anaailiesei/EchoWave/internal/playback"
	"github.com/anaailiesei/EchoWave/internal/revenue"
	"github.com/anaailiesei/EchoWave/pkg/models"
)

// ErrNoListenData is returned by Wrapped when the listener has not
// completed a single track.
var ErrNoListenData = errors.New("session: no listen data")

// Library resolves source names to catalog entries.
type Library interface {
	Track(name string) (models.Track, bool)
	Collection(name string) (models.Collection, bool)
}

// OwnerSink receives the content-owner side of every completed listen.
type OwnerSink interface {
	OwnerListen(track models.Track, listener string, count int)
}

// Options carries the tunable engine constants.
type Options struct {
	// SeekStep is how far Forward and Backward move inside an episode.
	SeekStep int
	// AdDuration is how long an inserted ad window lasts.
	AdDuration int
	// PremiumCredit is the pool settled per premium subscription.
	PremiumCredit int64
}

// DefaultOptions returns the stock engine constants.
func DefaultOptions() Options {
	return Options{SeekStep: 90, AdDuration: 10, PremiumCredit: 1_000_000}
}

// Session is one listener's playback context.
type Session struct {
	id       string
	listener string
	lib      Library
	opts     Options

	unit   *playback.Unit
	player *playback.CollectionPlayer

	ads      *ads.Controller
	ledger   *ledger.Ledger
	alloc    *revenue.Allocator
	owners   OwnerSink
	progress *ProgressStore

	everPremium bool
	log         *logrus.Entry
}

// NewSession creates an idle session for the listener.
func NewSession(listener string, lib Library, alloc *revenue.Allocator, owners OwnerSink, opts Options) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		listener: listener,
		lib:      lib,
		opts:     opts,
		ads:      ads.NewController(opts.AdDuration),
		ledger:   ledger.NewLedger(),
		alloc:    alloc,
		owners:   owners,
		progress: NewProgressStore(),
		log: logrus.WithFields(logrus.Fields{
			"component": "session",
			"session":   id,
			"listener":  listener,
		}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Listener returns the listener name.
func (s *Session) Listener() string { return s.listener }

// Premium reports the listener's current subscription state.
func (s *Session) Premium() bool { return s.ledger.Premium() }

// Ledger exposes the listener's listen counters.
func (s *Session) Ledger() *ledger.Ledger { return s.ledger }

// TrackCompleted routes playback completions into the listener's ledger
// and the content-owner aggregates.
func (s *Session) TrackCompleted(track models.Track, count int) {
	s.ledger.AddListen(track, count)
	if s.owners != nil {
		s.owners.OwnerListen(track, s.listener, count)
	}
	s.log.WithFields(logrus.Fields{"track": track.Name, "count": count}).Debug("listen recorded")
}

// OnTimeChanged plays the session forward by delta simulated seconds. When
// an ad window is armed the delta is split into a pre-ad segment, the ad
// itself and a post-ad segment; a window that fully elapses settles the
// free listen bucket against its price.
func (s *Session) OnTimeChanged(delta int) {
	if delta <= 0 {
		return
	}
	current := s.currentUnit()
	if current == nil || current.Paused() {
		return
	}
	split := s.ads.SplitDelta(delta, current.Remaining())
	s.advance(split.Before)
	if split.Closed {
		s.settleFree(int64(split.Price))
	}
	s.advance(split.After)
	s.reap()
}

func (s *Session) advance(delta int) {
	if delta <= 0 {
		return
	}
	switch {
	case s.unit != nil:
		s.unit.AdvanceTime(delta)
	case s.player != nil:
		s.player.AdvanceTime(delta)
	}
}

// currentUnit returns the unit playback currently runs on, if any.
func (s *Session) currentUnit() *playback.Unit {
	switch {
	case s.unit != nil:
		return s.unit
	case s.player != nil:
		return s.player.Current()
	default:
		return nil
	}
}

// currentTrack returns the track playback currently runs on, if any.
func (s *Session) currentTrack() (models.Track, bool) {
	unit := s.currentUnit()
	if unit == nil {
		return models.Track{}, false
	}
	return unit.Track(), true
}

// reap clears sources that have played out. A standalone track is done when
// it sits at 0 with repeat off; a collection is done when its play order is
// exhausted. Finishing a resumable collection drops its saved position.
func (s *Session) reap() {
	if s.unit != nil && s.unit.Remaining() == 0 && s.unit.RepeatMode() == playback.RepeatNone {
		s.unit = nil
	}
	if s.player != nil && s.player.Finished() {
		collection := s.player.Collection()
		if collection.IsResumable() {
			s.progress.Delete(collection.Name)
		}
		s.player = nil
	}
}

// unload detaches the current source. A resumable collection in flight has
// its position saved for the next load; a pending ad window is cancelled
// without settling.
func (s *Session) unload() {
	if s.player != nil {
		collection := s.player.Collection()
		if collection.IsResumable() && !s.player.Finished() {
			current := s.player.Current()
			s.progress.Save(collection.Name, Position{
				Index:   s.player.CurrentIndex(),
				Elapsed: current.Elapsed(),
			})
		}
	}
	s.unit = nil
	s.player = nil
	s.ads.Remove()
}

// Load makes the named track or collection the session's source, starting
// from the top except for resumable collections, which pick up where the
// listener left off.
func (s *Session) Load(name string) string {
	track, isTrack := s.lib.Track(name)
	collection, isCollection := s.lib.Collection(name)

	switch {
	case isCollection:
		if collection.Size() == 0 {
			return "You can't load an empty audio collection!"
		}
		s.unload()
		s.player = playback.NewCollectionPlayer(&collection, s)
		if collection.IsResumable() {
			s.restoreProgress()
		}
	case isTrack:
		s.unload()
		s.unit = playback.NewUnit(track, s)
	default:
		return fmt.Sprintf("The source %s does not exist.", name)
	}

	s.log.WithField("source", name).Debug("source loaded")
	return "Playback loaded successfully."
}

// restoreProgress moves a freshly built player to the saved position.
func (s *Session) restoreProgress() {
	collection := s.player.Collection()
	pos, ok := s.progress.Load(collection.Name)
	if !ok || pos.Index >= s.player.Size() {
		return
	}
	s.player.Replay(pos.Index)
	if current := s.player.Current(); current != nil && pos.Elapsed < current.Duration() {
		current.AddForward(pos.Elapsed)
	}
}

// PlayPause toggles the paused state of the current source.
func (s *Session) PlayPause() string {
	s.reap()
	current := s.currentUnit()
	if current == nil {
		return "Please load a source before attempting to pause or resume playback."
	}
	if current.Paused() {
		current.Resume()
		return "Playback resumed successfully."
	}
	current.Pause()
	return "Playback paused successfully."
}

// Status reports the playback state of the current source.
func (s *Session) Status() playback.Status {
	s.reap()
	switch {
	case s.unit != nil:
		return s.unit.Status()
	case s.player != nil:
		return s.player.Status()
	default:
		return playback.EmptyStatus()
	}
}

// CycleRepeat advances the repeat mode of the current source.
func (s *Session) CycleRepeat() string {
	s.reap()
	var mode playback.RepeatMode
	switch {
	case s.unit != nil:
		mode = s.unit.CycleRepeat()
	case s.player != nil:
		mode = s.player.CycleRepeat()
	default:
		return "Please load a source before setting the repeat status."
	}
	return fmt.Sprintf("Repeat mode changed to %s.", strings.ToLower(mode.String()))
}

// Shuffle toggles shuffled play on the loaded album or playlist.
func (s *Session) Shuffle(seed int64) string {
	s.reap()
	if s.unit == nil && s.player == nil {
		return "Please load a source before using the shuffle function."
	}
	if s.player == nil || !s.player.Collection().Shuffleable() {
		return "The loaded source is not a playlist or an album."
	}
	on, err := s.player.SetShuffle(seed)
	if err != nil {
		s.log.WithError(err).Error("shuffle rejected")
		return "Shuffle function could not be activated."
	}
	if on {
		return "Shuffle function activated successfully."
	}
	return "Shuffle function deactivated successfully."
}

// Next skips to the next item in play order. On a standalone track it ends
// playback without counting a listen.
func (s *Session) Next() string {
	s.reap()
	switch {
	case s.unit != nil:
		s.unit.SkipToEnd()
		s.reap()
		return "Playback finished, no next track to play."
	case s.player != nil:
		s.player.PlayNext()
		if s.player.Finished() {
			s.reap()
			return "Playback finished, no next track to play."
		}
		return fmt.Sprintf("Skipped to the next track successfully. The current track is %s.",
			s.player.Current().Track().Name)
	default:
		return "Please load a source before skipping to the next track."
	}
}

// Prev restarts the current item, or steps back to the previous one when
// the current item has not started playing yet.
func (s *Session) Prev() string {
	s.reap()
	switch {
	case s.unit != nil:
		s.unit.ResetRemaining()
		s.unit.Resume()
		return fmt.Sprintf("Returned to the previous track successfully. The current track is %s.",
			s.unit.Track().Name)
	case s.player != nil:
		s.player.PlayPrevious()
		return fmt.Sprintf("Returned to the previous track successfully. The current track is %s.",
			s.player.Current().Track().Name)
	default:
		return "Please load a source before returning to the previous track."
	}
}

// Forward seeks ahead inside the current episode. Close to the end it skips
// to the next episode instead.
func (s *Session) Forward() string {
	s.reap()
	if s.unit == nil && s.player == nil {
		return "Please load a source before attempting to forward."
	}
	if s.player == nil || !s.player.Collection().IsResumable() {
		return "The loaded source is not a podcast."
	}
	current := s.player.Current()
	if current.Remaining() <= s.opts.SeekStep {
		s.player.PlayNext()
		s.reap()
	} else {
		current.AddForward(s.opts.SeekStep)
	}
	return "Skipped forward successfully."
}

// Backward seeks back inside the current episode, rewinding to its start
// when less than a full step has elapsed.
func (s *Session) Backward() string {
	s.reap()
	if s.unit == nil && s.player == nil {
		return "Please select a source before rewinding."
	}
	if s.player == nil || !s.player.Collection().IsResumable() {
		return "The loaded source is not a podcast."
	}
	current := s.player.Current()
	if current.Elapsed() < s.opts.SeekStep {
		current.ResetRemaining()
		current.Resume()
	} else {
		current.AddBackward(s.opts.SeekStep)
	}
	return "Rewound successfully."
}

// InsertAd arms an ad window that will interrupt playback when the current
// song runs out. Premium listeners never hear ads, so for them nothing is
// armed.
func (s *Session) InsertAd(price int) string {
	s.reap()
	if s.Premium() {
		return fmt.Sprintf("%s is a premium user.", s.listener)
	}
	track, ok := s.currentTrack()
	if !ok || track.Kind != models.KindSong {
		return fmt.Sprintf("%s is not playing any music.", s.listener)
	}
	s.ads.Insert(price)
	return "Ad inserted successfully."
}

// Subscribe switches the listener to premium. Later song listens accrue to
// the premium bucket until the subscription is cancelled.
func (s *Session) Subscribe() string {
	if s.Premium() {
		return fmt.Sprintf("%s is already a premium user.", s.listener)
	}
	s.ledger.SetPremium(true)
	s.everPremium = true
	return fmt.Sprintf("%s bought the subscription successfully.", s.listener)
}

// CancelPremium settles the premium bucket against the subscription credit
// and drops the listener back to free.
func (s *Session) CancelPremium() string {
	if !s.Premium() {
		return fmt.Sprintf("%s is not a premium user.", s.listener)
	}
	s.settlePremium()
	s.ledger.SetPremium(false)
	return fmt.Sprintf("%s cancelled the subscription successfully.", s.listener)
}

// Finalize settles whatever is still owed at the end of the run. Only
// listeners who ever held premium can owe anything.
func (s *Session) Finalize() {
	if s.everPremium {
		s.settlePremium()
	}
}

func (s *Session) settlePremium() {
	s.settle(s.opts.PremiumCredit, ledger.PartitionPremium)
}

func (s *Session) settleFree(pool int64) {
	s.settle(pool, ledger.PartitionFree)
}

// settle distributes pool across the bucket's listens and clears it.
// An empty bucket settles nothing.
func (s *Session) settle(pool int64, p ledger.Partition) {
	err := s.alloc.Distribute(pool, s.ledger.Monetized(p))
	if err != nil {
		if !errors.Is(err, revenue.ErrNoListens) {
			s.log.WithError(err).Error("settlement failed")
			return
		}
		s.log.Debug("nothing to settle")
	}
	s.ledger.ClearMonetized(p)
}

// Wrapped is the listener's listening report.
type Wrapped struct {
	TopArtists  []ledger.Entry `json:"topArtists"`
	TopGenres   []ledger.Entry `json:"topGenres"`
	TopSongs    []ledger.Entry `json:"topSongs"`
	TopAlbums   []ledger.Entry `json:"topAlbums"`
	TopEpisodes []ledger.Entry `json:"topEpisodes"`
}

// WrappedReport builds the listening report, or ErrNoListenData when the
// listener has nothing to show.
func (s *Session) WrappedReport() (Wrapped, error) {
	if s.ledger.Empty() {
		return Wrapped{}, fmt.Errorf("%w: %s", ErrNoListenData, s.listener)
	}
	return Wrapped{
		TopArtists:  s.ledger.TopArtists(),
		TopGenres:   s.ledger.TopGenres(),
		TopSongs:    s.ledger.TopSongs(),
		TopAlbums:   s.ledger.TopAlbums(),
		TopEpisodes: s.ledger.TopEpisodes(),
	}, nil
}
