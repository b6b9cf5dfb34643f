package ledger

import "github.com/anaailiesei/EchoWave/pkg/models"

// OwnerLedger aggregates the listens an artist or host received, mirroring
// the listener-side counters from the content owner's point of view.
type OwnerLedger struct {
	songs    *Tracker
	episodes *Tracker
	albums   *Tracker
	fans     *Tracker
}

// NewOwnerLedger creates an empty owner ledger.
func NewOwnerLedger() *OwnerLedger {
	return &OwnerLedger{
		songs:    NewTracker(),
		episodes: NewTracker(),
		albums:   NewTracker(),
		fans:     NewTracker(),
	}
}

// AddListen credits the owner with count listens of the track by listener.
func (o *OwnerLedger) AddListen(track models.Track, listener string, count int) {
	if count <= 0 {
		return
	}
	switch track.Kind {
	case models.KindSong:
		o.songs.AddN(track.Name, count)
		if track.Album != "" {
			o.albums.AddN(track.Album, count)
		}
	case models.KindEpisode:
		o.episodes.AddN(track.Name, count)
	}
	o.fans.AddN(listener, count)
}

// TopSongs returns the owner's five most played songs.
func (o *OwnerLedger) TopSongs() []Entry { return o.songs.TopFive() }

// TopEpisodes returns the owner's five most played episodes.
func (o *OwnerLedger) TopEpisodes() []Entry { return o.episodes.TopFive() }

// TopAlbums returns the owner's five most played albums.
func (o *OwnerLedger) TopAlbums() []Entry { return o.albums.TopFive() }

// TopFans returns the owner's five most devoted listeners.
func (o *OwnerLedger) TopFans() []Entry { return o.fans.TopFive() }

// Listeners returns how many distinct listeners played the owner's content.
func (o *OwnerLedger) Listeners() int { return o.fans.Len() }

// Empty reports whether the owner received no listens.
func (o *OwnerLedger) Empty() bool {
	return o.songs.Empty() && o.episodes.Empty()
}
