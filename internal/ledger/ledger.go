package ledger

import "github.com/anaailiesei/EchoWave/pkg/models"

// Partition selects which monetization bucket a song listen lands in.
type Partition int

const (
	PartitionFree Partition = iota
	PartitionPremium
)

// Ledger aggregates one listener's completed listens across every
// dimension the listening report needs, and keeps song listens split into
// premium and free buckets for revenue settlement.
type Ledger struct {
	premium bool

	songs    *Tracker
	episodes *Tracker
	albums   *Tracker
	artists  *Tracker
	genres   *Tracker

	premiumSongs *Tracker
	freeSongs    *Tracker
}

// NewLedger creates an empty ledger for a free listener.
func NewLedger() *Ledger {
	return &Ledger{
		songs:        NewTracker(),
		episodes:     NewTracker(),
		albums:       NewTracker(),
		artists:      NewTracker(),
		genres:       NewTracker(),
		premiumSongs: NewTracker(),
		freeSongs:    NewTracker(),
	}
}

// SetPremium switches which bucket future song listens accumulate in.
func (l *Ledger) SetPremium(premium bool) { l.premium = premium }

// Premium reports the bucket currently in effect.
func (l *Ledger) Premium() bool { return l.premium }

// AddListen records count completed listens of the track. Songs fan out to
// the song, its album, its artist, its genre and the active monetization
// bucket; episodes fan out to the episode, its podcast and its host.
func (l *Ledger) AddListen(track models.Track, count int) {
	if count <= 0 {
		return
	}
	switch track.Kind {
	case models.KindSong:
		l.songs.AddN(track.Name, count)
		l.artists.AddN(track.Owner, count)
		if track.Genre != "" {
			l.genres.AddN(track.Genre, count)
		}
		if track.Album != "" {
			l.albums.AddN(track.Album, count)
		}
		if l.premium {
			l.premiumSongs.AddN(track.Name, count)
		} else {
			l.freeSongs.AddN(track.Name, count)
		}
	case models.KindEpisode:
		l.episodes.AddN(track.Name, count)
		l.artists.AddN(track.Owner, count)
		if track.Album != "" {
			l.albums.AddN(track.Album, count)
		}
	}
}

func (l *Ledger) bucket(p Partition) *Tracker {
	if p == PartitionPremium {
		return l.premiumSongs
	}
	return l.freeSongs
}

// Monetized returns a copy of the song counters in the bucket.
func (l *Ledger) Monetized(p Partition) map[string]int {
	return l.bucket(p).Snapshot()
}

// HasMonetized reports whether the bucket holds any listens.
func (l *Ledger) HasMonetized(p Partition) bool {
	return !l.bucket(p).Empty()
}

// ClearMonetized empties the bucket after its pool has been settled.
// Clearing twice settles nothing the second time.
func (l *Ledger) ClearMonetized(p Partition) {
	l.bucket(p).Clear()
}

// TopSongs returns the listener's five most played songs.
func (l *Ledger) TopSongs() []Entry { return l.songs.TopFive() }

// TopEpisodes returns the listener's five most played episodes.
func (l *Ledger) TopEpisodes() []Entry { return l.episodes.TopFive() }

// TopAlbums returns the listener's five most played albums.
func (l *Ledger) TopAlbums() []Entry { return l.albums.TopFive() }

// TopArtists returns the listener's five most played artists and hosts.
func (l *Ledger) TopArtists() []Entry { return l.artists.TopFive() }

// TopGenres returns the listener's five most played genres.
func (l *Ledger) TopGenres() []Entry { return l.genres.TopFive() }

// Empty reports whether the listener has no recorded listens at all.
func (l *Ledger) Empty() bool {
	return l.songs.Empty() && l.episodes.Empty()
}
