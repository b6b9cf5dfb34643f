package models

// TrackKind distinguishes the two playable content kinds.
type TrackKind int

const (
	// KindSong is a music track that belongs to an album and a genre.
	KindSong TrackKind = iota
	// KindEpisode is a podcast episode; Album holds the parent podcast name.
	KindEpisode
)

// String returns a human readable kind name.
func (k TrackKind) String() string {
	if k == KindEpisode {
		return "episode"
	}
	return "song"
}

// ParseTrackKind maps a stored kind name back to its TrackKind.
func ParseTrackKind(s string) TrackKind {
	if s == "episode" {
		return KindEpisode
	}
	return KindSong
}

// Track represents a single immutable content unit in the catalog.
// For songs, Album and Genre are set; for episodes, Album holds the name of
// the parent podcast and Genre is empty.
type Track struct {
	Name     string    `json:"name"`
	Owner    string    `json:"owner"`    // content creator (artist or host)
	Duration int       `json:"duration"` // in simulated seconds
	Kind     TrackKind `json:"kind"`
	Genre    string    `json:"genre,omitempty"`
	Album    string    `json:"album,omitempty"`
}

// IsSong reports whether the track is a song.
func (t Track) IsSong() bool { return t.Kind == KindSong }

// IsEpisode reports whether the track is a podcast episode.
func (t Track) IsEpisode() bool { return t.Kind == KindEpisode }

// CollectionKind distinguishes the ordered track collections.
type CollectionKind int

const (
	// KindAlbum is an artist-owned sequence of songs.
	KindAlbum CollectionKind = iota
	// KindPlaylist is a listener-owned sequence of songs.
	KindPlaylist
	// KindPodcast is a host-owned sequence of episodes.
	KindPodcast
)

// String returns a human readable kind name.
func (k CollectionKind) String() string {
	switch k {
	case KindPlaylist:
		return "playlist"
	case KindPodcast:
		return "podcast"
	default:
		return "album"
	}
}

// ParseCollectionKind maps a stored kind name back to its CollectionKind.
func ParseCollectionKind(s string) CollectionKind {
	switch s {
	case "playlist":
		return KindPlaylist
	case "podcast":
		return KindPodcast
	default:
		return KindAlbum
	}
}

// Collection is an ordered, named sequence of tracks. The order is the
// insertion order and is never mutated by the engine.
type Collection struct {
	Name   string         `json:"name"`
	Owner  string         `json:"owner"`
	Kind   CollectionKind `json:"kind"`
	Tracks []Track        `json:"tracks"`
}

// Size returns the number of tracks in the collection.
func (c *Collection) Size() int { return len(c.Tracks) }

// IsResumable reports whether playback progress for the collection should be
// remembered between loads (podcasts resume, albums and playlists restart).
func (c *Collection) IsResumable() bool { return c.Kind == KindPodcast }

// Shuffleable reports whether the collection supports shuffled playback.
func (c *Collection) Shuffleable() bool {
	return c.Kind == KindAlbum || c.Kind == KindPlaylist
}

// User is an entry in the listener registry supplied by the catalog.
type User struct {
	Name    string `json:"name"`
	Premium bool   `json:"premium"`
}
