// Package catalog holds the content graph the engine plays from: tracks,
// collections and listeners, with the lookups playback and revenue need.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/anaailiesei/EchoWave/pkg/models"
)

// Catalog is the in-memory content graph. Lookups are case-insensitive on
// names. Safe for concurrent readers and writers.
type Catalog struct {
	mu          sync.RWMutex
	tracks      map[string]models.Track
	collections map[string]models.Collection
	users       map[string]models.User
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		tracks:      make(map[string]models.Track),
		collections: make(map[string]models.Collection),
		users:       make(map[string]models.User),
	}
}

func key(name string) string { return strings.ToLower(name) }

// AddTrack registers a track, replacing any previous track with the same
// name.
func (c *Catalog) AddTrack(track models.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracks[key(track.Name)] = track
}

// AddCollection registers a collection and every track it carries.
func (c *Catalog) AddCollection(collection models.Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections[key(collection.Name)] = collection
	for _, track := range collection.Tracks {
		c.tracks[key(track.Name)] = track
	}
}

// AddUser registers a listener.
func (c *Catalog) AddUser(user models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[key(user.Name)] = user
}

// Track looks a track up by name.
func (c *Catalog) Track(name string) (models.Track, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	track, ok := c.tracks[key(name)]
	return track, ok
}

// Collection looks a collection up by name.
func (c *Catalog) Collection(name string) (models.Collection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	collection, ok := c.collections[key(name)]
	return collection, ok
}

// User looks a listener up by name.
func (c *Catalog) User(name string) (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	user, ok := c.users[key(name)]
	return user, ok
}

// OwnerOf resolves a track name to its content owner. It satisfies the
// revenue allocator's resolver signature.
func (c *Catalog) OwnerOf(name string) (string, bool) {
	track, ok := c.Track(name)
	if !ok {
		return "", false
	}
	return track.Owner, true
}

// Users returns every registered listener name, sorted.
func (c *Catalog) Users() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.users))
	for _, user := range c.users {
		names = append(names, user.Name)
	}
	sort.Strings(names)
	return names
}

// Tracks returns how many tracks are registered.
func (c *Catalog) Tracks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tracks)
}
