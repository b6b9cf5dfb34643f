package session

import "sync"

// Position is a saved playback position inside a resumable collection:
// which item was current and how far into it playback had gone.
type Position struct {
	Index   int
	Elapsed int
}

// ProgressStore keeps one listener's saved positions, keyed by collection
// name. Podcasts resume from here when reloaded; everything else always
// starts from the top.
type ProgressStore struct {
	mu        sync.RWMutex
	positions map[string]Position
}

// NewProgressStore creates an empty store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{positions: make(map[string]Position)}
}

// Save records the position for a collection, replacing any earlier one.
func (s *ProgressStore) Save(collection string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[collection] = pos
}

// Load returns the saved position for a collection.
func (s *ProgressStore) Load(collection string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.positions[collection]
	return pos, ok
}

// Delete drops the saved position, if any. A finished collection starts
// over on the next load.
func (s *ProgressStore) Delete(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.positions, collection)
}
