// Package ledger keeps append-only listen counters per listener and per
// content owner, partitioned into premium and free buckets that revenue
// settlement consumes and clears.
package ledger

import "sort"

// topResults is how many entries ranked listings report.
const topResults = 5

// Entry is a named listen count, used for ranked listings.
type Entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Tracker counts listens per named entity. Counts only grow between clears.
type Tracker struct {
	counts map[string]int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[string]int)}
}

// Add records one listen for the entity.
func (t *Tracker) Add(name string) { t.AddN(name, 1) }

// AddN records count listens for the entity in one step, so a repeating
// track that wrapped many times inside one delta costs a single update.
func (t *Tracker) AddN(name string, count int) {
	if count <= 0 {
		return
	}
	t.counts[name] += count
}

// Count returns the listens recorded for the entity.
func (t *Tracker) Count(name string) int { return t.counts[name] }

// Len returns the number of distinct entities with listens.
func (t *Tracker) Len() int { return len(t.counts) }

// Empty reports whether no listens are recorded.
func (t *Tracker) Empty() bool { return len(t.counts) == 0 }

// Snapshot returns a copy of the counters.
func (t *Tracker) Snapshot() map[string]int {
	snapshot := make(map[string]int, len(t.counts))
	for name, count := range t.counts {
		snapshot[name] = count
	}
	return snapshot
}

// Clear resets every counter. Clearing an empty tracker is a no-op.
func (t *Tracker) Clear() {
	t.counts = make(map[string]int)
}

// TopFive returns the five highest counts, ordered by count descending and
// name ascending for equal counts.
func (t *Tracker) TopFive() []Entry {
	entries := make([]Entry, 0, len(t.counts))
	for name, count := range t.counts {
		entries = append(entries, Entry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > topResults {
		entries = entries[:topResults]
	}
	return entries
}
