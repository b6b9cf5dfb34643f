package playback

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidPermutation reports a shuffle order that is not a bijection over
// the collection's indices. It indicates a programming error, never user
// input.
var ErrInvalidPermutation = errors.New("shuffle order is not a permutation")

// newShuffleOrder returns a pseudorandom permutation of [0, size) derived
// deterministically from seed, so replays of the same command stream shuffle
// identically.
func newShuffleOrder(size int, seed int64) []int {
	order := make([]int, size)
	for i := range order {
		order[i] = i
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(size, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// validateShuffleOrder checks that order is a total permutation of [0, size).
func validateShuffleOrder(order []int, size int) error {
	if len(order) != size {
		return fmt.Errorf("order has %d entries for %d tracks: %w", len(order), size, ErrInvalidPermutation)
	}
	seen := make([]bool, size)
	for _, idx := range order {
		if idx < 0 || idx >= size || seen[idx] {
			return fmt.Errorf("index %d repeated or out of range: %w", idx, ErrInvalidPermutation)
		}
		seen[idx] = true
	}
	return nil
}
