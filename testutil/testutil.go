package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Uint64n returns a pseudo-random value with only its low n bits set,
// for n in [0, 64].
func (r *RNG) Uint64n(n int) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 {
		return 0
	}
	v := r.rand.Uint64()
	if n >= 64 {
		return v
	}
	return v & ((uint64(1) << uint(n)) - 1)
}

// Words returns a slice of n pseudo-random words.
func (r *RNG) Words(n int) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	words := make([]uint64, n)
	for i := range words {
		words[i] = r.rand.Uint64()
	}
	return words
}
