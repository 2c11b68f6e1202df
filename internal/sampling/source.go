// Package sampling provides the random source shared by the congestion
// classifier and the historical series generator.
package sampling

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Source draws uniform random values. Implementations must be safe for concurrent use.
type Source interface {
	// IntRange returns a uniform integer in [lo, hi] (inclusive).
	IntRange(lo, hi int) int

	// FloatRange returns a uniform float in [lo, hi).
	FloatRange(lo, hi float64) float64
}

// LockedSource is a mutex-guarded PCG generator.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a LockedSource seeded from crypto/rand, so separate processes
// and separate sources never share a sequence.
func New() *LockedSource {
	var seed [16]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic("sampling: read seed: " + err.Error())
	}
	return NewSeeded(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))
}

// NewSeeded creates a deterministic LockedSource.
func NewSeeded(seed1, seed2 uint64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// IntRange returns a uniform integer in [lo, hi]. Swapped bounds are normalised.
func (s *LockedSource) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.IntN(hi-lo+1)
}

// FloatRange returns a uniform float in [lo, hi).
func (s *LockedSource) FloatRange(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

var _ Source = (*LockedSource)(nil)
