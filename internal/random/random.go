// Package random provides the randomness used for reward and chat picks.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source is the subset of *rand.Rand the game needs.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// New returns a Source seeded from crypto/rand, falling back to the
// runtime-seeded global generator if the seed cannot be read.
func New() Source {
	seed, err := NewSeed()
	if err != nil {
		return globalSource{}
	}
	return Seeded(seed)
}

// Seeded returns a deterministic Source.
func Seeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }
