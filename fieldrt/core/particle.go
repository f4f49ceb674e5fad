package core

import (
	"math/rand"
)

// ParticleBuffer is a flat xyz position array, three floats per particle.
type ParticleBuffer struct {
	Positions []float32
}

// NewParticleBuffer scatters count particles uniformly in [-spread/2, spread/2) on
// every axis. A nil rng falls back to the global source.
func NewParticleBuffer(count int, spread float32, rng *rand.Rand) *ParticleBuffer {
	if count < 0 {
		count = 0
	}
	next := rand.Float32
	if rng != nil {
		next = rng.Float32
	}

	pos := make([]float32, count*3)
	for i := range pos {
		pos[i] = (next() - 0.5) * spread
	}
	return &ParticleBuffer{Positions: pos}
}

func (b *ParticleBuffer) Count() int {
	return len(b.Positions) / 3
}

// At returns the position of particle i.
func (b *ParticleBuffer) At(i int) [3]float32 {
	j := i * 3
	return [3]float32{b.Positions[j], b.Positions[j+1], b.Positions[j+2]}
}
