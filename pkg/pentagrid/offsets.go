package pentagrid

import (
	"math"
	"math/rand/v2"
)

// NewRand returns the pseudo-random stream used for a generation seed.
// Each generation owns its own stream; nothing in this package reads a
// global source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Offsets draws one phase offset per family from rng.
//
// The first n-1 offsets are uniform in [0,1). The last one closes the sum to
// an integer, so sum(offsets) ≡ 0 (mod 1) regardless of the earlier draws.
func Offsets(rng *rand.Rand, n int) []float64 {
	if n <= 0 {
		return nil
	}
	offsets := make([]float64, n)
	var sum float64
	for i := range n - 1 {
		offsets[i] = rng.Float64()
		sum += offsets[i]
	}
	offsets[n-1] = math.Mod(1-math.Mod(sum, 1), 1)
	return offsets
}

// OffsetsForSeed is Offsets over a fresh stream for seed.
func OffsetsForSeed(seed uint64, n int) []float64 {
	return Offsets(NewRand(seed), n)
}
