package odds

import (
	"math"
	"math/rand"
)

const displayJitter = 0.1

// Display applies the cosmetic ±10% jitter used by presentation layers.
// It operates on an already computed quote value and is never part of the
// odds a wager locks; payouts stay deterministic.
func Display(currentOdds float64, rng *rand.Rand) float64 {
	jitter := 1 + (rng.Float64()*2-1)*displayJitter
	return math.Round(currentOdds*jitter*100) / 100
}
