package kinetics

import (
	"time"

	"golang.org/x/exp/rand"
)

// NewRand returns a seeded random source. A zero seed draws one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(uint64(seed)))
}
