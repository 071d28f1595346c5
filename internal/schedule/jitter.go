package schedule

import (
	"time"

	"golang.org/x/exp/rand"
)

// Jitter returns a uniformly random duration in [lo, hi).
func Jitter(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}

	return lo + time.Duration(rng.Int63n(int64(hi-lo)))
}
