package simulation

import (
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Rand is the source for every probabilistic decision in a tick.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

func NewRand(seed1, seed2 uint64) Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// SeedFor derives a reproducible generator from the vault id and tick time.
func SeedFor(vaultID string, at time.Time) Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(vaultID))
	return NewRand(h.Sum64(), uint64(at.UnixNano()))
}

func chance(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// pickWeighted returns the index chosen proportionally to weights, or -1 when
// no weight is positive.
func pickWeighted(r Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	roll := r.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if roll < w {
			return i
		}
		roll -= w
	}
	return last
}

func uniform(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// intBetween returns a uniform integer in [lo, hi].
func intBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
