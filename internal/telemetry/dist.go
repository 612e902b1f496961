package telemetry

import "math/rand"

// Uniform returns a float64 drawn uniformly from [min, max).
func Uniform(r *rand.Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Pick returns a uniformly chosen element of items. items must be non-empty.
func Pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

// IntBetween returns an integer drawn uniformly from [min, max], inclusive
// of both bounds.
func IntBetween(r *rand.Rand, min, max int) int {
	return min + r.Intn(max-min+1)
}

// Chance reports a weighted boolean trial that succeeds with probability p.
func Chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}
