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

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Ratios returns n aspect ratios drawn uniformly from [minVal, maxVal).
func (r *RNG) Ratios(n int, minVal, maxVal float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = minVal + r.rand.Float64()*(maxVal-minVal)
	}
	return out
}

// MarkFullRows negates roughly a fraction p of the ratios in place, turning
// them into full-row items, and returns the indices it changed.
func (r *RNG) MarkFullRows(ratios []float64, p float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marked []int
	for i := range ratios {
		if r.rand.Float64() < p {
			if ratios[i] > 0 {
				ratios[i] = -ratios[i]
			}
			marked = append(marked, i)
		}
	}
	return marked
}

// CallCounter wraps a ratio slice and counts lookups per index.
// It is safe for concurrent use.
type CallCounter struct {
	ratios []float64
	mu     sync.Mutex
	calls  map[int]int
}

// NewCallCounter creates a CallCounter over ratios.
func NewCallCounter(ratios []float64) *CallCounter {
	return &CallCounter{
		ratios: ratios,
		calls:  make(map[int]int),
	}
}

// AspectRatioForIndex returns the ratio at index and records the lookup.
func (c *CallCounter) AspectRatioForIndex(index int) float64 {
	c.mu.Lock()
	c.calls[index]++
	c.mu.Unlock()
	return c.ratios[index]
}

// Calls returns how often index was looked up.
func (c *CallCounter) Calls(index int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[index]
}

// MaxCalls returns the highest lookup count over all indices.
func (c *CallCounter) MaxCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	maxCalls := 0
	for _, n := range c.calls {
		maxCalls = max(maxCalls, n)
	}
	return maxCalls
}
