package core

import (
	"math/rand/v2"
	"sync"
)

// Selector draws uniform random picks over small slices. Safe for concurrent
// use; the zero source is seeded from the global generator.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector() *Selector {
	return &Selector{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededSelector produces a deterministic selector for tests.
func NewSeededSelector(seed uint64) *Selector {
	return &Selector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Selector) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *Selector) shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

// PickOne returns a uniformly random element, false on an empty slice.
func PickOne[T any](s *Selector, arr []T) (T, bool) {
	var zero T
	if len(arr) == 0 {
		return zero, false
	}
	return arr[s.intN(len(arr))], true
}

// PickMany returns count distinct elements chosen uniformly without
// replacement. If count exceeds the slice length, every element is returned
// once, in an unspecified order.
func PickMany[T any](s *Selector, arr []T, count int) []T {
	if count < 0 {
		count = 0
	}
	out := Perm(s, arr)
	if count < len(out) {
		out = out[:count]
	}
	return out
}

// Perm returns a fresh uniformly random permutation of arr.
func Perm[T any](s *Selector, arr []T) []T {
	out := make([]T, len(arr))
	copy(out, arr)
	s.shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
