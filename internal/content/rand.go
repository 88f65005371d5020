package content

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the random source used for shuffles and topic picks.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe PCG source. The same seed yields the same
// sequence.
func NewRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeRand seeds from the wall clock.
func NewTimeRand() Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// Shuffled returns a shuffled copy of s.
func Shuffled[T any](r Rand, s []T) []T {
	out := append([]T(nil), s...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Sample picks k distinct elements of s in random order.
func Sample[T any](r Rand, s []T, k int) []T {
	out := Shuffled(r, s)
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// Pick returns a random element of s. s must not be empty.
func Pick[T any](r Rand, s []T) T {
	return s[r.IntN(len(s))]
}
