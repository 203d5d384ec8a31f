// Package rand provides the default RandSource implementation, grounded
// on the per-process PRNG seeding pattern from syz-fuzzer/proc.go (seeding
// math/rand with the current time mixed against the worker's pid so
// sibling fuzzer processes never share a seed).
package rand

import (
	"math/rand"
	"os"
	"time"

	bf "github.com/nathaniel-bennett/butterfly"
)

// Source is a math/rand-backed RandSource. It is not safe for concurrent
// use, matching the single-threaded-per-fuzzer-client assumption the rest
// of the core makes.
type Source struct {
	r *rand.Rand
}

// New creates a Source seeded from the current time mixed with the
// process id, so that sibling fuzzer processes started in the same
// instant still diverge.
func New() *Source {
	seed := time.Now().UnixNano() + int64(os.Getpid())*1e12
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// NewSeeded creates a Source with an explicit seed, for reproducible
// tests.
func NewSeeded(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Below implements bf.RandSource.
func (s *Source) Below(n uint64) uint64 {
	if n == 0 {
		panic("rand: Below(0)")
	}
	if n <= uint64(1)<<63-1 {
		return uint64(s.r.Int63n(int64(n)))
	}
	// n exceeds int64's range; fall back to a full 64-bit draw modulo n.
	return s.r.Uint64() % n
}

var _ bf.RandSource = (*Source)(nil)
