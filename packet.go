package butterfly

import (
	"bytes"
	"io"
)

// MutationResult reports whether a mutation attempt changed its input.
// It is a typed result, not an error: a Skipped mutation is an expected,
// frequent outcome (a structural precondition wasn't met), never a
// failure. Reserve error returns for genuine resource/engine failures.
type MutationResult int

const (
	Mutated MutationResult = iota
	Skipped
)

func (r MutationResult) String() string {
	if r == Mutated {
		return "Mutated"
	}
	return "Skipped"
}

// RandSource is the random-number contract the mutation layer depends on.
// It is owned by the surrounding fuzzer runtime (spec §5): the core never
// constructs one on its own except in tests and examples.
type RandSource interface {
	// Below returns a pseudo-random value in [0, n). Callers must never
	// invoke Below(0).
	Below(n uint64) uint64
}

// HavocMutation is a single byte-level mutation applied to a packet's
// inner payload during the Havoc packet mutator (component G). The set of
// available mutations is supplied by the surrounding engine; see
// pkg/havoc for the bundled default set.
type HavocMutation func(rnd RandSource, payload []byte) []byte

// HavocMutationSet is an ordered collection of HavocMutation choices. The
// Havoc packet mutator draws exactly one of these per call.
type HavocMutationSet []HavocMutation

// Packet is the per-protocol packet abstraction (component A). P is the
// concrete packet type; implementations are expected to use a pointer
// receiver so that mutation methods can modify the packet in place.
//
// A packet that cannot satisfy the structural precondition for a
// mutation (e.g. no inner byte payload, or an empty payload) must return
// Skipped — never an error. Error results are reserved for resource or
// engine failures.
type Packet[P any] interface {
	// Write appends this packet's wire-format bytes to buf.
	Write(buf *bytes.Buffer)

	// Clone returns a deep copy, used by the Duplicate sequence mutator.
	Clone() P

	// CrossoverInsert inserts a randomly chosen span of other's bytes
	// into this packet's inner payload, growing it.
	CrossoverInsert(rnd RandSource, other P) (MutationResult, error)

	// CrossoverReplace overwrites a span of this packet's inner payload
	// with bytes from other, without changing its length.
	CrossoverReplace(rnd RandSource, other P) (MutationResult, error)

	// Splice overwrites the tail of this packet's inner payload with the
	// tail of other's, growing it if necessary.
	Splice(rnd RandSource, other P) (MutationResult, error)

	// Havoc applies exactly one mutation from set to this packet's inner
	// payload.
	Havoc(rnd RandSource, set HavocMutationSet) (MutationResult, error)
}

// CaptureParser extracts a sequence of packets of type P from an offline
// packet capture's reassembled command-connection byte stream (see
// package seedimport). Protocols without a capture format should use
// NoCapture, matching the spec's default "empty sequence" hook.
type CaptureParser[P any] func(r io.Reader) ([]P, error)

// NoCapture is the default seed-import hook: it returns no packets.
func NoCapture[P any](io.Reader) ([]P, error) {
	return nil, nil
}
