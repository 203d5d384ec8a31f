package mutators

import (
	bf "github.com/nathaniel-bennett/butterfly"
)

// Havoc runs exactly one byte-level mutation from a provided set against
// a randomly chosen packet's inner payload. The mutation set is supplied
// at construction; see pkg/havoc for the bundled default (the Go stand-in
// for "all supported byte-level havoc mutations exported by the engine").
type Havoc[P bf.Packet[P]] struct {
	set bf.HavocMutationSet
}

// NewHavoc creates a Havoc mutator over the given mutation set.
func NewHavoc[P bf.Packet[P]](set bf.HavocMutationSet) *Havoc[P] {
	return &Havoc[P]{set: set}
}

func (*Havoc[P]) Name() string { return "PacketHavocMutator" }

func (h *Havoc[P]) Mutate(rnd bf.RandSource, input *bf.Packets[P]) (bf.MutationResult, error) {
	n := input.Len()
	if n == 0 {
		return bf.Skipped, nil
	}

	idx := int(rnd.Below(uint64(n)))
	return (*input.At(idx)).Havoc(rnd, h.set)
}
