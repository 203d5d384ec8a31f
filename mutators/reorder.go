// Package mutators implements the sequence-level (F) and packet-level (G)
// mutators described in spec §4.5/§4.6, grounded on the reference
// implementation's one-mutator-per-file layout (mutators/reorder.rs,
// delete.rs, duplicate.rs, crossover.rs, splice.rs).
package mutators

import (
	bf "github.com/nathaniel-bennett/butterfly"
)

// Reorder swaps two random packets. It requires at least two packets and
// never changes packet contents.
type Reorder[P bf.Packet[P]] struct{}

func NewReorder[P bf.Packet[P]]() *Reorder[P] {
	return &Reorder[P]{}
}

func (*Reorder[P]) Name() string { return "PacketReorderMutator" }

func (*Reorder[P]) Mutate(rnd bf.RandSource, input *bf.Packets[P]) (bf.MutationResult, error) {
	n := input.Len()
	if n <= 1 {
		return bf.Skipped, nil
	}

	from := int(rnd.Below(uint64(n)))
	to := int(rnd.Below(uint64(n)))
	if from == to {
		return bf.Skipped, nil
	}

	input.Swap(from, to)
	return bf.Mutated, nil
}
