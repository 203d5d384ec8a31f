package mutators

import (
	bf "github.com/nathaniel-bennett/butterfly"
)

// Duplicate clones one random packet and inserts the copy at a random
// position (possibly appending). It respects an upper bound on the
// number of packets after the insertion.
type Duplicate[P bf.Packet[P]] struct {
	maxPackets int
}

// NewDuplicate creates a Duplicate mutator bounded by maxPackets.
func NewDuplicate[P bf.Packet[P]](maxPackets int) *Duplicate[P] {
	return &Duplicate[P]{maxPackets: maxPackets}
}

func (*Duplicate[P]) Name() string { return "PacketDuplicateMutator" }

func (d *Duplicate[P]) Mutate(rnd bf.RandSource, input *bf.Packets[P]) (bf.MutationResult, error) {
	n := input.Len()
	if n >= d.maxPackets {
		return bf.Skipped, nil
	}

	from := int(rnd.Below(uint64(n)))
	to := int(rnd.Below(uint64(n + 1)))
	if from == to {
		return bf.Skipped, nil
	}

	copyOfFrom := (*input.At(from)).Clone()
	input.InsertAt(to, copyOfFrom)
	return bf.Mutated, nil
}
