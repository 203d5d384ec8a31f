package mutators

import (
	bf "github.com/nathaniel-bennett/butterfly"
)

// Delete removes a single, uniformly chosen packet. It respects a lower
// bound on the number of packets remaining after the deletion.
type Delete[P bf.Packet[P]] struct {
	minPackets int
}

// NewDelete creates a Delete mutator; minPackets is floored at 1, as the
// reference implementation does.
func NewDelete[P bf.Packet[P]](minPackets int) *Delete[P] {
	if minPackets < 1 {
		minPackets = 1
	}
	return &Delete[P]{minPackets: minPackets}
}

func (*Delete[P]) Name() string { return "PacketDeleteMutator" }

func (d *Delete[P]) Mutate(rnd bf.RandSource, input *bf.Packets[P]) (bf.MutationResult, error) {
	if input.Len() <= d.minPackets {
		return bf.Skipped, nil
	}

	idx := int(rnd.Below(uint64(input.Len())))
	input.RemoveAt(idx)
	return bf.Mutated, nil
}
