package mutators

import (
	bf "github.com/nathaniel-bennett/butterfly"
)

// Splice takes the packet immediately following a random position out of
// the sequence and splices it into the packet at that position via the
// packet's own Splice method. On Mutated the removed packet is discarded
// — the pair is now one logical packet. On Skipped it is reinserted at
// its original position so the input is unchanged.
type Splice[P bf.Packet[P]] struct {
	minPackets int
}

// NewSplice creates a Splice mutator; minPackets is floored at 1.
func NewSplice[P bf.Packet[P]](minPackets int) *Splice[P] {
	if minPackets < 1 {
		minPackets = 1
	}
	return &Splice[P]{minPackets: minPackets}
}

func (*Splice[P]) Name() string { return "PacketSpliceMutator" }

func (s *Splice[P]) Mutate(rnd bf.RandSource, input *bf.Packets[P]) (bf.MutationResult, error) {
	if input.Len() <= s.minPackets {
		return bf.Skipped, nil
	}

	p := int(rnd.Below(uint64(input.Len() - 1)))
	other := input.RemoveAt(p + 1)

	result, err := (*input.At(p)).Splice(rnd, other)
	if err != nil {
		input.InsertAt(p+1, other)
		return bf.Skipped, err
	}
	if result == bf.Skipped {
		input.InsertAt(p+1, other)
	}

	return result, nil
}
