package mutators

import (
	bf "github.com/nathaniel-bennett/butterfly"
)

// CrossoverInsert inserts a random span of another packet's payload into
// a random packet's payload, growing it. Requires at least two packets
// and delegates the byte-level work to the chosen packet's
// CrossoverInsert method (so a structurally simple packet, e.g. one with
// no inner payload, can report Skipped).
type CrossoverInsert[P bf.Packet[P]] struct{}

func NewCrossoverInsert[P bf.Packet[P]]() *CrossoverInsert[P] {
	return &CrossoverInsert[P]{}
}

func (*CrossoverInsert[P]) Name() string { return "PacketCrossoverInsertMutator" }

func (*CrossoverInsert[P]) Mutate(rnd bf.RandSource, input *bf.Packets[P]) (bf.MutationResult, error) {
	n := input.Len()
	if n <= 1 {
		return bf.Skipped, nil
	}

	packet := int(rnd.Below(uint64(n)))
	other := int(rnd.Below(uint64(n)))
	if packet == other {
		return bf.Skipped, nil
	}

	// other lives in the same slice as packet; clone it so the mutation
	// on packet never aliases the source it is reading from.
	otherCopy := (*input.At(other)).Clone()
	return (*input.At(packet)).CrossoverInsert(rnd, otherCopy)
}

// CrossoverReplace overwrites a random span of one packet's payload with
// bytes from another, leaving length unchanged. Same structural
// preconditions as CrossoverInsert.
type CrossoverReplace[P bf.Packet[P]] struct{}

func NewCrossoverReplace[P bf.Packet[P]]() *CrossoverReplace[P] {
	return &CrossoverReplace[P]{}
}

func (*CrossoverReplace[P]) Name() string { return "PacketCrossoverReplaceMutator" }

func (*CrossoverReplace[P]) Mutate(rnd bf.RandSource, input *bf.Packets[P]) (bf.MutationResult, error) {
	n := input.Len()
	if n <= 1 {
		return bf.Skipped, nil
	}

	packet := int(rnd.Below(uint64(n)))
	other := int(rnd.Below(uint64(n)))
	if packet == other {
		return bf.Skipped, nil
	}

	otherCopy := (*input.At(other)).Clone()
	return (*input.At(packet)).CrossoverReplace(rnd, otherCopy)
}
