package butterfly

import "bytes"

// BytesPacket is the built-in byte-string packet (spec §4.1): a single
// opaque payload that supports all four mutation capabilities. It is the
// simplest possible Packet implementation and the one every protocol
// binding's inner-payload mutations ultimately bottom out on.
type BytesPacket struct {
	Data []byte
}

// NewBytesPacket copies data into a new BytesPacket.
func NewBytesPacket(data []byte) *BytesPacket {
	d := make([]byte, len(data))
	copy(d, data)
	return &BytesPacket{Data: d}
}

func (b *BytesPacket) Write(buf *bytes.Buffer) {
	buf.Write(b.Data)
}

func (b *BytesPacket) Clone() *BytesPacket {
	d := make([]byte, len(b.Data))
	copy(d, b.Data)
	return &BytesPacket{Data: d}
}

// CrossoverInsert implements the §4.6 algorithm: sample from in [0,O),
// to in [0,S), len in [1, O-from], and splice other's [from, from+len)
// into self at to, growing self by len bytes.
func (b *BytesPacket) CrossoverInsert(rnd RandSource, other *BytesPacket) (MutationResult, error) {
	s, o := len(b.Data), len(other.Data)
	if s == 0 || o == 0 {
		return Skipped, nil
	}

	from := int(rnd.Below(uint64(o)))
	to := int(rnd.Below(uint64(s)))
	length := int(rnd.Below(uint64(o-from))) + 1

	grown := make([]byte, s+length)
	copy(grown, b.Data[:to])
	copy(grown[to:to+length], other.Data[from:from+length])
	copy(grown[to+length:], b.Data[to:])
	b.Data = grown

	return Mutated, nil
}

// CrossoverReplace implements the §4.6 algorithm: sample from in [0,O),
// to in [0,S), len in [1, min(O-from, S-to)], overwriting self[to:to+len]
// with other[from:from+len]. Self's length is unchanged.
func (b *BytesPacket) CrossoverReplace(rnd RandSource, other *BytesPacket) (MutationResult, error) {
	s, o := len(b.Data), len(other.Data)
	if s == 0 || o == 0 {
		return Skipped, nil
	}

	from := int(rnd.Below(uint64(o)))
	to := int(rnd.Below(uint64(s)))

	maxLen := o - from
	if rem := s - to; rem < maxLen {
		maxLen = rem
	}
	length := int(rnd.Below(uint64(maxLen))) + 1

	copy(b.Data[to:to+length], other.Data[from:from+length])

	return Mutated, nil
}

// Splice implements the §4.6 algorithm: sample to in [0,S) and from in
// [0,O), then overwrite/extend self so that other's tail [from:] replaces
// self's tail starting at to.
func (b *BytesPacket) Splice(rnd RandSource, other *BytesPacket) (MutationResult, error) {
	s, o := len(b.Data), len(other.Data)
	if s == 0 || o == 0 {
		return Skipped, nil
	}

	to := int(rnd.Below(uint64(s)))
	from := int(rnd.Below(uint64(o)))
	length := o - from

	if to+length > s {
		grown := make([]byte, to+length)
		copy(grown, b.Data[:to])
		b.Data = grown
	}
	copy(b.Data[to:to+length], other.Data[from:from+length])

	return Mutated, nil
}

// Havoc runs exactly one mutation from set against the payload.
func (b *BytesPacket) Havoc(rnd RandSource, set HavocMutationSet) (MutationResult, error) {
	if len(b.Data) == 0 || len(set) == 0 {
		return Skipped, nil
	}

	idx := int(rnd.Below(uint64(len(set))))
	b.Data = set[idx](rnd, b.Data)

	return Mutated, nil
}
