// Package havoc provides the default byte-level mutation set that the
// Havoc packet mutator draws one mutation from per call and applies to a
// packet's inner payload. It is the
// Go stand-in for "all supported byte-level havoc mutations exported by
// the engine" (spec §4.6) — in the Rust original this set lives in
// libafl's own havoc-mutations bundle, an external collaborator with no
// equivalent published Go module in this corpus, so we provide a small,
// classically AFL-shaped set ourselves (bitflip, byte increment/decrement,
// interesting-value overwrite, random insert/delete, byte swap).
package havoc

import bf "github.com/nathaniel-bennett/butterfly"

var interestingBytes = []byte{0, 1, 16, 32, 64, 100, 127, 128, 129, 255}

func bitFlip(rnd bf.RandSource, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	idx := int(rnd.Below(uint64(len(data))))
	bit := uint(rnd.Below(8))
	data[idx] ^= 1 << bit
	return data
}

func byteIncrement(rnd bf.RandSource, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	idx := int(rnd.Below(uint64(len(data))))
	data[idx]++
	return data
}

func byteDecrement(rnd bf.RandSource, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	idx := int(rnd.Below(uint64(len(data))))
	data[idx]--
	return data
}

func interestingByte(rnd bf.RandSource, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	idx := int(rnd.Below(uint64(len(data))))
	data[idx] = interestingBytes[rnd.Below(uint64(len(interestingBytes)))]
	return data
}

func insertRandomByte(rnd bf.RandSource, data []byte) []byte {
	idx := int(rnd.Below(uint64(len(data) + 1)))
	b := byte(rnd.Below(256))
	grown := make([]byte, len(data)+1)
	copy(grown, data[:idx])
	grown[idx] = b
	copy(grown[idx+1:], data[idx:])
	return grown
}

func deleteByte(rnd bf.RandSource, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	idx := int(rnd.Below(uint64(len(data))))
	return append(data[:idx], data[idx+1:]...)
}

func swapBytes(rnd bf.RandSource, data []byte) []byte {
	if len(data) < 2 {
		return data
	}
	i := int(rnd.Below(uint64(len(data))))
	j := int(rnd.Below(uint64(len(data))))
	data[i], data[j] = data[j], data[i]
	return data
}

// Default returns the bundled byte-level havoc mutation set.
func Default() bf.HavocMutationSet {
	return bf.HavocMutationSet{
		bitFlip,
		byteIncrement,
		byteDecrement,
		interestingByte,
		insertRandomByte,
		deleteByte,
		swapBytes,
	}
}
