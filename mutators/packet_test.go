package mutators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bf "github.com/nathaniel-bennett/butterfly"
)

func twoDistinctPackets(a, b string) *bf.Packets[*bf.BytesPacket] {
	return bf.NewPackets([]*bf.BytesPacket{
		bf.NewBytesPacket([]byte(a)),
		bf.NewBytesPacket([]byte(b)),
	})
}

// Invariant 2: crossover_insert grows |b| by between 1 and |other| bytes.
func TestCrossoverInsertGrowsWithinBounds(t *testing.T) {
	m := NewCrossoverInsert[*bf.BytesPacket]()
	input := twoDistinctPackets("hello", "WORLD!!")
	before := len((*input.At(0)).Data)
	otherLen := len((*input.At(1)).Data)

	result, err := m.Mutate(&fixedRand{values: []uint64{0, 1, 2, 0, 0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Mutated, result)

	after := len((*input.At(0)).Data)
	assert.GreaterOrEqual(t, after-before, 1)
	assert.LessOrEqual(t, after-before, otherLen)
}

// Invariant 2: crossover_replace leaves |b| unchanged.
func TestCrossoverReplacePreservesLength(t *testing.T) {
	m := NewCrossoverReplace[*bf.BytesPacket]()
	input := twoDistinctPackets("hello", "WORLD!!")
	before := len((*input.At(0)).Data)

	result, err := m.Mutate(&fixedRand{values: []uint64{0, 1, 2, 0, 0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Mutated, result)
	assert.Equal(t, before, len((*input.At(0)).Data))
}

// Invariant 2: splice sets |b| to >= 1.
func TestSpliceResultsInNonEmptyPacket(t *testing.T) {
	m := NewSplice[*bf.BytesPacket](1)
	input := twoDistinctPackets("ab", "cdef")

	result, err := m.Mutate(&fixedRand{values: []uint64{0, 1, 0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Mutated, result)
	assert.Equal(t, 1, input.Len())
	assert.GreaterOrEqual(t, len((*input.At(0)).Data), 1)
}

func TestSpliceSkipsAtMinPackets(t *testing.T) {
	m := NewSplice[*bf.BytesPacket](2)
	input := twoDistinctPackets("ab", "cdef")

	result, err := m.Mutate(&fixedRand{values: []uint64{0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Skipped, result)
	assert.Equal(t, 2, input.Len())
}

func TestCrossoverSkipsOnEmptyPayload(t *testing.T) {
	m := NewCrossoverInsert[*bf.BytesPacket]()
	input := twoDistinctPackets("", "data")

	result, err := m.Mutate(&fixedRand{values: []uint64{0, 1}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Skipped, result)
}

func TestHavocSkipsOnEmptySet(t *testing.T) {
	h := NewHavoc[*bf.BytesPacket](nil)
	input := twoDistinctPackets("a", "b")

	result, err := h.Mutate(&fixedRand{values: []uint64{0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Skipped, result)
}
