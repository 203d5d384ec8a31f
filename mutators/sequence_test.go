package mutators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bf "github.com/nathaniel-bennett/butterfly"
)

type fixedRand struct{ values []uint64 }

func (r *fixedRand) Below(n uint64) uint64 {
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func onePacket() *bf.Packets[*bf.BytesPacket] {
	return bf.NewPackets([]*bf.BytesPacket{bf.NewBytesPacket([]byte("x"))})
}

func nPackets(n int) *bf.Packets[*bf.BytesPacket] {
	pkts := make([]*bf.BytesPacket, n)
	for i := range pkts {
		pkts[i] = bf.NewBytesPacket([]byte{byte('a' + i)})
	}
	return bf.NewPackets(pkts)
}

// S3 — Reorder on length <= 1.
func TestReorderSkipsOnSingletonInput(t *testing.T) {
	r := NewReorder[*bf.BytesPacket]()
	input := onePacket()
	before := (*input.At(0)).Data

	result, err := r.Mutate(&fixedRand{values: []uint64{0, 0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Skipped, result)
	assert.Equal(t, before, (*input.At(0)).Data)
}

// S4 — Delete with min = 4.
func TestDeleteSkipsAtMinimum(t *testing.T) {
	d := NewDelete[*bf.BytesPacket](4)
	input := nPackets(4)

	result, err := d.Mutate(&fixedRand{values: []uint64{0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Skipped, result)
	assert.Equal(t, 4, input.Len())
}

func TestDeleteRemovesAbovelMinimum(t *testing.T) {
	d := NewDelete[*bf.BytesPacket](4)
	input := nPackets(5)

	result, err := d.Mutate(&fixedRand{values: []uint64{2}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Mutated, result)
	assert.Equal(t, 4, input.Len())
}

// S5 — Duplicate with max = 2.
func TestDuplicateSkipsAtMaximum(t *testing.T) {
	d := NewDuplicate[*bf.BytesPacket](2)
	input := nPackets(2)

	result, err := d.Mutate(&fixedRand{values: []uint64{0, 0}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Skipped, result)
	assert.Equal(t, 2, input.Len())
}

func TestDuplicateGrowsBelowMaximum(t *testing.T) {
	d := NewDuplicate[*bf.BytesPacket](2)
	input := nPackets(1)
	original := (*input.At(0)).Data

	result, err := d.Mutate(&fixedRand{values: []uint64{0, 1}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Mutated, result)
	require.Equal(t, 2, input.Len())
	assert.Equal(t, original, (*input.At(0)).Data)
	assert.Equal(t, original, (*input.At(1)).Data)
}

func TestReorderSwapsTwoDistinctPackets(t *testing.T) {
	r := NewReorder[*bf.BytesPacket]()
	input := nPackets(2)
	first := (*input.At(0)).Data
	second := (*input.At(1)).Data

	result, err := r.Mutate(&fixedRand{values: []uint64{0, 1}}, input)
	require.NoError(t, err)
	assert.Equal(t, bf.Mutated, result)
	assert.Equal(t, second, (*input.At(0)).Data)
	assert.Equal(t, first, (*input.At(1)).Data)
}
