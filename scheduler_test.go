package butterfly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialRand returns values from a fixed script, for deterministic
// scheduler tests; it panics if more values are drawn than scripted.
type sequentialRand struct {
	values []uint64
	pos    int
}

func (s *sequentialRand) Below(n uint64) uint64 {
	v := s.values[s.pos] % n
	s.pos++
	return v
}

type alwaysSkip struct{}

func (alwaysSkip) Name() string { return "AlwaysSkip" }
func (alwaysSkip) Mutate(RandSource, *Packets[*BytesPacket]) (MutationResult, error) {
	return Skipped, nil
}

type alwaysMutate struct{ calls int }

func (m *alwaysMutate) Name() string { return "AlwaysMutate" }
func (m *alwaysMutate) Mutate(RandSource, *Packets[*BytesPacket]) (MutationResult, error) {
	m.calls++
	return Mutated, nil
}

func TestMutationSchedulerRetriesOnSkipped(t *testing.T) {
	mutate := &alwaysMutate{}
	scheduler := NewMutationScheduler[*BytesPacket](alwaysSkip{}, mutate)

	rnd := &sequentialRand{values: []uint64{0, 1}}
	input := NewPackets([]*BytesPacket{NewBytesPacket([]byte("x"))})

	result, err := scheduler.Mutate(rnd, input)
	require.NoError(t, err)
	assert.Equal(t, Mutated, result)
	assert.Equal(t, 1, mutate.calls)
}

func TestMutationSchedulerRequiresAtLeastOneMutator(t *testing.T) {
	assert.Panics(t, func() {
		NewMutationScheduler[*BytesPacket]()
	})
}
