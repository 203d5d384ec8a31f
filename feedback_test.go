package butterfly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFirer struct {
	stats []Stat
}

func (f *recordingFirer) FireStat(stat Stat) error {
	f.stats = append(f.stats, stat)
	return nil
}

func TestStateFeedbackFiresOnNewTransitions(t *testing.T) {
	observer := NewStateObserver[int]("state")
	feedback := NewStateFeedback[int](observer, "client-1")
	observers := NewObservers()
	observers.Register("state", observer)
	firer := &recordingFirer{}

	observer.preExec()
	observer.Record(220)
	observer.Record(331)

	interesting, err := feedback.IsInteresting(observers, firer)
	require.NoError(t, err)
	assert.True(t, interesting)
	assert.NotEmpty(t, firer.stats)
}

func TestStateFeedbackNotInterestingWithoutNewTransitions(t *testing.T) {
	observer := NewStateObserver[int]("state")
	feedback := NewStateFeedback[int](observer, "client-1")
	observers := NewObservers()
	observers.Register("state", observer)
	firer := &recordingFirer{}

	observer.preExec()
	observer.Record(220)
	observer.Record(331)
	_, err := feedback.IsInteresting(observers, firer)
	require.NoError(t, err)

	observer.preExec()
	observer.Record(220)
	observer.Record(331)

	interesting, err := feedback.IsInteresting(observers, firer)
	require.NoError(t, err)
	assert.False(t, interesting)
}

func TestStateFeedbackPanicsOnMissingObserver(t *testing.T) {
	observer := NewStateObserver[int]("state")
	feedback := NewStateFeedback[int](observer, "client-1")
	observers := NewObservers()
	firer := &recordingFirer{}

	assert.Panics(t, func() {
		_, _ = feedback.IsInteresting(observers, firer)
	})
}
