package butterfly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedRun(o *StateObserver[int], states []int) {
	o.preExec()
	for _, s := range states {
		o.Record(s)
	}
}

func TestStateObserverGraphEdges(t *testing.T) {
	o := NewStateObserver[int]("state")

	feedRun(o, []int{220, 331, 230, 230, 215})

	nodes, edges := o.Info()
	assert.Equal(t, 4, nodes)
	assert.Equal(t, 3, edges) // self-edge 230->230 dropped
	assert.True(t, o.HadNewTransitions())
}

func TestStateObserverSecondIdenticalRun(t *testing.T) {
	o := NewStateObserver[int]("state")
	feedRun(o, []int{220, 331, 230, 230, 215})

	nodesBefore, edgesBefore := o.Info()

	feedRun(o, []int{220, 331, 230, 230, 215})

	nodesAfter, edgesAfter := o.Info()
	assert.Equal(t, nodesBefore, nodesAfter)
	assert.Equal(t, edgesBefore, edgesAfter)
	assert.False(t, o.HadNewTransitions())
}

func TestStateGraphMonotonic(t *testing.T) {
	o := NewStateObserver[int]("state")
	feedRun(o, []int{1, 2, 3})
	n1, e1 := o.Info()

	feedRun(o, []int{3, 4, 5})
	n2, e2 := o.Info()

	assert.GreaterOrEqual(t, n2, n1)
	assert.GreaterOrEqual(t, e2, e1)
}

func TestStateGraphNoSelfLoop(t *testing.T) {
	o := NewStateObserver[int]("state")
	o.preExec()
	o.Record(7)
	o.Record(7)
	o.Record(7)

	_, edges := o.Info()
	assert.Equal(t, 0, edges)
	assert.False(t, o.HadNewTransitions())
}
