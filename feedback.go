package butterfly

import (
	"fmt"

	"github.com/pkg/errors"
)

// Monitor statistic names fired by StateFeedback (spec §4.4). The node and
// edge counts are tagged for "max" aggregation across clients; the graph
// text is tagged for no aggregation.
const (
	StatNodes = "butterfly_state_nodes"
	StatEdges = "butterfly_state_edges"
	StatGraph = "butterfly_state_graph"
)

// AggregateOp tells the event manager how to combine a stat across
// clients.
type AggregateOp int

const (
	AggregateMax AggregateOp = iota
	AggregateNone
)

// Stat is one named, aggregatable monitor statistic update, tagged with the
// client that fired it so a monitor aggregating across several fuzzer
// clients (spec §4.9) knows whose running total to update.
type Stat struct {
	Name      string
	Number    uint64
	Text      string
	IsText    bool
	Aggregate AggregateOp
	ClientID  string
}

// EventFirer is the external event-manager contract (spec §1, out of
// scope beyond this contract): something that can carry a Stat from one
// fuzzer client to the monitor.
type EventFirer interface {
	FireStat(stat Stat) error
}

// StateFeedback classifies an input as interesting iff the named
// StateObserver saw a new graph edge during the last run (component E).
// It composes with the ordinary edge-coverage feedback via logical OR;
// objective feedbacks (crash, timeout) are unaffected.
type StateFeedback[PS comparable] struct {
	observerName string
	clientID     string
}

// NewStateFeedback creates a StateFeedback bound to observer's name and
// tagged with clientID, the identifier this fuzzer client's stats are
// reported under (spec §4.9's per-client average). The observer itself is
// looked up by name at evaluation time, from the Observers set passed to
// IsInteresting — mirroring libafl's HasObserverName/MatchName pattern.
func NewStateFeedback[PS comparable](observer *StateObserver[PS], clientID string) *StateFeedback[PS] {
	return &StateFeedback[PS]{observerName: observer.Name(), clientID: clientID}
}

// Name identifies this feedback to the fuzzer runtime.
func (f *StateFeedback[PS]) Name() string {
	return "StateFeedback"
}

// IsInteresting reports whether the run that populated observers
// discovered a new state-graph edge, firing node/edge/graph stats to mgr
// when it did.
func (f *StateFeedback[PS]) IsInteresting(observers *Observers, mgr EventFirer) (bool, error) {
	obs, ok := StateObserverByName[PS](observers, f.observerName)
	if !ok {
		// A missing observer is a configuration bug, not a runtime
		// condition: panicking here is the documented behavior (spec §7).
		panic(fmt.Sprintf("butterfly: StateFeedback: observer %q not registered", f.observerName))
	}

	interesting := obs.HadNewTransitions()
	if !interesting {
		return false, nil
	}

	nodes, edges := obs.Info()

	if err := mgr.FireStat(Stat{Name: StatNodes, Number: uint64(nodes), Aggregate: AggregateMax, ClientID: f.clientID}); err != nil {
		return true, errors.Wrap(err, "firing node-count stat")
	}
	if err := mgr.FireStat(Stat{Name: StatEdges, Number: uint64(edges), Aggregate: AggregateMax, ClientID: f.clientID}); err != nil {
		return true, errors.Wrap(err, "firing edge-count stat")
	}

	if graphvizEnabled {
		if err := mgr.FireStat(Stat{Name: StatGraph, Text: obs.GetStateMachine(), IsText: true, Aggregate: AggregateNone, ClientID: f.clientID}); err != nil {
			return true, errors.Wrap(err, "firing state-graph stat")
		}
	}

	return true, nil
}
