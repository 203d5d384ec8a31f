package butterfly

import (
	"github.com/pkg/errors"

	"github.com/nathaniel-bennett/butterfly/pkg/errs"
	"github.com/nathaniel-bennett/butterfly/pkg/forkserver"
)

// ResponseParser turns one raw response-buffer record (spec §4.8) into an
// observed target state. The bool return lets a protocol binding mark a
// record as not state-bearing (e.g. a keepalive) without that counting as
// a parse failure.
type ResponseParser[PS comparable] func(record []byte) (state PS, ok bool, err error)

// CoverageObserver is the minimal contract the coverage feedback needs
// from a run's raw coverage-map bytes. butterfly's core does not define
// edge-coverage feedback itself (that lives in the surrounding fuzzer
// runtime, spec §1); the executor only needs to hand the map across.
type CoverageObserver interface {
	ObserveCoverage(mapBytes []byte)
}

// RunResult is what one target execution produced, after the executor has
// finished feeding the response stream into the state observer.
type RunResult struct {
	Crashed bool
	Hanged  bool
	Output  []byte
}

// Executor is component I: it drives a forkserver.Executor with a
// serialized Packets input and, unlike the Rust original (whose
// response-driven state recording was left unimplemented behind a
// not_yet_implemented! stub), genuinely decodes each response-buffer
// record and calls StateObserver.Record with it. This is what lets
// StateFeedback see new transitions at all.
type Executor[P Packet[P], PS comparable] struct {
	inner    forkserver.Executor
	observer *StateObserver[PS]
	parse    ResponseParser[PS]
	coverage CoverageObserver
	mapSize  int
}

// NewExecutor wires a forkserver.Executor to a StateObserver via parse.
// coverage may be nil if no coverage observer is registered.
func NewExecutor[P Packet[P], PS comparable](
	inner forkserver.Executor,
	observer *StateObserver[PS],
	parse ResponseParser[PS],
	coverage CoverageObserver,
	mapSize int,
) *Executor[P, PS] {
	return &Executor[P, PS]{
		inner:    inner,
		observer: observer,
		parse:    parse,
		coverage: coverage,
		mapSize:  mapSize,
	}
}

// Run serializes input, executes it against the target through the
// forkserver protocol, and records every response-buffer record as a
// state-graph transition before returning.
//
// The StateObserver's per-run tracking (lastNode, newTransitions) is reset
// before the run starts, not after it ends, so a crash mid-run still
// leaves HadNewTransitions reporting on whatever transitions were
// recorded before the crash.
func (e *Executor[P, PS]) Run(input *Packets[P]) (RunResult, error) {
	e.observer.preExec()

	out, err := e.inner.Run(forkserver.ExecOpts{
		CollectCoverage: e.coverage != nil,
	}, input.Serialize())
	if err != nil {
		return RunResult{}, errors.Wrap(errs.ErrForkserverFailure, err.Error())
	}

	if e.coverage != nil && len(out.Coverage) > 0 {
		e.coverage.ObserveCoverage(out.Coverage)
	}

	for i, record := range out.Responses {
		state, ok, err := e.parse(record)
		if err != nil {
			return RunResult{}, errors.Wrapf(err, "parsing response record %d", i)
		}
		if !ok {
			continue
		}
		e.observer.Record(state)
	}

	return RunResult{
		Crashed: out.Crashed,
		Hanged:  out.Hanged,
		Output:  out.Output,
	}, nil
}

// Close releases the underlying forkserver resources.
func (e *Executor[P, PS]) Close() error {
	return e.inner.Close()
}
