// Package errs defines the sentinel error taxonomy for the butterfly core
// (see spec §7). MutationSkipped is deliberately absent here: it is
// communicated through the MutationResult enum, never as an error.
package errs

import "errors"

var (
	// ErrInvalidCorpusEntry means a stored input failed to deserialize:
	// truncation, a bad length prefix, or leftover trailing bytes.
	ErrInvalidCorpusEntry = errors.New("butterfly: invalid corpus entry")

	// ErrForkserverFailure is returned by the Executor wrapper, wrapped
	// with the inner executor's error text, when a forkserver round-trip
	// fails (not a target crash).
	ErrForkserverFailure = errors.New("butterfly: forkserver failure")

	// ErrEngineError wraps failures from the surrounding fuzzer runtime,
	// e.g. shared-memory allocation.
	ErrEngineError = errors.New("butterfly: engine error")

	// ErrObserverNotFound indicates a StateFeedback was asked to look up
	// an observer name that isn't present in the run's observer set. This
	// is a configuration bug; callers are expected to panic on it at
	// startup, never mid-fuzz.
	ErrObserverNotFound = errors.New("butterfly: observer not found")
)
