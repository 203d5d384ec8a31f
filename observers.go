package butterfly

import "sync"

// Observers is the run-scoped set of named observers, standing in for
// libafl's heterogeneous ObserversTuple: the fuzzer client registers its
// observers here once at startup, and feedbacks look up the observer they
// care about by name. A missing
// name or a type mismatch is a configuration bug (see spec §7) — callers
// are expected to fail loudly at startup, never mid-fuzz.
type Observers struct {
	mu     sync.RWMutex
	byName map[string]any
}

// NewObservers creates an empty observer set.
func NewObservers() *Observers {
	return &Observers{byName: make(map[string]any)}
}

// Register adds or replaces the observer stored under name.
func (o *Observers) Register(name string, observer any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.byName[name] = observer
}

// Lookup returns the observer registered under name, if any.
func (o *Observers) Lookup(name string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.byName[name]
	return v, ok
}

// PreExecAll resets every observer that implements preExecer before a
// target run. Executor.Run does not call it; it resets its own
// StateObserver directly (see executor.go).
func (o *Observers) PreExecAll() {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, v := range o.byName {
		if pe, ok := v.(preExecer); ok {
			pe.preExec()
		}
	}
}

type preExecer interface {
	preExec()
}

// StateObserverByName fetches and type-asserts the named observer.
func StateObserverByName[PS comparable](o *Observers, name string) (*StateObserver[PS], bool) {
	v, ok := o.Lookup(name)
	if !ok {
		return nil, false
	}
	obs, ok := v.(*StateObserver[PS])
	return obs, ok
}
