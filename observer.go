package butterfly

import "bytes"

// StateObserver is the run-scoped facade over the state graph (component
// D). The executor wrapper (component I) calls Record whenever it infers
// a target state from the response stream; StateFeedback (component E)
// consults HadNewTransitions and Info after each run.
type StateObserver[PS comparable] struct {
	name  string
	graph *stateGraph[PS]
}

// NewStateObserver creates a named StateObserver. The name is how
// StateFeedback finds this observer in an Observers set.
func NewStateObserver[PS comparable](name string) *StateObserver[PS] {
	return &StateObserver[PS]{
		name:  name,
		graph: newStateGraph[PS](),
	}
}

// Name returns the observer's registration name.
func (o *StateObserver[PS]) Name() string {
	return o.name
}

// Record tells the observer that the target has entered state.
func (o *StateObserver[PS]) Record(state PS) {
	node := o.graph.addNode(state)
	o.graph.addEdge(node)
}

// preExec resets the graph's per-run tracking before a new target run.
// Node and edge sets survive across runs.
func (o *StateObserver[PS]) preExec() {
	o.graph.reset()
}

// HadNewTransitions reports whether the last run discovered a new edge.
func (o *StateObserver[PS]) HadNewTransitions() bool {
	return o.graph.newTransitions
}

// Info returns the current vertex and edge counts.
func (o *StateObserver[PS]) Info() (nodes, edges int) {
	return o.graph.info()
}

// GetStateMachine renders the observed graph as a DOT digraph.
func (o *StateObserver[PS]) GetStateMachine() string {
	var buf bytes.Buffer
	_ = o.graph.writeDOT(&buf)
	return buf.String()
}
