package butterfly

import (
	"io"

	"github.com/nathaniel-bennett/butterfly/pkg/dot"
)

func packTransition(from, to uint32) uint64 {
	return uint64(from)<<32 | uint64(to)
}

func unpackTransition(t uint64) (from, to uint32) {
	return uint32(t >> 32), uint32(t)
}

// stateGraph is the labeled digraph of observed target states (component
// C). It is monotonic across runs within one process: nodes and edges are
// only ever added, never removed.
type stateGraph[PS comparable] struct {
	nodes map[PS]uint32
	edges map[uint64]struct{}

	lastNode       *uint32
	newTransitions bool
}

func newStateGraph[PS comparable]() *stateGraph[PS] {
	return &stateGraph[PS]{
		nodes: make(map[PS]uint32),
		edges: make(map[uint64]struct{}),
	}
}

// addNode returns the existing node id for state, assigning a new
// sequential id on first sight. Ids are stable for the graph's lifetime.
func (g *stateGraph[PS]) addNode(state PS) uint32 {
	if id, ok := g.nodes[state]; ok {
		return id
	}

	id := uint32(len(g.nodes))
	g.nodes[state] = id
	return id
}

// addEdge records a transition into id from the previously recorded node
// in this run, if any. The first observation of a run has no predecessor
// and creates no edge. Self-loops (id == lastNode) are never recorded.
func (g *stateGraph[PS]) addEdge(id uint32) {
	if g.lastNode != nil && *g.lastNode != id {
		key := packTransition(*g.lastNode, id)
		if _, exists := g.edges[key]; !exists {
			g.edges[key] = struct{}{}
			g.newTransitions = true
		}
	}

	last := id
	g.lastNode = &last
}

// reset clears the per-run tracking state before a new target run. Node
// and edge sets are preserved.
func (g *stateGraph[PS]) reset() {
	g.lastNode = nil
	g.newTransitions = false
}

func (g *stateGraph[PS]) info() (nodes, edges int) {
	return len(g.nodes), len(g.edges)
}

// writeDOT emits `digraph IMPLEMENTED_STATE_MACHINE { "from"->"to"; ... }`
// labeling vertices by node id, not by the PS value itself.
func (g *stateGraph[PS]) writeDOT(w io.Writer) error {
	edges := make([][2]uint32, 0, len(g.edges))
	for key := range g.edges {
		from, to := unpackTransition(key)
		edges = append(edges, [2]uint32{from, to})
	}
	return dot.WriteDigraph(w, "IMPLEMENTED_STATE_MACHINE", edges)
}
