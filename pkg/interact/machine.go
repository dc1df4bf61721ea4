// Package interact tracks hover highlighting and node selection for an
// interactive schema graph view.
//
// The [Machine] has four states. Hovering a node or edge highlights it
// together with its neighborhood; clicking a node selects it and clears the
// highlight. While a node is selected hover events are ignored until the
// selection is closed.
package interact

import (
	"slices"

	"github.com/matzehuels/schemagraph/pkg/graph"
)

// State is the interaction state.
type State int

const (
	Idle State = iota
	HoveringNode
	HoveringEdge
	Selected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HoveringNode:
		return "hovering-node"
	case HoveringEdge:
		return "hovering-edge"
	case Selected:
		return "selected"
	}
	return "unknown"
}

type endpoints struct {
	source, target string
}

// Machine is the interaction state machine. The zero value is not usable;
// create one with [New]. A Machine is not safe for concurrent use.
type Machine struct {
	state     State
	selected  string
	highlight map[string]struct{}

	edges    map[string]endpoints // edge id -> endpoints
	incident map[string][]string  // node id -> incident edge ids
}

// New returns an idle machine for edges.
func New(edges []graph.Edge) *Machine {
	m := &Machine{}
	m.SetEdges(edges)
	return m
}

// SetEdges replaces the edge index, e.g. after a dataset reload, and resets
// the machine to Idle.
func (m *Machine) SetEdges(edges []graph.Edge) {
	m.edges = make(map[string]endpoints, len(edges))
	m.incident = make(map[string][]string)
	for _, e := range edges {
		m.edges[e.ID] = endpoints{source: e.Source, target: e.Target}
		m.incident[e.Source] = append(m.incident[e.Source], e.ID)
		if e.Target != e.Source {
			m.incident[e.Target] = append(m.incident[e.Target], e.ID)
		}
	}
	m.reset()
}

func (m *Machine) reset() {
	m.state = Idle
	m.selected = ""
	m.highlight = map[string]struct{}{}
}

// EnterNode highlights the node, its incident edges and their endpoints.
func (m *Machine) EnterNode(id string) {
	if m.state == Selected {
		return
	}
	hl := map[string]struct{}{id: {}}
	for _, eid := range m.incident[id] {
		ep := m.edges[eid]
		hl[eid] = struct{}{}
		hl[ep.source] = struct{}{}
		hl[ep.target] = struct{}{}
	}
	m.state, m.highlight = HoveringNode, hl
}

// EnterEdge highlights the edge and both endpoints.
func (m *Machine) EnterEdge(id string) {
	if m.state == Selected {
		return
	}
	hl := map[string]struct{}{id: {}}
	if ep, ok := m.edges[id]; ok {
		hl[ep.source] = struct{}{}
		hl[ep.target] = struct{}{}
	}
	m.state, m.highlight = HoveringEdge, hl
}

// LeaveNode clears the highlight.
func (m *Machine) LeaveNode() { m.leave() }

// LeaveEdge clears the highlight.
func (m *Machine) LeaveEdge() { m.leave() }

func (m *Machine) leave() {
	if m.state == Selected {
		return
	}
	m.reset()
}

// ClickNode selects id from any state and clears the highlight.
func (m *Machine) ClickNode(id string) {
	m.state = Selected
	m.selected = id
	m.highlight = map[string]struct{}{}
}

// Close drops the selection. It is a no-op unless a node is selected.
func (m *Machine) Close() {
	if m.state != Selected {
		return
	}
	m.reset()
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Selected returns the selected node id.
func (m *Machine) Selected() (string, bool) {
	return m.selected, m.state == Selected
}

// Highlighted returns the highlighted node and edge ids in sorted order.
func (m *Machine) Highlighted() []string {
	out := make([]string, 0, len(m.highlight))
	for id := range m.highlight {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// HighlightSet returns a copy of the highlighted ids as a set.
func (m *Machine) HighlightSet() map[string]bool {
	out := make(map[string]bool, len(m.highlight))
	for id := range m.highlight {
		out[id] = true
	}
	return out
}
