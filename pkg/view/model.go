package view

import (
	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/interact"
	"github.com/matzehuels/schemagraph/pkg/layout"
	"github.com/matzehuels/schemagraph/pkg/route"
)

// PositionChange is a node moved on the rendering surface.
type PositionChange struct {
	ID       string
	Position graph.Position
}

// Handlers is the set of callbacks a rendering surface invokes.
type Handlers struct {
	OnNodeClick           func(id string)
	OnNodeHoverEnter      func(id string)
	OnNodeHoverLeave      func()
	OnEdgeHoverEnter      func(id string)
	OnEdgeHoverLeave      func()
	OnPaneClick           func() // background click or close button
	OnNodesPositionChange func(changes []PositionChange)
	OnEdgesChange         func(edgeID string, label graph.Position)
}

// Model binds a [Store] to an [interact.Machine] and derives payloads from
// both.
type Model struct {
	store   *Store
	machine *interact.Machine

	// OnChange, if set, is called after any handler changed the view.
	OnChange func()
}

// NewModel returns a model for a positioned graph.
func NewModel(nodes []graph.Node, edges []graph.Edge) *Model {
	return &Model{
		store:   NewStore(nodes, edges),
		machine: interact.New(edges),
	}
}

// Reset replaces the graph and resets the interaction state.
func (m *Model) Reset(nodes []graph.Node, edges []graph.Edge) {
	m.store.Reset(nodes, edges)
	m.machine.SetEdges(edges)
	m.changed()
}

// Store returns the underlying store.
func (m *Model) Store() *Store { return m.store }

// Machine returns the underlying interaction machine.
func (m *Model) Machine() *interact.Machine { return m.machine }

// SelectedNode returns the selected node, if any.
func (m *Model) SelectedNode() (graph.Node, bool) {
	id, ok := m.machine.Selected()
	if !ok {
		return graph.Node{}, false
	}
	return m.store.Node(id)
}

// Payload derives the current payload.
func (m *Model) Payload() Payload {
	id, _ := m.machine.Selected()
	return Derive(m.store.Nodes(), m.store.Edges(), m.machine.HighlightSet(), id)
}

// PayloadWithRoutes derives the current payload and routes every edge.
func (m *Model) PayloadWithRoutes(dir layout.Direction, opts route.Options) Payload {
	p := m.Payload()
	p.Routes = route.All(m.store.Nodes(), m.store.Edges(), dir, opts)
	return p
}

// Handlers returns callbacks wired to the model.
func (m *Model) Handlers() Handlers {
	return Handlers{
		OnNodeClick: func(id string) {
			m.machine.ClickNode(id)
			m.changed()
		},
		OnNodeHoverEnter: func(id string) {
			m.machine.EnterNode(id)
			m.changed()
		},
		OnNodeHoverLeave: func() {
			m.machine.LeaveNode()
			m.changed()
		},
		OnEdgeHoverEnter: func(id string) {
			m.machine.EnterEdge(id)
			m.changed()
		},
		OnEdgeHoverLeave: func() {
			m.machine.LeaveEdge()
			m.changed()
		},
		OnPaneClick: func() {
			m.machine.Close()
			m.changed()
		},
		OnNodesPositionChange: func(changes []PositionChange) {
			for _, c := range changes {
				m.store.MoveNode(c.ID, c.Position)
			}
			m.changed()
		},
		OnEdgesChange: func(edgeID string, label graph.Position) {
			m.store.SetLabelPosition(edgeID, label)
			m.changed()
		},
	}
}

// LabelDragFunc returns a router callback that stores dragged label
// positions in the model.
func (m *Model) LabelDragFunc() route.LabelDragFunc {
	h := m.Handlers()
	return h.OnEdgesChange
}

func (m *Model) changed() {
	if m.OnChange != nil {
		m.OnChange()
	}
}
