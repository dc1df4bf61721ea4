package view

import (
	"slices"

	"github.com/matzehuels/schemagraph/pkg/graph"
)

// Store owns the mutable view state: node positions changed by dragging and
// edge label positions changed by label drags. Everything else is derived.
type Store struct {
	nodes     []graph.Node
	edges     []graph.Edge
	index     map[string]int
	edgeIndex map[string]int
}

// NewStore returns a store holding copies of nodes and edges.
func NewStore(nodes []graph.Node, edges []graph.Edge) *Store {
	s := &Store{}
	s.Reset(nodes, edges)
	return s
}

// Reset replaces the stored graph, e.g. after a dataset reload.
func (s *Store) Reset(nodes []graph.Node, edges []graph.Edge) {
	s.nodes = slices.Clone(nodes)
	s.edges = slices.Clone(edges)
	s.index = graph.NodeIndex(s.nodes)
	s.edgeIndex = make(map[string]int, len(s.edges))
	for i, e := range s.edges {
		s.edgeIndex[e.ID] = i
	}
}

// MoveNode sets the top-left position of node id. It reports whether the
// node exists.
func (s *Store) MoveNode(id string, pos graph.Position) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.nodes[i].Position = pos
	return true
}

// SetLabelPosition stores a label override for edge id. It reports whether
// the edge exists.
func (s *Store) SetLabelPosition(id string, pos graph.Position) bool {
	i, ok := s.edgeIndex[id]
	if !ok {
		return false
	}
	s.edges[i].Data = s.edges[i].Data.WithLabelPosition(pos)
	return true
}

// Node returns the stored node id.
func (s *Store) Node(id string) (graph.Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return graph.Node{}, false
	}
	return s.nodes[i], true
}

// Nodes returns a copy of the stored nodes.
func (s *Store) Nodes() []graph.Node { return slices.Clone(s.nodes) }

// Edges returns a copy of the stored edges.
func (s *Store) Edges() []graph.Edge { return slices.Clone(s.edges) }
