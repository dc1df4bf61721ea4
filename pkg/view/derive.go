package view

import (
	"strings"

	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/route"
)

// CSS-style class names set on derived elements.
const (
	ClassHighlighted = "is-highlighted"
	ClassSelected    = "is-selected"
)

// Node is a graph node as presented on the rendering surface.
type Node struct {
	graph.Node
	ClassName string `json:"className,omitempty"`
	Selected  bool   `json:"selected,omitempty"`
}

// Edge is a graph edge as presented on the rendering surface.
type Edge struct {
	graph.Edge
	ClassName string `json:"className,omitempty"`
}

// Payload is everything a rendering surface needs to draw the graph.
type Payload struct {
	Nodes     []Node         `json:"nodes"`
	Edges     []Edge         `json:"edges"`
	NodeTypes []string       `json:"nodeTypes"`
	EdgeTypes []string       `json:"edgeTypes"`
	Routes    []route.Result `json:"routes,omitempty"`
}

// Derive decorates nodes and edges with class names for the current
// highlight set and selection. A node is highlighted when its id is in
// highlight; an edge when its id or either endpoint is. Class names are
// rebuilt from the element's base class on every call, so Derive is pure
// and repeated calls give the same result.
func Derive(nodes []graph.Node, edges []graph.Edge, highlight map[string]bool, selected string) Payload {
	p := Payload{
		Nodes:     make([]Node, len(nodes)),
		Edges:     make([]Edge, len(edges)),
		NodeTypes: []string{graph.NodeTypeEntity},
		EdgeTypes: []string{graph.EdgeTypeParallelSmoothstep},
	}
	for i, n := range nodes {
		var classes []string
		if highlight[n.ID] {
			classes = append(classes, ClassHighlighted)
		}
		isSelected := selected != "" && n.ID == selected
		if isSelected {
			classes = append(classes, ClassSelected)
		}
		p.Nodes[i] = Node{Node: n, ClassName: strings.Join(classes, " "), Selected: isSelected}
	}
	for i, e := range edges {
		var class string
		if highlight[e.ID] || highlight[e.Source] || highlight[e.Target] {
			class = ClassHighlighted
		}
		p.Edges[i] = Edge{Edge: e, ClassName: class}
	}
	return p
}

// IsHighlighted reports whether class contains the highlight class.
func IsHighlighted(class string) bool {
	return hasClass(class, ClassHighlighted)
}

func hasClass(class, name string) bool {
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}
