package transform_test

import (
	"fmt"

	"github.com/matzehuels/schemagraph/pkg/dag"
	"github.com/matzehuels/schemagraph/pkg/dag/transform"
)

func ExampleAssignLayers() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "accounts"})
	_ = g.AddNode(dag.Node{ID: "users"})
	_ = g.AddNode(dag.Node{ID: "roles"})
	_ = g.AddEdge(dag.Edge{From: "accounts", To: "users"})
	_ = g.AddEdge(dag.Edge{From: "users", To: "roles"})

	transform.AssignLayers(g)

	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Row)
	}
	// Output:
	// accounts 0
	// users 1
	// roles 2
}

func ExampleSubdivide() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "accounts", Row: 0})
	_ = g.AddNode(dag.Node{ID: "invoices", Row: 3})
	_ = g.AddEdge(dag.Edge{From: "accounts", To: "invoices"})

	fmt.Println("Subdividers:", transform.Subdivide(g))
	fmt.Println("Nodes:", g.NodeCount())
	// Output:
	// Subdividers: 2
	// Nodes: 4
}

func ExampleBreakCycles() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "A"})
	_ = g.AddNode(dag.Node{ID: "B"})
	_ = g.AddNode(dag.Node{ID: "C"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "B"})
	_ = g.AddEdge(dag.Edge{From: "B", To: "C"})
	_ = g.AddEdge(dag.Edge{From: "C", To: "A"})

	fmt.Println("Back edges:", transform.BreakCycles(g))
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Back edges: 1
	// Edges: 3
}
