package transform

import "github.com/matzehuels/schemagraph/pkg/dag"

// BreakCycles makes g acyclic by reversing the back edges found by a
// depth-first search started from the sources, then from every remaining
// node, in insertion order.
//
// Reversing instead of deleting keeps the relation's influence on ranking.
// Self-loops cannot be reversed and are dropped, as is any reversed edge that
// would duplicate an existing one. BreakCycles returns the number of back
// edges handled.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
		if e.From == e.To || g.HasEdge(e.To, e.From) {
			continue
		}
		if err := g.AddEdge(dag.Edge{From: e.To, To: e.From}); err != nil {
			panic(err)
		}
	}
	return len(backEdges)
}
