package transform

import "github.com/matzehuels/schemagraph/pkg/dag"

// AssignLayers assigns every node the length of the longest path reaching it
// from a source, using Kahn's topological traversal. Sources land on row 0
// and every edge points to a strictly higher row. Existing rows are
// overwritten.
//
// AssignLayers assumes g is acyclic. Nodes on a cycle never reach in-degree
// zero and stay on row 0, so run [BreakCycles] first.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		rows[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
