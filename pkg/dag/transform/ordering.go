package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/schemagraph/pkg/dag"
)

// DefaultSweeps is the number of down/up barycenter sweeps used by
// [OrderRows] when sweeps <= 0.
const DefaultSweeps = 8

// maxTransposePasses bounds the adjacent-swap refinement.
const maxTransposePasses = 16

// OrderRows computes a left-to-right order for every row of a normalized
// graph (all edges between consecutive rows) that keeps edge crossings low.
//
// Rows start in insertion order. Each sweep reorders rows top-down by the
// mean position of each node's parents, then bottom-up by its children.
// Nodes without neighbors on the reference row keep their position. The
// ordering with the fewest crossings seen is then refined by swapping
// adjacent nodes while that strictly reduces crossings.
//
// The result is deterministic for a given graph.
func OrderRows(g *dag.DAG, sweeps int) map[int][]string {
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	if len(rows) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, best)

	for i := 0; i < sweeps && bestCrossings > 0; i++ {
		for j := 1; j < len(rows); j++ {
			reorder(orders[rows[j]], dag.PosMap(orders[rows[j-1]]), g.Parents)
		}
		for j := len(rows) - 2; j >= 0; j-- {
			reorder(orders[rows[j]], dag.PosMap(orders[rows[j+1]]), g.Children)
		}
		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}

	transpose(g, rows, best)
	return best
}

// reorder sorts row in place by the barycenter of each node's neighbors in
// the reference row.
func reorder(row []string, refPos map[string]int, neighbors func(string) []string) {
	type keyed struct {
		id string
		bc float64
	}
	items := make([]keyed, len(row))
	for i, id := range row {
		sum, n := 0, 0
		for _, nb := range neighbors(id) {
			if p, ok := refPos[nb]; ok {
				sum += p
				n++
			}
		}
		bc := float64(i)
		if n > 0 {
			bc = float64(sum) / float64(n)
		}
		items[i] = keyed{id, bc}
	}
	slices.SortStableFunc(items, func(a, b keyed) int { return cmp.Compare(a.bc, b.bc) })
	for i, it := range items {
		row[i] = it.id
	}
}

func transpose(g *dag.DAG, rows []int, orders map[int][]string) {
	for pass := 0; pass < maxTransposePasses; pass++ {
		improved := false
		for j, r := range rows {
			row := orders[r]
			var above, below map[string]int
			if j > 0 {
				above = dag.PosMap(orders[rows[j-1]])
			}
			if j+1 < len(rows) {
				below = dag.PosMap(orders[rows[j+1]])
			}
			for i := 0; i+1 < len(row); i++ {
				l, rt := row[i], row[i+1]
				now := pairCost(g, l, rt, above, below)
				swapped := pairCost(g, rt, l, above, below)
				if swapped < now {
					row[i], row[i+1] = rt, l
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func pairCost(g *dag.DAG, left, right string, above, below map[string]int) int {
	c := 0
	if above != nil {
		c += dag.CountPairCrossings(g, left, right, above, true)
	}
	if below != nil {
		c += dag.CountPairCrossings(g, left, right, below, false)
	}
	return c
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
