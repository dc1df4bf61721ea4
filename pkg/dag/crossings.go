package dag

import (
	"maps"
	"slices"
)

// CountCrossings sums edge crossings between every pair of consecutive rows
// for the given orderings. Rows missing from orders are treated as empty.
//
//	orders := map[int][]string{
//	    0: {"accounts", "teams"},
//	    1: {"users", "roles", "invoices"},
//	}
//	n := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]string) int {
	rows := slices.Sorted(maps.Keys(orders))
	total := 0
	for i := 0; i+1 < len(rows); i++ {
		total += CountLayerCrossings(g, orders[rows[i]], orders[rows[i]+1])
	}
	return total
}

// CountLayerCrossings counts crossings between the edges joining upper and
// lower. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and v1 is
// right of v2, so the count equals the number of inversions in the target
// positions once edges are sorted by source position. A Fenwick tree keeps
// this at O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type span struct{ from, to int }
	spans := make([]span, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if p, ok := lowerPos[child]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}
	slices.SortFunc(spans, func(a, b span) int {
		if a.from != b.from {
			return a.from - b.from
		}
		return a.to - b.to
	})

	tree := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, s := range spans {
		atMost := 0
		for q := s.to + 1; q > 0; q -= q & -q {
			atMost += tree[q]
		}
		crossings += seen - atMost
		seen++
		for q := s.to + 1; q < len(tree); q += q & -q {
			tree[q]++
		}
	}
	return crossings
}

// CountPairCrossings counts crossings between the edges of two nodes placed
// left and right of each other in the same row, against the adjacent row
// whose positions are given by adjPos. With useParents the row above is
// considered, otherwise the row below. Neighbors missing from adjPos are
// ignored.
func CountPairCrossings(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	neighbors := g.Children
	if useParents {
		neighbors = g.Parents
	}

	crossings := 0
	for _, ln := range neighbors(left) {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range neighbors(right) {
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
