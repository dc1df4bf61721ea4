package graph

// pairKey identifies an ordered (source, target) group.
type pairKey struct{ source, target string }

// GroupParallel annotates each edge with its rank inside the group of edges
// sharing the same ordered (source, target) pair, and the group size.
// Ranks follow slice order. Edges are modified in place and never reordered.
// It returns the number of groups.
func GroupParallel(edges []Edge) int {
	groups := make(map[pairKey][]int)
	for i, e := range edges {
		k := pairKey{e.Source, e.Target}
		groups[k] = append(groups[k], i)
	}
	for _, members := range groups {
		for rank, i := range members {
			edges[i].Data.ParallelIndex = rank
			edges[i].Data.NumParallel = len(members)
		}
	}
	return len(groups)
}

// NodeIndex maps node ids to their slice position.
func NodeIndex(nodes []Node) map[string]int {
	m := make(map[string]int, len(nodes))
	for i, n := range nodes {
		m[n.ID] = i
	}
	return m
}
