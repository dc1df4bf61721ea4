package transform

import (
	"fmt"

	"github.com/matzehuels/schemagraph/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// zero-sized [dag.NodeKindSubdivider] nodes, one per intermediate row:
//
//	Before: accounts (row 0) → invoices (row 3)
//	After:  accounts → accounts_sub_1 → accounts_sub_2 → invoices
//
// Subdivider IDs have the form "<source>_sub_<row>", with a "__<n>" suffix
// on collision. Each keeps the edge's source as MasterID. Subdivide returns
// the number of subdividers added.
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g.Nodes())
	added := 0

	var long []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if srcOK && dstOK && dst.Row > src.Row+1 {
			long = append(long, e)
		}
	}

	for _, e := range long {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		g.RemoveEdge(e.From, e.To)

		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(src.ID, row)
			mustAdd(g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindSubdivider, MasterID: src.ID}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			prev = id
			added++
		}
		mustAdd(g.AddEdge(dag.Edge{From: prev, To: dst.ID}))
	}
	return added
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
