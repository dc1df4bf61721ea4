package layout

import (
	"context"
	"math"

	"github.com/matzehuels/schemagraph/pkg/dag"
	"github.com/matzehuels/schemagraph/pkg/dag/transform"
	"github.com/matzehuels/schemagraph/pkg/graph"
)

// Layered is a pure Go Sugiyama-style engine built on [dag.DAG].
//
// It breaks cycles, ranks nodes by longest path, subdivides long edges,
// orders ranks to reduce crossings and then assigns coordinates. Ranks are
// RankSep apart, measured between the thickest boxes of neighboring ranks.
// Inside a rank, boxes are at least NodeSep apart and pulled toward the mean
// position of their predecessors.
type Layered struct{}

// Name returns "layered".
func (Layered) Name() string { return EngineLayered }

// Centers implements [Engine].
func (Layered) Centers(ctx context.Context, boxes []Box, links []Link, opts Options) (map[string]graph.Position, error) {
	g, err := buildDAG(boxes, links)
	if err != nil {
		return nil, err
	}
	transform.BreakCycles(g)
	transform.AssignLayers(g)
	transform.Subdivide(g)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	orders := transform.OrderRows(g, opts.Sweeps)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	horizontal := opts.Horizontal()
	along := func(n *dag.Node) float64 { // extent on the rank axis
		if horizontal {
			return n.Width
		}
		return n.Height
	}
	across := func(n *dag.Node) float64 {
		if horizontal {
			return n.Height
		}
		return n.Width
	}

	rows := g.RowIDs()
	rankCenter := make(map[int]float64, len(rows))
	offset := 0.0
	for i, r := range rows {
		thick := 0.0
		for _, id := range orders[r] {
			n, _ := g.Node(id)
			thick = math.Max(thick, along(n))
		}
		if i > 0 {
			offset += opts.RankSep
		}
		rankCenter[r] = offset + thick/2
		offset += thick
	}

	cross := make(map[string]float64, g.NodeCount())
	minEdge := math.Inf(1)
	for _, r := range rows {
		cursor := math.Inf(-1)
		for _, id := range orders[r] {
			n, _ := g.Node(id)
			half := across(n) / 2
			floor := cursor + opts.NodeSep + half
			if math.IsInf(cursor, -1) {
				floor = math.Inf(-1)
			}

			c, ok := parentMean(g, id, cross)
			if !ok {
				if math.IsInf(cursor, -1) {
					c = half
				} else {
					c = floor
				}
			}
			c = math.Max(c, floor)
			cross[id] = c
			cursor = c + half
			minEdge = math.Min(minEdge, c-half)
		}
	}
	if math.IsInf(minEdge, 1) {
		minEdge = 0
	}

	out := make(map[string]graph.Position, len(boxes))
	for _, b := range boxes {
		n, ok := g.Node(b.ID)
		if !ok {
			continue
		}
		a, c := rankCenter[n.Row], cross[n.ID]-minEdge
		if horizontal {
			out[b.ID] = graph.Position{X: a, Y: c}
		} else {
			out[b.ID] = graph.Position{X: c, Y: a}
		}
	}
	return out, nil
}

func parentMean(g *dag.DAG, id string, placed map[string]float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range g.Parents(id) {
		if c, ok := placed[p]; ok {
			sum += c
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// buildDAG creates the working graph. Parallel links and self-loops carry no
// extra ranking information and are collapsed.
func buildDAG(boxes []Box, links []Link) (*dag.DAG, error) {
	g := dag.New()
	for _, b := range boxes {
		if err := g.AddNode(dag.Node{ID: b.ID, Width: b.Width, Height: b.Height}); err != nil {
			return nil, err
		}
	}
	for _, l := range links {
		if l.From == l.To || g.HasEdge(l.From, l.To) {
			continue
		}
		if err := g.AddEdge(dag.Edge{From: l.From, To: l.To}); err != nil {
			return nil, err
		}
	}
	return g, nil
}
