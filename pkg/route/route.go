package route

import (
	"fmt"
	"math"

	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/layout"
)

// Router defaults.
const (
	DefaultSpacing = 25.0
	DefaultRadius  = 5.0
	DefaultGap     = 20.0
)

// Options configures path geometry.
type Options struct {
	Spacing float64 `json:"spacing" msgpack:"spacing"` // distance between parallel edges
	Radius  float64 `json:"radius" msgpack:"radius"`   // corner radius
	Gap     float64 `json:"gap" msgpack:"gap"`         // straight run out of each handle
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
}

// Validate rejects negative geometry.
func (o Options) Validate() error {
	if o.Spacing < 0 || o.Radius < 0 || o.Gap < 0 {
		return fmt.Errorf("route options must not be negative (spacing=%v, radius=%v, gap=%v)", o.Spacing, o.Radius, o.Gap)
	}
	return nil
}

// Offset returns the displacement of edge index within a group of n
// parallel edges. The group is centered on the original line, so the middle
// edge of an odd group is not moved. Edges leaving a left or right side are
// shifted vertically, top and bottom horizontally, anything else diagonally.
func Offset(index, n int, side Side, spacing float64) (dx, dy float64) {
	if n <= 1 {
		return 0, 0
	}
	amount := (float64(index) - float64(n-1)/2) * spacing
	switch side {
	case SideLeft, SideRight:
		return 0, amount
	case SideTop, SideBottom:
		return amount, 0
	}
	return amount / math.Sqrt2, amount / math.Sqrt2
}

// Handles returns the default attachment points of an edge between two
// positioned nodes: source right-middle to target left-middle for LR
// layouts, source bottom-center to target top-center for TB.
func Handles(src, tgt graph.Node, dir layout.Direction) (srcPt graph.Position, srcSide Side, tgtPt graph.Position, tgtSide Side) {
	if dir == layout.DirectionTB {
		return graph.Position{X: src.Position.X + src.Width/2, Y: src.Position.Y + src.Height}, SideBottom,
			graph.Position{X: tgt.Position.X + tgt.Width/2, Y: tgt.Position.Y}, SideTop
	}
	return graph.Position{X: src.Position.X + src.Width, Y: src.Position.Y + src.Height/2}, SideRight,
		graph.Position{X: tgt.Position.X, Y: tgt.Position.Y + tgt.Height/2}, SideLeft
}

// LabelDragFunc receives the final label position of a dragged edge label.
type LabelDragFunc func(edgeID string, pos graph.Position)

// Request describes one edge to route.
type Request struct {
	Edge       graph.Edge
	Source     graph.Position
	SourceSide Side
	Target     graph.Position
	TargetSide Side
	Options    Options

	// OnLabelDrag is called by [Request.DragEnd]. The router keeps no state;
	// the callback owner persists the position.
	OnLabelDrag LabelDragFunc
}

// DragEnd reports a finished label drag to OnLabelDrag, if set.
func (r Request) DragEnd(pos graph.Position) {
	if r.OnLabelDrag != nil {
		r.OnLabelDrag(r.Edge.ID, pos)
	}
}

// Result is a routed edge.
type Result struct {
	EdgeID string         `json:"edgeId"`
	Path   Path           `json:"path"`
	Label  graph.Position `json:"label"`
	Offset graph.Position `json:"offset"`
}

// Route shifts both endpoints by the parallel offset chosen from the source
// side, builds the smooth-step path and anchors the label at the edge's
// stored label position when it has one.
func Route(req Request) Result {
	opts := req.Options
	opts.SetDefaults()

	dx, dy := Offset(req.Edge.Data.ParallelIndex, req.Edge.Data.NumParallel, req.SourceSide, opts.Spacing)
	src := graph.Position{X: req.Source.X + dx, Y: req.Source.Y + dy}
	tgt := graph.Position{X: req.Target.X + dx, Y: req.Target.Y + dy}

	path := SmoothStep(src, req.SourceSide, tgt, req.TargetSide, opts.Radius, opts.Gap)
	return Result{
		EdgeID: req.Edge.ID,
		Path:   path,
		Label:  req.Edge.Data.LabelAt(path.Label),
		Offset: graph.Position{X: dx, Y: dy},
	}
}

// All routes every edge of a positioned graph with default handles. Edges
// whose endpoints are missing from nodes are skipped.
func All(nodes []graph.Node, edges []graph.Edge, dir layout.Direction, opts Options) []Result {
	idx := graph.NodeIndex(nodes)
	out := make([]Result, 0, len(edges))
	for _, e := range edges {
		si, okS := idx[e.Source]
		ti, okT := idx[e.Target]
		if !okS || !okT {
			continue
		}
		sp, ss, tp, ts := Handles(nodes[si], nodes[ti], dir)
		out = append(out, Route(Request{
			Edge: e, Source: sp, SourceSide: ss, Target: tp, TargetSide: ts, Options: opts,
		}))
	}
	return out
}
