package layout

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/graph"
)

// Result is the outcome of [Apply].
type Result struct {
	// Nodes are copies of the input nodes with Position set to the top-left
	// corner of each box.
	Nodes []graph.Node

	// Edges is the input edge slice, untouched.
	Edges []graph.Edge

	Engine      string
	Failed      bool // the engine failed and every node sits at the origin
	Diagnostics errors.Diagnostics
}

// Apply positions nodes with engine. It never fails:
//
//   - edges with an endpoint outside nodes are ignored
//   - if the engine errors or panics, every node is placed at (0,0)
//   - a node the engine did not place is put at (0,0)
//
// Engines return box centers. Apply converts them to top-left corners by
// subtracting half the node's width and height.
func Apply(ctx context.Context, engine Engine, nodes []graph.Node, edges []graph.Edge, opts Options, logger *log.Logger) Result {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	opts.SetDefaults()

	res := Result{
		Nodes:  slices.Clone(nodes),
		Edges:  edges,
		Engine: engine.Name(),
	}
	if res.Nodes == nil {
		res.Nodes = []graph.Node{}
	}

	boxes := make([]Box, len(res.Nodes))
	for i := range res.Nodes {
		n := &res.Nodes[i]
		if n.Width <= 0 {
			n.Width = graph.NodeWidth
		}
		if n.Height <= 0 {
			n.Height = graph.NodeHeight
		}
		boxes[i] = Box{ID: n.ID, Width: n.Width, Height: n.Height}
	}

	idx := graph.NodeIndex(res.Nodes)
	links := make([]Link, 0, len(edges))
	for _, e := range edges {
		_, okS := idx[e.Source]
		_, okT := idx[e.Target]
		if !okS || !okT {
			res.Diagnostics.Add(errors.LevelDebug, errors.ErrCodeDanglingEdge, e.ID,
				"skipping edge %s: endpoint not found", e.ID)
			logger.Debug("skipping edge in layout", "edge", e.ID, "source", e.Source, "target", e.Target)
			continue
		}
		links = append(links, Link{From: e.Source, To: e.Target})
	}

	centers, err := safeCenters(ctx, engine, boxes, links, opts)
	if err != nil {
		res.Failed = true
		res.Diagnostics.Add(errors.LevelError, errors.ErrCodeLayoutFailed, engine.Name(),
			"layout engine %s failed: %v", engine.Name(), err)
		logger.Error("layout failed, placing nodes at origin", "engine", engine.Name(), "err", err)
		for i := range res.Nodes {
			res.Nodes[i].Position = graph.Position{}
		}
		return res
	}

	for i := range res.Nodes {
		n := &res.Nodes[i]
		c, ok := centers[n.ID]
		if !ok {
			n.Position = graph.Position{}
			res.Diagnostics.Add(errors.LevelWarn, errors.ErrCodeMissingPosition, n.ID,
				"engine %s computed no position for %q", engine.Name(), n.ID)
			logger.Warn("no position computed, using origin", "node", n.ID, "engine", engine.Name())
			continue
		}
		n.Position = graph.Position{X: c.X - n.Width/2, Y: c.Y - n.Height/2}
	}
	return res
}

func safeCenters(ctx context.Context, engine Engine, boxes []Box, links []Link, opts Options) (centers map[string]graph.Position, err error) {
	defer func() {
		if r := recover(); r != nil {
			centers, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return engine.Centers(ctx, boxes, links, opts)
}
