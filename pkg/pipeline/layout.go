package pipeline

import (
	"context"

	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/layout"
	"github.com/matzehuels/schemagraph/pkg/route"
)

// Layout positions an ingested graph and, when opts.Routes is set, routes
// every edge. The input is not modified. Layout never fails: an engine error
// is reported through Result.LayoutFailed and a diagnostic.
func Layout(ctx context.Context, in *Ingested, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	engine, err := layout.EngineByName(opts.Engine)
	if err != nil {
		return nil, err
	}

	nodes := make([]graph.Node, len(in.Graph.Nodes))
	copy(nodes, in.Graph.Nodes)
	for i := range nodes {
		nodes[i].Width = opts.NodeWidth
		nodes[i].Height = opts.NodeHeight
	}

	laid := layout.Apply(ctx, engine, nodes, in.Graph.Edges, opts.Layout, opts.Logger)

	res := &Result{
		Graph:        graph.Graph{Nodes: laid.Nodes, Edges: laid.Edges},
		Direction:    opts.Layout.Direction,
		Engine:       laid.Engine,
		LayoutFailed: laid.Failed,
		Report:       in.Report,
		Diagnostics:  append(append([]Diagnostic{}, in.Diagnostics...), flatten(laid.Diagnostics)...),
	}
	if res.Graph.Edges == nil {
		res.Graph.Edges = []graph.Edge{}
	}
	if opts.Routes {
		res.Routes = route.All(res.Graph.Nodes, res.Graph.Edges, opts.Layout.Direction, opts.Route)
	}
	return res, nil
}
