package pipeline

import (
	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/schema"
)

// Ingested is the output of the ingest stage. Edges carry their parallel
// group metadata; nodes have no position yet.
type Ingested struct {
	Graph       graph.Graph  `json:"graph"`
	Report      Report       `json:"report"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Ingest decodes data and builds the unpositioned graph. It fails only when
// the bytes are not a valid document in opts.Format; malformed records and
// dangling relations become diagnostics.
func Ingest(data []byte, opts Options) (*Ingested, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	ds, err := schema.Decode(data, opts.Format)
	if err != nil {
		return nil, err
	}

	g, rep := graph.Ingest(ds.Records, opts.Palette)
	groups := graph.GroupParallel(g.Edges)

	var diags errors.Diagnostics
	diags = append(diags, ds.Diagnostics...)
	diags = append(diags, rep.Diagnostics...)

	return &Ingested{
		Graph: g,
		Report: Report{
			Records:    rep.Records,
			Nodes:      rep.Nodes,
			Edges:      rep.Edges,
			Skipped:    rep.Skipped,
			Duplicates: rep.Duplicates,
			Dangling:   rep.Dangling,
			Groups:     groups,
		},
		Diagnostics: flatten(diags),
	}, nil
}
