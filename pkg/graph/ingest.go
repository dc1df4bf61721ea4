package graph

import (
	"fmt"
	"regexp"

	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/schema"
)

// IngestReport summarizes what [Ingest] accepted and dropped.
type IngestReport struct {
	Records    int // input elements, including skipped ones
	Nodes      int
	Edges      int
	Skipped    int // records rejected by validation
	Duplicates int
	Dangling   int // relations whose target was never ingested

	Diagnostics errors.Diagnostics
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// EdgeID builds the identifier of the seq-th processed relation.
func EdgeID(seq int, source, target, label string) string {
	id := fmt.Sprintf("e-%d-%s-to-%s", seq, source, target)
	if s := nonAlnum.ReplaceAllString(label, ""); s != "" {
		id += "-" + s
	}
	return id
}

// Ingest converts entity records into nodes and edges without positions or
// parallel metadata.
//
// Records missing a required field are skipped. Colors cycle over the
// original input index, so skipped records still advance the cycle. The
// first record with a given id wins; later ones are dropped, though their
// relations are still attached to the surviving node.
//
// Relations are numbered globally in input order. Every relation with a
// non-empty target consumes a sequence number, even when its target was never
// ingested and no edge is emitted.
func Ingest(records []schema.EntityRecord, palette Palette) (Graph, IngestReport) {
	report := IngestReport{Records: len(records)}
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	index := make(map[string]int, len(records))

	for i, rec := range records {
		if err := schema.Validate(rec); err != nil {
			report.Skipped++
			report.Diagnostics.Add(errors.LevelWarn, errors.ErrCodeInvalidRecord, rec.Identifier(),
				"skipping malformed record at index %d: %v", i, err)
			continue
		}
		id := rec.Identifier()
		if _, dup := index[id]; dup {
			report.Duplicates++
			report.Diagnostics.Add(errors.LevelWarn, errors.ErrCodeDuplicateNode, id,
				"skipping duplicate entity %q (%s) at index %d", id, rec.TitleOrEmpty(), i)
			continue
		}
		index[id] = len(g.Nodes)
		g.Nodes = append(g.Nodes, newNode(rec, palette.At(i)))
	}

	seq := 0
	for _, rec := range records {
		src := rec.Identifier()
		at, ok := index[src]
		if src == "" || !ok || rec.Relations == nil {
			continue
		}
		color := g.Nodes[at].Color
		for _, rel := range rec.Relations {
			if rel.TargetID == "" {
				continue
			}
			id := EdgeID(seq, src, rel.TargetID, rel.Property)
			seq++
			if _, ok := index[rel.TargetID]; !ok {
				report.Dangling++
				report.Diagnostics.Add(errors.LevelDebug, errors.ErrCodeDanglingRelation, src,
					"ignoring relation %q from %q to unknown entity %q", rel.Property, src, rel.TargetID)
				continue
			}
			g.Edges = append(g.Edges, newEdge(id, src, rel.TargetID, rel.Property, color))
		}
	}

	report.Nodes = len(g.Nodes)
	report.Edges = len(g.Edges)
	return g, report
}
