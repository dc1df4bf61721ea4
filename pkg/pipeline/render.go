package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/view"
)

// Payload derives the rendering-surface payload of a result, with nothing
// highlighted or selected.
func Payload(res *Result) view.Payload {
	p := view.Derive(res.Graph.Nodes, res.Graph.Edges, nil, "")
	p.Routes = res.Routes
	return p
}

// Render encodes a result in the given output format.
func Render(res *Result, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, res, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a result in the given output format to w. Payloads and
// graph files are both indented JSON.
func Write(w io.Writer, res *Result, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if format == FormatGraph {
		return graph.WriteGraph(res.Graph, w)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Payload(res)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode payload")
	}
	return nil
}

// WriteFile writes a result to path in the given output format. Graph
// files can be read back with [graph.ReadGraphFile].
func WriteFile(path string, res *Result, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if format == FormatGraph {
		return graph.WriteGraphFile(res.Graph, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, res, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
