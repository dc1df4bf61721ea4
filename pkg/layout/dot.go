package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/schemagraph/pkg/graph"
)

// pointsPerInch converts layout units (points) to Graphviz inches.
const pointsPerInch = 72.0

// Dot lays out graphs with Graphviz's dot program, run in-process through
// go-graphviz. Layout units are points, so a 230-wide box is 230pt wide.
type Dot struct{}

// Name returns "dot".
func (Dot) Name() string { return EngineDot }

// Centers implements [Engine].
func (Dot) Centers(ctx context.Context, boxes []Box, links []Link, opts Options) (map[string]graph.Position, error) {
	if len(boxes) == 0 {
		return map[string]graph.Position{}, nil
	}
	src, names := ToDOT(boxes, links, opts)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return parsePositions(buf.Bytes(), names)
}

// ToDOT builds the DOT source for a layout request. Nodes are named n0..nN
// in box order so that entity ids never need escaping; the returned slice
// maps those indices back to box ids.
func ToDOT(boxes []Box, links []Link, opts Options) (string, []string) {
	opts.SetDefaults()
	index := make(map[string]int, len(boxes))
	names := make([]string, len(boxes))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.Direction)
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.RankSep))
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for i, b := range boxes {
		index[b.ID] = i
		names[i] = b.ID
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i, inches(b.Width), inches(b.Height))
	}

	buf.WriteString("\n")
	for _, l := range links {
		from, okF := index[l.From]
		to, okT := index[l.To]
		if !okF || !okT {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String(), names
}

func inches(points float64) string {
	return strconv.FormatFloat(points/pointsPerInch, 'f', 4, 64)
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*n(\d+)\s+\[([^\]]*)\]`)
	posRe      = regexp.MustCompile(`pos="(-?[0-9.eE+-]+),(-?[0-9.eE+-]+)"`)
	bbRe       = regexp.MustCompile(`bb="(-?[0-9.eE+-]+),(-?[0-9.eE+-]+),(-?[0-9.eE+-]+),(-?[0-9.eE+-]+)"`)
)

// parsePositions extracts node centers from laid-out DOT. Graphviz uses a
// y-up coordinate system, so y is flipped against the bounding box top.
func parsePositions(out []byte, names []string) (map[string]graph.Position, error) {
	text := strings.ReplaceAll(string(out), "\\\n", "")

	bb := bbRe.FindStringSubmatch(text)
	if bb == nil {
		return nil, fmt.Errorf("graphviz output has no bounding box")
	}
	top, err := strconv.ParseFloat(bb[4], 64)
	if err != nil {
		return nil, fmt.Errorf("parse bounding box: %w", err)
	}

	positions := make(map[string]graph.Position, len(names))
	for _, m := range nodeStmtRe.FindAllStringSubmatch(text, -1) {
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= len(names) {
			continue
		}
		pos := posRe.FindStringSubmatch(m[2])
		if pos == nil {
			continue
		}
		x, errX := strconv.ParseFloat(pos[1], 64)
		y, errY := strconv.ParseFloat(pos[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		positions[names[i]] = graph.Position{X: x, Y: top - y}
	}
	return positions, nil
}
