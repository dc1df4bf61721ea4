package graph

import "github.com/matzehuels/schemagraph/pkg/schema"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Fixed node box used for layout sizing.
const (
	NodeWidth  = 230.0
	NodeHeight = 120.0
)

// Renderer registry names.
const (
	NodeTypeEntity             = "entity"
	EdgeTypeParallelSmoothstep = "parallelSmoothstep"
	MarkerArrowClosed          = "arrowclosed"
)

// Edge decoration defaults.
const (
	EdgeStrokeWidth = 2.0
	MarkerSize      = 20.0
)

// UntitledLabel is displayed for entities with an empty title.
const UntitledLabel = "Untitled"

// =============================================================================
// Palette
// =============================================================================

// Palette is a cyclic list of colors assigned to nodes by input index.
type Palette []string

// DefaultPalette is used when no palette is configured.
var DefaultPalette = Palette{
	"#ef4444", "#f59e0b", "#10b981", "#14b8a6", "#3b82f6",
	"#8b5cf6", "#6366f1", "#ec4899", "#d946ef", "#a3a3a3",
}

// At returns the color for input index i, wrapping around the palette.
// An empty palette falls back to [DefaultPalette].
func (p Palette) At(i int) string {
	if len(p) == 0 {
		p = DefaultPalette
	}
	return p[i%len(p)]
}

// =============================================================================
// Graph - Positioned Schema Graph
// =============================================================================

// Graph is the serialization format for an ingested, optionally laid-out
// schema graph.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Position is a 2D point. For nodes it is the top-left corner.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// =============================================================================
// Node - Entity
// =============================================================================

// Node is one ingested entity.
type Node struct {
	ID         string   `json:"id" bson:"id"`
	Type       string   `json:"type" bson:"type"`
	Label      string   `json:"label" bson:"label"`
	Color      string   `json:"color" bson:"color"`
	Keys       []string `json:"keys" bson:"keys"`
	Timestamps []string `json:"timestamps" bson:"timestamps"`
	Fields     []string `json:"fields" bson:"fields"`
	Position   Position `json:"position" bson:"position"`
	Width      float64  `json:"width" bson:"width"`
	Height     float64  `json:"height" bson:"height"`
}

// Center returns the midpoint of the node box.
func (n *Node) Center() Position {
	return Position{X: n.Position.X + n.Width/2, Y: n.Position.Y + n.Height/2}
}

func newNode(rec schema.EntityRecord, color string) Node {
	label := rec.TitleOrEmpty()
	if label == "" {
		label = UntitledLabel
	}
	n := Node{
		ID:         rec.Identifier(),
		Type:       NodeTypeEntity,
		Label:      label,
		Color:      color,
		Keys:       []string{},
		Timestamps: []string{},
		Fields:     []string{},
		Width:      NodeWidth,
		Height:     NodeHeight,
	}
	if p := rec.Schema; p != nil {
		if p.Keys != nil {
			n.Keys = p.Keys
		}
		if p.Timestamps != nil {
			n.Timestamps = p.Timestamps
		}
		if p.Fields != nil {
			n.Fields = p.Fields
		}
	}
	return n
}

// =============================================================================
// Edge - Relation
// =============================================================================

// EdgeStyle is the stroke of an edge path.
type EdgeStyle struct {
	Stroke      string  `json:"stroke" bson:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" bson:"stroke_width"`
}

// Marker is the arrow head drawn at the target end.
type Marker struct {
	Type   string  `json:"type" bson:"type"`
	Color  string  `json:"color" bson:"color"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// EdgeData carries parallel-group metadata and an optional label override.
type EdgeData struct {
	ParallelIndex int      `json:"parallelIndex" bson:"parallel_index"`
	NumParallel   int      `json:"numParallel" bson:"num_parallel"`
	LabelX        *float64 `json:"labelX,omitempty" bson:"label_x,omitempty"`
	LabelY        *float64 `json:"labelY,omitempty" bson:"label_y,omitempty"`
}

// LabelPosition returns the label override, if both coordinates are set.
func (d EdgeData) LabelPosition() (Position, bool) {
	if d.LabelX == nil || d.LabelY == nil {
		return Position{}, false
	}
	return Position{X: *d.LabelX, Y: *d.LabelY}, true
}

// LabelAt resolves the label position against def, the computed anchor.
// Each stored coordinate overrides its counterpart on its own.
func (d EdgeData) LabelAt(def Position) Position {
	if d.LabelX != nil {
		def.X = *d.LabelX
	}
	if d.LabelY != nil {
		def.Y = *d.LabelY
	}
	return def
}

// WithLabelPosition returns a copy of d with the label override set.
func (d EdgeData) WithLabelPosition(p Position) EdgeData {
	x, y := p.X, p.Y
	d.LabelX, d.LabelY = &x, &y
	return d
}

// Edge is one relation between two ingested entities.
type Edge struct {
	ID     string    `json:"id" bson:"id"`
	Source string    `json:"source" bson:"source"`
	Target string    `json:"target" bson:"target"`
	Label  string    `json:"label" bson:"label"`
	Type   string    `json:"type" bson:"type"`
	Style  EdgeStyle `json:"style" bson:"style"`
	Marker Marker    `json:"markerEnd" bson:"marker_end"`
	Data   EdgeData  `json:"data" bson:"data"`
}

func newEdge(id, source, target, label, color string) Edge {
	return Edge{
		ID:     id,
		Source: source,
		Target: target,
		Label:  label,
		Type:   EdgeTypeParallelSmoothstep,
		Style:  EdgeStyle{Stroke: color, StrokeWidth: EdgeStrokeWidth},
		Marker: Marker{Type: MarkerArrowClosed, Color: color, Width: MarkerSize, Height: MarkerSize},
	}
}
