package layout

import (
	"fmt"
	"strings"
)

// Direction is the rank axis of a layout.
type Direction string

const (
	// DirectionLR places ranks left to right.
	DirectionLR Direction = "LR"
	// DirectionTB places ranks top to bottom.
	DirectionTB Direction = "TB"
)

// Default spacing between nodes of a rank and between ranks.
const (
	DefaultNodeSep = 100.0
	DefaultRankSep = 150.0
)

// Options configures a layout run.
type Options struct {
	Direction Direction `json:"direction" msgpack:"direction"`
	NodeSep   float64   `json:"nodesep" msgpack:"nodesep"`
	RankSep   float64   `json:"ranksep" msgpack:"ranksep"`

	// Sweeps bounds crossing-reduction passes of the layered engine.
	Sweeps int `json:"sweeps,omitempty" msgpack:"sweeps,omitempty"`
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.Direction == "" {
		o.Direction = DirectionLR
	}
	o.Direction = Direction(strings.ToUpper(string(o.Direction)))
	if o.NodeSep == 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.RankSep == 0 {
		o.RankSep = DefaultRankSep
	}
}

// Validate checks that the options describe a valid layout.
func (o Options) Validate() error {
	switch o.Direction {
	case DirectionLR, DirectionTB:
	default:
		return fmt.Errorf("invalid direction %q (must be LR or TB)", o.Direction)
	}
	if o.NodeSep < 0 || o.RankSep < 0 {
		return fmt.Errorf("separations must not be negative (nodesep=%v, ranksep=%v)", o.NodeSep, o.RankSep)
	}
	return nil
}

// Horizontal reports whether ranks advance along the x axis.
func (o Options) Horizontal() bool { return o.Direction != DirectionTB }
