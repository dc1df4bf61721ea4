package layout

import (
	"context"
	"sort"
	"strings"

	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/graph"
)

// Box is a node to be positioned.
type Box struct {
	ID            string
	Width, Height float64
}

// Link is a directed constraint between two boxes.
type Link struct {
	From, To string
}

// Engine computes node centers for a fresh graph on every call.
//
// Implementations may omit boxes they could not place; [Apply] handles the
// gaps. Returning an error makes Apply fall back to the origin for every node.
type Engine interface {
	Name() string
	Centers(ctx context.Context, boxes []Box, links []Link, opts Options) (map[string]graph.Position, error)
}

// Engine names.
const (
	EngineLayered = "layered"
	EngineDot     = "dot"
)

// DefaultEngine is used when no engine is configured.
const DefaultEngine = EngineLayered

var engines = map[string]func() Engine{
	EngineLayered: func() Engine { return Layered{} },
	EngineDot:     func() Engine { return Dot{} },
}

// EngineNames lists the registered engines in sorted order.
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EngineByName returns the engine registered under name.
// An empty name selects [DefaultEngine].
func EngineByName(name string) (Engine, error) {
	if name == "" {
		name = DefaultEngine
	}
	mk, ok := engines[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidEngine,
			"unknown layout engine %q (must be one of: %s)", name, strings.Join(EngineNames(), ", "))
	}
	return mk(), nil
}
