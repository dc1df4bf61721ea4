// Package pipeline runs the decode → ingest → layout → route pipeline for
// schema datasets.
//
// This package is the single place where the CLI batch command and the
// interactive explorer turn dataset bytes into a positioned graph, so both
// share caching, logging and diagnostics.
//
// # Architecture
//
// The pipeline consists of two cached stages:
//
//  1. Ingest: decode the dataset (JSON, BSON or Extended JSON), validate
//     records and build nodes and edges
//  2. Layout: position nodes with a layout engine, group parallel edges and
//     optionally route every edge
//
// A [Runner] additionally memoizes its most recent result in memory, keyed
// by the SHA-256 of the dataset bytes and the options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.RunFile(ctx, "schemas.json", pipeline.Options{
//	    Engine: layout.EngineLayered,
//	    Routes: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	payload, err := pipeline.Render(res, pipeline.FormatPayload)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemagraph/pkg/cache"
	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/layout"
	"github.com/matzehuels/schemagraph/pkg/route"
	"github.com/matzehuels/schemagraph/pkg/schema"
)

// =============================================================================
// Output Formats
// =============================================================================

// Output formats accepted by [Render].
const (
	// FormatPayload is the rendering-surface payload (view.Payload) as JSON.
	FormatPayload = "payload"
	// FormatGraph is the positioned graph file written by graph.WriteGraph.
	FormatGraph = "graph"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPayload: true,
	FormatGraph:   true,
}

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid output format: %q (must be one of: payload, graph)", format)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. Every serialized
// field is part of the cache key.
type Options struct {
	// Ingest options
	Format  schema.Format `json:"format"`
	Palette graph.Palette `json:"palette,omitempty"`

	// Layout options
	Engine     string         `json:"engine"`
	Layout     layout.Options `json:"layout"`
	NodeWidth  float64        `json:"node_width"`
	NodeHeight float64        `json:"node_height"`

	// Route options
	Routes bool          `json:"routes,omitempty"`
	Route  route.Options `json:"route"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-"` // bypass the persistent cache
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = schema.FormatJSON
	}
	if o.Engine == "" {
		o.Engine = layout.DefaultEngine
	}
	o.Layout.SetDefaults()
	if o.NodeWidth == 0 {
		o.NodeWidth = graph.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = graph.NodeHeight
	}
	o.Route.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and validates every option.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	f, err := schema.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f

	eng, err := layout.EngineByName(o.Engine)
	if err != nil {
		return err
	}
	o.Engine = eng.Name()

	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
	}
	if err := o.Route.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "route options")
	}
	if o.NodeWidth < 0 || o.NodeHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node size must be positive, got %vx%v", o.NodeWidth, o.NodeHeight)
	}
	o.validated = true
	return nil
}

// Validate reports whether the options, once defaulted, are valid. Unlike
// ValidateAndSetDefaults it leaves o unchanged, so an unset Format can still
// be detected per file by [Runner.RunFile].
func (o Options) Validate() error {
	return o.ValidateAndSetDefaults()
}

// DatasetKeyOpts returns cache key options for the ingest stage.
func (o *Options) DatasetKeyOpts() cache.DatasetKeyOpts {
	return cache.DatasetKeyOpts{
		Format:  string(o.Format),
		Palette: []string(o.Palette),
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Dataset:    o.DatasetKeyOpts(),
		Engine:     o.Engine,
		Direction:  string(o.Layout.Direction),
		NodeSep:    o.Layout.NodeSep,
		RankSep:    o.Layout.RankSep,
		Sweeps:     o.Layout.Sweeps,
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
		Routes:     o.Routes,
	}
	if o.Routes {
		k.Spacing, k.Radius, k.Gap = o.Route.Spacing, o.Route.Radius, o.Route.Gap
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the computation that produced the result. A result
	// served from a cache keeps the id of the run that computed it.
	RunID string `json:"run_id"`

	// DatasetHash is the SHA-256 of the dataset bytes.
	DatasetHash string `json:"dataset_hash"`

	// Graph holds the positioned nodes and the grouped edges.
	Graph graph.Graph `json:"graph"`

	// Routes is set when Options.Routes was requested.
	Routes []route.Result `json:"routes,omitempty"`

	Direction    layout.Direction `json:"direction"`
	Engine       string           `json:"engine"`
	LayoutFailed bool             `json:"layout_failed,omitempty"`

	Report      Report       `json:"report"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	Stats     Stats     `json:"-"`
	CacheInfo CacheInfo `json:"-"`
}

// Report counts what ingest accepted and dropped.
type Report struct {
	Records    int `json:"records"`
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Dangling   int `json:"dangling"`
	Groups     int `json:"groups"` // distinct source/target pairs
}

// Diagnostic is a serializable copy of an errors.Diagnostic.
type Diagnostic struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func flatten(ds errors.Diagnostics) []Diagnostic {
	out := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, Diagnostic{
			Level:   d.Level.String(),
			Code:    string(d.Err.Code),
			Subject: d.Subject,
			Message: d.Err.Message,
		})
	}
	return out
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Code, d.Subject, d.Message)
}

// Stats contains pipeline execution statistics.
type Stats struct {
	IngestTime time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks which stages were served without recomputation.
type CacheInfo struct {
	MemoHit   bool // the whole result came from the runner's memo
	IngestHit bool // ingest result came from the persistent cache
	LayoutHit bool // layout result came from the persistent cache
}
