// Package cli implements the schemagraph command-line interface.
//
// # Commands
//
//   - layout: ingest datasets, position and route their graphs, write payloads
//   - explore: browse a dataset interactively in the terminal
//   - cache: inspect and clear the result cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Progress and
// diagnostics go to stderr through a shared charmbracelet/log logger.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemagraph/pkg/buildinfo"
	"github.com/matzehuels/schemagraph/pkg/cache"
	"github.com/matzehuels/schemagraph/pkg/config"
	"github.com/matzehuels/schemagraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "schemagraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Schemagraph lays out database schemas as entity graphs",
		Long:         `Schemagraph turns extracted database schema records into a positioned entity-relationship graph with routed edges, ready for a graph-drawing UI or the built-in terminal explorer.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/schemagraph/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig resolves the configuration file named by --config, or the
// default one when present.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, path, err := config.Resolve(c.configPath)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// openCache opens the configured backend, or a null cache when disabled.
func (c *CLI) openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheConfig())
}

// newRunner creates a pipeline runner over a shared cache.
func (c *CLI) newRunner(store cache.Cache, cfg config.Config) *pipeline.Runner {
	r := pipeline.NewRunner(store, cfg.Keyer(), c.Logger)
	r.TTL = cfg.Cache.TTL
	return r
}

// baseOptions converts the configuration into pipeline options. Flags
// override the returned values.
func baseOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Palette:    cfg.GraphPalette(),
		Engine:     cfg.Layout.Engine,
		Layout:     cfg.LayoutOptions(),
		NodeWidth:  cfg.Layout.NodeWidth,
		NodeHeight: cfg.Layout.NodeHeight,
		Route:      cfg.RouteOptions(),
	}
}
