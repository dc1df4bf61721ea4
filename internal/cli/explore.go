package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/layout"
	"github.com/matzehuels/schemagraph/pkg/schema"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		isGraph   bool
		watch     bool
		noCache   bool
		format    string
		engine    string
		direction string
	)

	cmd := &cobra.Command{
		Use:   "explore <dataset>",
		Short: "Browse a schema graph in the terminal",
		Long: `Browse a schema graph in the terminal.

Entities are shown as cards in layout order. Moving the cursor highlights an
entity with its relations and neighbours; enter opens the details panel.

With --graph the input is a positioned graph file written by
'layout --emit graph'. With --watch the dataset is reloaded whenever it
changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			load := func(ctx context.Context) (graph.Graph, error) {
				return graph.ReadGraphFile(path)
			}
			if !isGraph {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				opts := baseOptions(cfg)
				if cmd.Flags().Changed("format") {
					opts.Format = schema.Format(format)
				}
				if cmd.Flags().Changed("engine") {
					opts.Engine = engine
				}
				if cmd.Flags().Changed("direction") {
					opts.Layout.Direction = layout.Direction(strings.ToUpper(direction))
				}
				if err := opts.Validate(); err != nil {
					return err
				}
				store, err := c.openCache(ctx, cfg, noCache)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				runner := c.newRunner(store, cfg)
				defer runner.Close()

				load = func(ctx context.Context) (graph.Graph, error) {
					res, err := runner.RunFile(ctx, path, opts)
					if err != nil {
						return graph.Graph{}, err
					}
					logResult(c.Logger, path, res)
					return res.Graph, nil
				}
			}

			return c.runExplore(ctx, path, load, watch)
		},
	}

	cmd.Flags().BoolVar(&isGraph, "graph", false, "input is a positioned graph file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the input changes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&format, "format", "", "dataset format: json, bson, extjson (default: from extension)")
	cmd.Flags().StringVarP(&engine, "engine", "e", layout.DefaultEngine, "layout engine: "+strings.Join(layout.EngineNames(), ", "))
	cmd.Flags().StringVarP(&direction, "direction", "d", string(layout.DirectionLR), "rank direction: LR, TB")
	registerDatasetCompletions(cmd)

	return cmd
}

// runExplore loads the graph once, then runs the explorer until the user
// quits or ctx is cancelled.
func (c *CLI) runExplore(ctx context.Context, path string, load func(context.Context) (graph.Graph, error), watch bool) error {
	g, err := load(ctx)
	if err != nil {
		return err
	}

	// The explorer owns the terminal; keep log lines from tearing the screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(LogError)
	defer c.Logger.SetLevel(level)

	p := tea.NewProgram(NewExplorerModel(filepath.Base(path), g), tea.WithAltScreen(), tea.WithContext(ctx))

	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer w.Close()
		if err := w.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		go watchLoop(ctx, w, path, load, p.Send)
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("explorer: %w", err)
	}
	return ctx.Err()
}

// watchLoop reloads the graph whenever path is written or replaced. The
// directory is watched because editors often save by renaming a new file
// over the old one.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, load func(context.Context) (graph.Graph, error), send func(tea.Msg)) {
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			g, err := load(ctx)
			if err != nil {
				send(reloadErrMsg{err: err})
				continue
			}
			send(reloadMsg{graph: g})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			send(reloadErrMsg{err: err})
		}
	}
}
