package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schemagraph/pkg/layout"
	"github.com/matzehuels/schemagraph/pkg/observability"
	"github.com/matzehuels/schemagraph/pkg/pipeline"
	"github.com/matzehuels/schemagraph/pkg/schema"
)

// layoutFlags holds the layout command's flag values.
type layoutFlags struct {
	output      string
	emit        string
	format      string
	engine      string
	direction   string
	routes      bool
	noCache     bool
	refresh     bool
	jobs        int
	metricsFile string
}

// apply overrides config-derived options with the flags the user set.
func (f layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("format") {
		opts.Format = schema.Format(f.format)
	}
	if changed("engine") {
		opts.Engine = f.engine
	}
	if changed("direction") {
		opts.Layout.Direction = layout.Direction(strings.ToUpper(f.direction))
	}
	opts.Routes = f.routes
	opts.Refresh = f.refresh
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	f := layoutFlags{emit: pipeline.FormatPayload, jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "layout <dataset>...",
		Short: "Compute positioned graphs from schema datasets",
		Long: `Compute positioned graphs from schema datasets.

Each dataset (JSON, BSON or Extended JSON, chosen by extension or --format)
is ingested, laid out with the configured engine and written next to the
input as <name>.payload.json, or <name>.graph.json with --emit graph.

Several datasets are processed concurrently. Results are cached; identical
inputs and options are served without recomputation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.output != "" && len(args) > 1 && f.output != "-" {
				if fi, err := os.Stat(f.output); err != nil || !fi.IsDir() {
					return fmt.Errorf("--output must be a directory when laying out %d datasets", len(args))
				}
			}
			if f.output == "-" && len(args) > 1 {
				return fmt.Errorf("--output - accepts a single dataset")
			}
			return c.runLayout(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file, directory, or - for stdout (default: next to input)")
	cmd.Flags().StringVar(&f.emit, "emit", f.emit, "output kind: payload (default), graph")
	cmd.Flags().StringVar(&f.format, "format", "", "dataset format: json, bson, extjson (default: from extension)")
	cmd.Flags().StringVarP(&f.engine, "engine", "e", layout.DefaultEngine, "layout engine: "+strings.Join(layout.EngineNames(), ", "))
	cmd.Flags().StringVarP(&f.direction, "direction", "d", string(layout.DirectionLR), "rank direction: LR, TB")
	cmd.Flags().BoolVar(&f.routes, "routes", false, "include routed edge paths in the payload")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", f.jobs, "datasets processed concurrently")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	registerDatasetCompletions(cmd)

	return cmd
}

// runLayout processes every input concurrently and reports each result.
func (c *CLI) runLayout(cmd *cobra.Command, inputs []string, f layoutFlags) error {
	ctx := cmd.Context()
	if err := pipeline.ValidateFormat(f.emit); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := baseOptions(cfg)
	f.apply(cmd, &opts)
	if err := opts.Validate(); err != nil {
		return err
	}

	if f.metricsFile != "" {
		hooks := observability.NewPrometheusHooks(appName)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		defer func() {
			if err := hooks.WriteTextfile(f.metricsFile); err != nil {
				c.Logger.Warn("write metrics", "path", f.metricsFile, "err", err)
			}
			observability.Reset()
		}()
	}

	store, err := c.openCache(ctx, cfg, f.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	toStdout := f.output == "-"
	prog := newProgress(c.Logger)
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinner(ctx, fmt.Sprintf("Laying out %d dataset(s)...", len(inputs)))
		spinner.Start()
	}

	results := make([]*pipeline.Result, len(inputs))
	outputs := make([]string, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if f.jobs > 0 {
		g.SetLimit(f.jobs)
	}
	for i, input := range inputs {
		g.Go(func() error {
			res, err := c.newRunner(store, cfg).RunFile(gctx, input, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if toStdout {
				return pipeline.Write(os.Stdout, res, f.emit)
			}
			out := outputPath(input, f.output, f.emit)
			if err := pipeline.WriteFile(out, res, f.emit); err != nil {
				return fmt.Errorf("write output %s: %w", out, err)
			}
			results[i], outputs[i] = res, out
			logResult(c.Logger, input, res)
			return nil
		})
	}
	err = g.Wait()
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Layout failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if toStdout {
		return nil
	}

	prog.done(fmt.Sprintf("Laid out %d dataset(s)", len(inputs)))
	for i, res := range results {
		printSuccess("%s", inputs[i])
		printFile(outputs[i])
		printStats(res)
	}
	printNewline()
	printNextStep("Explore", appName+" explore "+inputs[0])
	return nil
}

// outputPath picks where to write the result for input.
func outputPath(input, output, emit string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "." + emit + ".json"
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(input), name)
	case isDir(output):
		return filepath.Join(output, name)
	default:
		return output
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
