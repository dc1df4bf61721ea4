package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemagraph/pkg/layout"
	"github.com/matzehuels/schemagraph/pkg/pipeline"
	"github.com/matzehuels/schemagraph/pkg/schema"
)

// datasetExtensions are offered when completing dataset arguments.
var datasetExtensions = []string{"json", "bson", "extjson"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for schemagraph.

Completions cover subcommands, dataset files (.json, .bson, .extjson) and
the values of --engine, --format, --emit and --direction.

  bash:        source <(schemagraph completion bash)
  zsh:         schemagraph completion zsh > "${fpath[1]}/_schemagraph"
  fish:        schemagraph completion fish > ~/.config/fish/completions/schemagraph.fish
  powershell:  schemagraph completion powershell | Out-String | Invoke-Expression

Start a new shell for the setup to take effect.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerDatasetCompletions completes dataset arguments by extension and
// the option values shared by layout and explore. Flags the command does
// not define are skipped.
func registerDatasetCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return datasetExtensions, cobra.ShellCompDirectiveFilterFileExt
	}

	values := map[string][]string{
		"engine":    layout.EngineNames(),
		"format":    formatNames(),
		"emit":      emitNames(),
		"direction": {string(layout.DirectionLR), string(layout.DirectionTB)},
	}
	for name, candidates := range values {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, fixedCompletion(candidates))
	}
}

func fixedCompletion(candidates []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return candidates, cobra.ShellCompDirectiveNoFileComp
	}
}

func formatNames() []string {
	names := make([]string, len(schema.Formats))
	for i, f := range schema.Formats {
		names[i] = string(f)
	}
	return names
}

func emitNames() []string {
	names := make([]string, 0, len(pipeline.ValidFormats))
	for name := range pipeline.ValidFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
