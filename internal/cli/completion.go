package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitview/pkg/pipeline"
	"github.com/matzehuels/circuitview/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for circuitview.

Bash:
  $ source <(circuitview completion bash)

Zsh:
  $ circuitview completion zsh > "${fpath[1]}/_circuitview"

Fish:
  $ circuitview completion fish > ~/.config/fish/completions/circuitview.fish

PowerShell:
  PS> circuitview completion powershell | Out-String | Invoke-Expression

Flag values complete too: --entanglement, --format and --palette offer the
accepted choices.`,
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
}

// completeValues returns a completion function offering a fixed list.
func completeValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// formatNames lists the output formats in a stable order.
func formatNames() []string {
	names := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// paletteNames lists the palettes in a stable order.
func paletteNames() []string {
	names := make([]string, 0, len(render.Palettes))
	for n := range render.Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
