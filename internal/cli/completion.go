package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerview/pkg/pipeline"
)

var (
	// itemFileExts are the extensions offered for item file arguments.
	itemFileExts = []string{"json", "yaml", "yml", "toml"}

	// layoutFileExts are the extensions offered for layout file arguments.
	layoutFileExts = []string{"json", "yaml", "yml"}

	// outputFormats lists the --format values in the order they are offered.
	outputFormats = []string{pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatJSON, pipeline.FormatYAML}

	inputFormats = []string{"json", "yaml", "toml"}
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for layerview.

Completions cover the commands, item and layout files, and the values of
--format and --input-format.

Bash:
  $ source <(layerview completion bash)

Zsh:
  $ layerview completion zsh > "${fpath[1]}/_layerview"

Fish:
  $ layerview completion fish > ~/.config/fish/completions/layerview.fish

PowerShell:
  PS> layerview completion powershell | Out-String | Invoke-Expression
`,
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

// completeItemFile offers item files for the single positional argument.
func completeItemFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return itemFileExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeLayoutFile offers layout files for the single positional argument.
func completeLayoutFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return layoutFileExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the comma-separated --format value. Formats
// already listed are not offered again, and every candidate keeps the part
// typed before the last comma.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done := ""
	chosen := make(map[string]bool)
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done = toComplete[:i+1]
		for _, f := range strings.Split(toComplete[:i], ",") {
			chosen[strings.TrimSpace(f)] = true
		}
	}

	var out []string
	for _, f := range outputFormats {
		if !chosen[f] && strings.HasPrefix(done+f, toComplete) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// inputFormatFlag binds --input-format to p with completion of its values.
func inputFormatFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVar(p, "input-format", "", "item file format: json, yaml, toml (default: from extension)")
	_ = cmd.RegisterFlagCompletionFunc("input-format", cobra.FixedCompletions(inputFormats, cobra.ShellCompDirectiveNoFileComp))
}
