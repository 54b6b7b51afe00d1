package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts. Showcase arguments
// complete dynamically from the loaded config (see completeShowcases).
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for tagbubbles. Showcase names
complete from the active config, so --config and $TAGBUBBLES_CONFIG apply.

  $ source <(tagbubbles completion bash)
  $ tagbubbles completion zsh > "${fpath[1]}/_tagbubbles"
  $ tagbubbles completion fish > ~/.config/fish/completions/tagbubbles.fish
  PS> tagbubbles completion powershell | Out-String | Invoke-Expression
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

	return cmd
}

// completeShowcases completes the first argument with showcase names and
// their titles. Snapshot files fall back to file completion.
func (c *CLI) completeShowcases(withFiles bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var out []cobra.Completion
		for _, s := range cfg.Showcases {
			if !strings.HasPrefix(s.Name, toComplete) {
				continue
			}
			if s.Title != "" {
				out = append(out, cobra.CompletionWithDesc(s.Name, s.Title))
			} else {
				out = append(out, s.Name)
			}
		}
		if withFiles {
			return out, cobra.ShellCompDirectiveDefault
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
