package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// completionGenerators maps shell names to cobra's script generators.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

// completionCommand creates the completion command for generating shell
// completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for shapefit.

Load it in the current session:

  bash:       source <(shapefit completion bash)
  zsh:        shapefit completion zsh > "${fpath[1]}/_shapefit"
  fish:       shapefit completion fish | source
  powershell: shapefit completion powershell | Out-String | Invoke-Expression

To load on every session, write the script where your shell picks it up,
for example:

  shapefit completion bash > /etc/bash_completion.d/shapefit
  shapefit completion fish > ~/.config/fish/completions/shapefit.fish

Zsh needs compinit enabled once: echo "autoload -U compinit; compinit" >> ~/.zshrc
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			// OnlyValidArgs guarantees the lookup hits.
			return completionGenerators[args[0]](cmd.Root(), os.Stdout)
		},
	}
}
