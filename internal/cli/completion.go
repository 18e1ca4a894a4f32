package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand emits shell completion scripts for the supported
// shells.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the named shell to stdout.

Load it for the current session:

  bash:       source <(diaglot completion bash)
  zsh:        diaglot completion zsh > "${fpath[1]}/_diaglot"
  fish:       diaglot completion fish | source
  powershell: diaglot completion powershell | Out-String | Invoke-Expression

To make it permanent, write the script where your shell picks it up,
for example /etc/bash_completion.d/diaglot for bash or
~/.config/fish/completions/diaglot.fish for fish. Zsh needs compinit
enabled (add "autoload -U compinit; compinit" to ~/.zshrc once).
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
