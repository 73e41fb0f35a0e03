package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// completionCommand creates the completion command for generating shell completions.
// Sketch names and --set parameter keys complete dynamically.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sketchbook.

To load completions:

Bash:
  $ source <(sketchbook completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sketchbook completion bash > /etc/bash_completion.d/sketchbook
  # macOS:
  $ sketchbook completion bash > $(brew --prefix)/etc/bash_completion.d/sketchbook

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sketchbook completion zsh > "${fpath[1]}/_sketchbook"

Sketch names complete as the first argument of render, reroll, view and
sketches, and --set completes the parameter keys of the named sketch.

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sketchbook completion fish | source

  # To load completions for each session, execute once:
  $ sketchbook completion fish > ~/.config/fish/completions/sketchbook.fish

PowerShell:
  PS> sketchbook completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sketchbook completion powershell > sketchbook.ps1
  # and source this file from your PowerShell profile.
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

// completeSketches completes the sketch argument with registered names,
// described by their titles.
func (c *CLI) completeSketches(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, s := range c.registry().All() {
		info := s.Info()
		if strings.HasPrefix(info.Name, toComplete) {
			out = append(out, info.Name+"\t"+info.Title)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeParams registers --set completion: "key=" for every parameter of
// the sketch named by the first argument.
func (c *CLI) completeParams(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("set", func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return paramCompletions(c.registry(), args, toComplete), cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	})
}

func paramCompletions(reg *sketch.Registry, args []string, toComplete string) []string {
	if len(args) == 0 {
		return nil
	}
	s, err := reg.Lookup(args[0])
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range s.Params() {
		if strings.HasPrefix(p.Key, toComplete) {
			out = append(out, p.Key+"=\t"+p.Description)
		}
	}
	return out
}
