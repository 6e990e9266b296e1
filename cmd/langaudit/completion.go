package main

import (
	"io"
	"slices"

	"github.com/spf13/cobra"
)

var completionGenerators = map[string]func(w io.Writer) error{
	"bash": func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":  func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
	"fish": func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": func(w io.Writer) error {
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate shell completion script",
	Long: `Generate a completion script for bash, zsh, fish or powershell.

  source <(langaudit completion bash)
  langaudit completion zsh > "${fpath[1]}/_langaudit"
  langaudit completion fish | source`,
	ValidArgs: completionShells(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionGenerators[args[0]](cmd.OutOrStdout())
	},
}

func completionShells() []string {
	shells := make([]string, 0, len(completionGenerators))
	for name := range completionGenerators {
		shells = append(shells, name)
	}
	slices.Sort(shells)
	return shells
}

func init() {
	rootCmd.AddCommand(completionCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
