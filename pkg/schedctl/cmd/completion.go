package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion for schedctl",
		Long: `Generate a shell completion script for schedctl.

To load completions in the current bash session:

    source <(schedctl completion bash)

To install them permanently:

    schedctl completion bash > /etc/bash_completion.d/schedctl`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			gen, ok := completionGenerators(cmd.Root())[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
			return gen(rt.Writer())
		},
	}
}

func completionGenerators(root *cobra.Command) map[string]func(io.Writer) error {
	return map[string]func(io.Writer) error{
		"bash": root.GenBashCompletion,
		"zsh":  root.GenZshCompletion,
		"fish": func(w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
		"powershell": root.GenPowerShellCompletionWithDesc,
	}
}
