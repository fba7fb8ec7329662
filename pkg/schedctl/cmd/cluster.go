package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skylift/schedctl/pkg/schedctl/output"
)

func NewClusterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Inspect configured clusters",
	}

	cmd.AddCommand(
		newClusterListCommand(),
		newClusterCurrentCommand(),
	)

	return cmd
}

func newClusterListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured clusters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			registry, err := rt.cfg.Registry()
			if err != nil {
				return err
			}
			return output.Write(rt.Writer(), output.Format(rt.OutputFormat()), registry.All(), func(w io.Writer) {
				output.WriteClusterTable(w, registry.All(), rt.cfg.CurrentClusterOrDefault())
			})
		},
	}
	return cmd
}

func newClusterCurrentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the cluster commands run against",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			name := rt.ResolveClusterName()
			if name == "" {
				return fmt.Errorf("no cluster configured")
			}
			_, _ = fmt.Fprintln(rt.Writer(), name)
			return nil
		},
	}
	return cmd
}
