package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skylift/schedctl/pkg/schedctl/output"
	"github.com/skylift/schedctl/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show schedctl build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetBuildInfo()

			rt, _ := getRuntime(cmd)
			writer := cmd.OutOrStdout()
			if rt != nil {
				writer = rt.Writer()
			}

			format := output.Format(outputFormat)
			if outputFormat == "" || format.Tabular() {
				_, _ = fmt.Fprintf(writer, "schedctl %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildDate)
				_, _ = fmt.Fprintf(writer, "%s %s\n", info.GoVersion, info.Platform)
				return nil
			}
			return output.WriteObject(writer, format, info)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json, yaml")

	return cmd
}
