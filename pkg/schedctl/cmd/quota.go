package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/skylift/schedctl/pkg/schedctl/output"
)

func NewQuotaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota <role>",
		Short: "Show a role's resource quota",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			quota, err := apiClient.GetQuota(context.Background(), args[0])
			if err != nil {
				return err
			}
			return output.Write(rt.Writer(), output.Format(rt.OutputFormat()), quota, func(w io.Writer) {
				output.WriteQuotaTable(w, quota)
			})
		},
	}
	return cmd
}
