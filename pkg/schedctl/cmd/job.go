package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skylift/schedctl/pkg/schedctl/client"
	"github.com/skylift/schedctl/pkg/schedctl/output"
)

func NewJobCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage scheduler jobs",
	}

	cmd.AddCommand(
		newJobCreateCommand(),
		newJobUpdateCommand(),
		newJobKillCommand(),
		newJobRestartCommand(),
		newJobGetCommand(),
		newJobStatusCommand(),
		newJobListCommand(),
	)

	return cmd
}

func jobConfigFlags(cmd *cobra.Command, cfg *client.JobConfig) {
	cmd.Flags().Int32Var(&cfg.Instances, "instances", 1, "Number of instances")
	cmd.Flags().Float64Var(&cfg.Resources.CPU, "cpu", 1, "CPUs per instance")
	cmd.Flags().Int64Var(&cfg.Resources.RAMMb, "ram", 1024, "RAM per instance in MB")
	cmd.Flags().Int64Var(&cfg.Resources.DiskMb, "disk", 1024, "Disk per instance in MB")
	cmd.Flags().StringVar(&cfg.Tier, "tier", "", "Scheduling tier")
	cmd.Flags().BoolVar(&cfg.Production, "production", false, "Mark the job as production")
	cmd.Flags().StringVar(&cfg.Executor, "executor", "", "Executor name")
}

func newJobCreateCommand() *cobra.Command {
	var cfg client.JobConfig
	cmd := &cobra.Command{
		Use:   "create <role/environment/name>",
		Short: "Create a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			key, err := client.ParseJobKey(args[0])
			if err != nil {
				return err
			}
			cfg.Key = key
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			summary, err := apiClient.CreateJob(context.Background(), cfg)
			if err != nil {
				return err
			}
			return writeJobResult(rt, summary, "created")
		},
	}
	jobConfigFlags(cmd, &cfg)
	return cmd
}

func newJobUpdateCommand() *cobra.Command {
	var cfg client.JobConfig
	cmd := &cobra.Command{
		Use:   "update <role/environment/name>",
		Short: "Update a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			key, err := client.ParseJobKey(args[0])
			if err != nil {
				return err
			}
			cfg.Key = key
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			summary, err := apiClient.UpdateJob(context.Background(), cfg)
			if err != nil {
				return err
			}
			return writeJobResult(rt, summary, "updated")
		},
	}
	jobConfigFlags(cmd, &cfg)
	return cmd
}

func newJobKillCommand() *cobra.Command {
	var instances []int32
	cmd := &cobra.Command{
		Use:   "kill <role/environment/name>",
		Short: "Kill a job or selected instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			key, err := client.ParseJobKey(args[0])
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			summary, err := apiClient.KillJob(context.Background(), key, instances)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Killed %s instances of %s\n", client.FormatInstances(instances), summary.Key)
			return nil
		},
	}
	cmd.Flags().Int32SliceVar(&instances, "instances", nil, "Instance IDs (all when omitted)")
	return cmd
}

func newJobRestartCommand() *cobra.Command {
	var instances []int32
	cmd := &cobra.Command{
		Use:   "restart <role/environment/name>",
		Short: "Restart a job or selected instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			key, err := client.ParseJobKey(args[0])
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			summary, err := apiClient.RestartJob(context.Background(), key, instances)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Restarted %s instances of %s\n", client.FormatInstances(instances), summary.Key)
			return nil
		},
	}
	cmd.Flags().Int32SliceVar(&instances, "instances", nil, "Instance IDs (all when omitted)")
	return cmd
}

func newJobGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <role/environment/name>",
		Short: "Show a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			key, err := client.ParseJobKey(args[0])
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			summary, err := apiClient.GetJob(context.Background(), key)
			if err != nil {
				return err
			}
			return output.Write(rt.Writer(), output.Format(rt.OutputFormat()), summary, func(w io.Writer) {
				output.WriteJobTable(w, []client.JobSummary{*summary})
			})
		},
	}
	return cmd
}

func newJobStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <role/environment/name>",
		Short: "Show per-instance job status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			key, err := client.ParseJobKey(args[0])
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			status, err := apiClient.JobStatus(context.Background(), key)
			if err != nil {
				return err
			}
			return output.Write(rt.Writer(), output.Format(rt.OutputFormat()), status, func(w io.Writer) {
				output.WriteJobStatusTable(w, status)
			})
		},
	}
	return cmd
}

func newJobListCommand() *cobra.Command {
	var (
		role        string
		environment string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			jobs, err := apiClient.ListJobs(context.Background(), client.ListJobsOptions{
				Role:        role,
				Environment: environment,
			})
			if err != nil {
				return err
			}
			return output.Write(rt.Writer(), output.Format(rt.OutputFormat()), jobs, func(w io.Writer) {
				output.WriteJobTable(w, jobs)
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Filter by role")
	cmd.Flags().StringVar(&environment, "environment", "", "Filter by environment")
	return cmd
}

func writeJobResult(rt *runtimeState, summary *client.JobSummary, verb string) error {
	return output.Write(rt.Writer(), output.Format(rt.OutputFormat()), summary, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Job %s %s (%d instances)\n", summary.Key, verb, summary.Instances)
	})
}
