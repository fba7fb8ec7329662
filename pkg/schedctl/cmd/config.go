package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skylift/schedctl/pkg/schedctl/cluster"
	"github.com/skylift/schedctl/pkg/schedctl/config"
	"github.com/skylift/schedctl/pkg/schedctl/output"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the schedctl clusters file",
	}

	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigViewCommand(),
		newConfigUseClusterCommand(),
		newConfigAddClusterCommand(),
		newConfigDeleteClusterCommand(),
	)

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		clusterName string
		scheduler   string
		zone        string
		insecure    bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a clusters file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			path := rt.configPathValue()
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config already exists: %s", path)
				}
			}
			if scheduler == "" {
				return fmt.Errorf("scheduler is required")
			}
			cfg := config.DefaultConfig()
			cfg.CurrentCluster = clusterName
			cfg.Clusters = append(cfg.Clusters, cluster.Cluster{
				Name:                  clusterName,
				Scheduler:             scheduler,
				Zone:                  zone,
				InsecureSkipTLSVerify: insecure,
			})
			if err := config.Save(path, &cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Initialized config at %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "default", "Cluster name")
	cmd.Flags().StringVar(&scheduler, "scheduler", "", "Scheduler URL")
	cmd.Flags().StringVar(&zone, "zone", "", "Cluster zone")
	cmd.Flags().BoolVar(&insecure, "insecure-skip-tls-verify", false, "Skip TLS verification")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

func newConfigViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the clusters file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			// table format falls back to yaml, there is no config table
			return output.WriteObject(rt.Writer(), output.Format(rt.OutputFormat()), rt.cfg)
		},
	}
	return cmd
}

func newConfigUseClusterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use-cluster <name>",
		Short: "Set the current cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			if _, err := rt.cfg.FindCluster(args[0]); err != nil {
				return err
			}
			rt.cfg.CurrentCluster = args[0]
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Switched to cluster %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func newConfigAddClusterCommand() *cobra.Command {
	var (
		scheduler string
		zone      string
		caFile    string
		insecure  bool
	)
	cmd := &cobra.Command{
		Use:   "add-cluster <name>",
		Short: "Add a cluster to the clusters file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			if _, err := rt.cfg.FindCluster(args[0]); err == nil {
				return fmt.Errorf("cluster already exists: %s", args[0])
			}
			added := cluster.Cluster{
				Name:                  args[0],
				Scheduler:             scheduler,
				Zone:                  zone,
				CAFile:                caFile,
				InsecureSkipTLSVerify: insecure,
			}
			if err := added.Validate(); err != nil {
				return err
			}
			rt.cfg.Clusters = append(rt.cfg.Clusters, added)
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Added cluster %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&scheduler, "scheduler", "", "Scheduler URL")
	cmd.Flags().StringVar(&zone, "zone", "", "Cluster zone")
	cmd.Flags().StringVar(&caFile, "ca-file", "", "CA bundle for the scheduler endpoint")
	cmd.Flags().BoolVar(&insecure, "insecure-skip-tls-verify", false, "Skip TLS verification")
	return cmd
}

func newConfigDeleteClusterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-cluster <name>",
		Short: "Remove a cluster from the clusters file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			kept := rt.cfg.Clusters[:0]
			found := false
			for _, c := range rt.cfg.Clusters {
				if c.Name == args[0] {
					found = true
					continue
				}
				kept = append(kept, c)
			}
			if !found {
				return fmt.Errorf("cluster not found: %s", args[0])
			}
			rt.cfg.Clusters = kept
			if rt.cfg.CurrentCluster == args[0] {
				rt.cfg.CurrentCluster = ""
			}
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Deleted cluster %s\n", args[0])
			return nil
		},
	}
	return cmd
}
