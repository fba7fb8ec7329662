package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skylift/schedctl/pkg/schedctl/config"
)

type Config struct {
	ConfigPath     string
	OutputWriter   io.Writer
	DefaultCluster string
}

type runtimeState struct {
	configPath           string
	cfg                  *config.Config
	clusterOverride      string
	outputFormat         string
	schedulerOverride    string
	tokenOverride        string
	tokenStorageOverride string
	disableHooks         bool
	verbose              bool
	writer               io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{configPath: cfg.ConfigPath, clusterOverride: cfg.DefaultCluster, writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:   "schedctl",
		Short: "Skylift scheduler CLI",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.configPath == "" {
				rt.configPath = config.DefaultConfigPath()
			}
			if rt.clusterOverride == "" {
				rt.clusterOverride = os.Getenv("SCHEDCTL_CLUSTER")
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("SCHEDCTL_OUTPUT")
			}
			if rt.schedulerOverride == "" {
				rt.schedulerOverride = os.Getenv("SCHEDCTL_SCHEDULER")
			}
			if rt.tokenOverride == "" {
				rt.tokenOverride = os.Getenv("SCHEDCTL_TOKEN")
			}
			if rt.tokenStorageOverride == "" {
				rt.tokenStorageOverride = os.Getenv("SCHEDCTL_TOKEN_STORAGE")
			}
			if !rt.verbose {
				rt.verbose = strings.EqualFold(os.Getenv("SCHEDCTL_VERBOSITY"), "verbose")
			}

			// Commands that work without a clusters file
			if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			// A scheduler URL plus token on the command line bypasses
			// cluster resolution entirely.
			if rt.schedulerOverride != "" && rt.tokenOverride != "" {
				rt.cfg = &config.Config{Version: config.VersionV1}
				return nil
			}

			cfg, err := config.Load(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to clusters file")
	root.PersistentFlags().StringVarP(&rt.clusterOverride, "cluster", "c", "", "Cluster name override")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, json, yaml")
	root.PersistentFlags().StringVar(&rt.schedulerOverride, "scheduler", "", "Scheduler URL override (bypass clusters file)")
	root.PersistentFlags().StringVar(&rt.tokenOverride, "token", "", "Bearer token override")
	root.PersistentFlags().StringVar(&rt.tokenStorageOverride, "token-storage", "", "Token storage backend: keychain or file")
	root.PersistentFlags().BoolVar(&rt.disableHooks, "disable-hooks", false, "Construct clients without the hook interception layer")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable verbose request tracing")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewConfigCommand(),
		NewAuthCommand(),
		NewJobCommand(),
		NewQuotaCommand(),
		NewClusterCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) ResolveClusterName() string {
	if rt.clusterOverride != "" {
		return rt.clusterOverride
	}
	if rt.cfg != nil {
		return rt.cfg.CurrentClusterOrDefault()
	}
	return ""
}

func (rt *runtimeState) OutputFormat() string {
	if rt.outputFormat != "" {
		return rt.outputFormat
	}
	if rt.cfg != nil && rt.cfg.Settings.OutputFormat != "" {
		return rt.cfg.Settings.OutputFormat
	}
	return "table"
}

func (rt *runtimeState) TokenStorage() string {
	if rt.tokenStorageOverride != "" {
		return rt.tokenStorageOverride
	}
	if rt.cfg != nil && rt.cfg.Settings.TokenStorage != "" {
		return rt.cfg.Settings.TokenStorage
	}
	return ""
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) EnsureConfigLoaded() error {
	if rt.cfg != nil {
		return nil
	}
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	return nil
}

func (rt *runtimeState) resolveToken() string {
	return rt.tokenOverride
}

func (rt *runtimeState) configPathValue() string {
	if rt.configPath == "" {
		return config.DefaultConfigPath()
	}
	return rt.configPath
}
