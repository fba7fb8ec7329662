package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/skylift/schedctl/pkg/schedctl/cluster"
)

const (
	VersionV1 = "v1"
)

// Config is the on-disk clusters file: the cluster registry plus CLI
// settings.
type Config struct {
	Version        string            `yaml:"version"`
	CurrentCluster string            `yaml:"current-cluster,omitempty"`
	Clusters       []cluster.Cluster `yaml:"clusters,omitempty"`
	Settings       Settings          `yaml:"settings,omitempty"`
}

type Settings struct {
	OutputFormat string `yaml:"output-format,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"`
	Verbosity    string `yaml:"verbosity,omitempty"`
	TokenStorage string `yaml:"token-storage,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Version: VersionV1,
		Settings: Settings{
			OutputFormat: "table",
			Verbosity:    "normal",
		},
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = VersionV1
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Version == "" {
		cfg.Version = VersionV1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}

func (c *Config) FindCluster(name string) (*cluster.Cluster, error) {
	for i := range c.Clusters {
		if c.Clusters[i].Name == name {
			return &c.Clusters[i], nil
		}
	}
	return nil, fmt.Errorf("cluster not found: %s", name)
}

func (c *Config) CurrentClusterOrDefault() string {
	if c.CurrentCluster != "" {
		return c.CurrentCluster
	}
	if len(c.Clusters) > 0 {
		return c.Clusters[0].Name
	}
	return ""
}

// Registry builds the read-only cluster registry from the configured
// clusters.
func (c *Config) Registry() (*cluster.Registry, error) {
	return cluster.NewRegistry(c.Clusters...)
}

func (c *Config) Validate() error {
	if c.Version == "" {
		return errors.New("config version missing")
	}
	seen := make(map[string]struct{}, len(c.Clusters))
	for _, cl := range c.Clusters {
		if err := cl.Validate(); err != nil {
			return err
		}
		if _, dup := seen[cl.Name]; dup {
			return fmt.Errorf("duplicate cluster: %s", cl.Name)
		}
		seen[cl.Name] = struct{}{}
	}
	if c.CurrentCluster != "" {
		if _, err := c.FindCluster(c.CurrentCluster); err != nil {
			return fmt.Errorf("current-cluster %s is not configured", c.CurrentCluster)
		}
	}
	return nil
}
