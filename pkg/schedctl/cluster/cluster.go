package cluster

import (
	"fmt"
	"strings"
)

// Cluster describes a single scheduler target: where the scheduler
// lives and how to talk to it.
type Cluster struct {
	Name                  string `yaml:"name" json:"name"`
	Scheduler             string `yaml:"scheduler" json:"scheduler"`
	Zone                  string `yaml:"zone,omitempty" json:"zone,omitempty"`
	AgentRoot             string `yaml:"agent-root,omitempty" json:"agentRoot,omitempty"`
	AuthMechanism         string `yaml:"auth-mechanism,omitempty" json:"authMechanism,omitempty"`
	CAFile                string `yaml:"ca-file,omitempty" json:"caFile,omitempty"`
	InsecureSkipTLSVerify bool   `yaml:"insecure-skip-tls-verify,omitempty" json:"insecureSkipTLSVerify,omitempty"`
	OIDC                  *OIDC  `yaml:"oidc,omitempty" json:"oidc,omitempty"`
}

// OIDC configures the identity provider schedctl acquires tokens from
// for a cluster. Absent means tokens are supplied out of band.
type OIDC struct {
	Issuer           string   `yaml:"issuer" json:"issuer"`
	ClientID         string   `yaml:"client-id" json:"clientID"`
	ClientSecret     string   `yaml:"client-secret,omitempty" json:"clientSecret,omitempty"`
	ClientSecretEnv  string   `yaml:"client-secret-env,omitempty" json:"clientSecretEnv,omitempty"`
	ClientSecretFile string   `yaml:"client-secret-file,omitempty" json:"clientSecretFile,omitempty"`
	GrantType        string   `yaml:"grant-type,omitempty" json:"grantType,omitempty"`
	Scopes           []string `yaml:"scopes,omitempty" json:"scopes,omitempty"`
}

// ClusterName lets a *Cluster act as its own reference.
func (c *Cluster) ClusterName() string {
	if c == nil {
		return ""
	}
	return c.Name
}

func (c *Cluster) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("cluster name cannot be empty")
	}
	if strings.TrimSpace(c.Scheduler) == "" {
		return fmt.Errorf("cluster %s: scheduler endpoint is required", c.Name)
	}
	if c.OIDC != nil {
		if strings.TrimSpace(c.OIDC.Issuer) == "" || strings.TrimSpace(c.OIDC.ClientID) == "" {
			return fmt.Errorf("cluster %s: oidc issuer and client-id are required", c.Name)
		}
	}
	return nil
}

// Ref is a reference to a cluster: either a bare name or a full
// descriptor. Resolution always goes through the name; a descriptor
// passed as a Ref is never trusted over the registry entry.
type Ref interface {
	ClusterName() string
}

// Name is a cluster name used directly as a Ref.
type Name string

func (n Name) ClusterName() string { return string(n) }
