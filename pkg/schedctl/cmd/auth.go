package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skylift/schedctl/pkg/schedctl/auth"
	"github.com/skylift/schedctl/pkg/schedctl/cluster"
	"github.com/skylift/schedctl/pkg/schedctl/config"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API tokens",
	}

	cmd.AddCommand(
		newAuthLoginCommand(),
		newAuthLogoutCommand(),
		newAuthWhoamiCommand(),
	)

	return cmd
}

func authStore(rt *runtimeState) (auth.Store, error) {
	return auth.NewStore(rt.TokenStorage(), config.DefaultTokenPath())
}

func newAuthLoginCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the current cluster's identity provider",
		Long: `Log in to the current cluster and store the resulting token.

Clusters with an oidc block in the clusters file authenticate against
their identity provider (device-code flow by default). For clusters
without one, pass the token directly with --token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			name := rt.ResolveClusterName()
			if name == "" {
				return fmt.Errorf("no cluster configured; use --cluster or set current-cluster")
			}
			var cl *cluster.Cluster
			if rt.cfg != nil {
				cl, err = rt.cfg.FindCluster(name)
				if err != nil {
					return err
				}
			}
			store, err := authStore(rt)
			if err != nil {
				return err
			}

			var stored auth.StoredToken
			switch {
			case token != "":
				stored = auth.StoredToken{
					AccessToken: token,
					TokenType:   "Bearer",
					Expiry:      auth.TokenExpiry(token),
				}
			case cl != nil && cl.OIDC != nil:
				provider, err := providerConfig(cl)
				if err != nil {
					return err
				}
				stored, err = auth.Login(cmd.Context(), provider)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("cluster %s has no oidc configuration; --token is required", name)
			}

			if err := store.SaveToken(name, stored); err != nil {
				return err
			}
			if token != "" {
				_, _ = fmt.Fprintf(rt.Writer(), "Stored token for cluster %s\n", name)
			} else {
				_, _ = fmt.Fprintf(rt.Writer(), "Logged in to cluster %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Store this token instead of logging in via OIDC")
	return cmd
}

// providerConfig maps a cluster's oidc block onto the identity
// provider configuration, resolving the client secret source.
func providerConfig(cl *cluster.Cluster) (auth.ProviderConfig, error) {
	secret, err := auth.ResolveClientSecret(cl.OIDC.ClientSecret, cl.OIDC.ClientSecretEnv, cl.OIDC.ClientSecretFile)
	if err != nil {
		return auth.ProviderConfig{}, err
	}
	return auth.ProviderConfig{
		Issuer:          cl.OIDC.Issuer,
		ClientID:        cl.OIDC.ClientID,
		ClientSecret:    secret,
		Scopes:          cl.OIDC.Scopes,
		GrantType:       cl.OIDC.GrantType,
		CAFile:          cl.CAFile,
		InsecureSkipTLS: cl.InsecureSkipTLSVerify,
	}, nil
}

func newAuthLogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token for the current cluster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			name := rt.ResolveClusterName()
			if name == "" {
				return fmt.Errorf("no cluster configured")
			}
			store, err := authStore(rt)
			if err != nil {
				return err
			}
			if err := store.DeleteToken(name); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Removed token for cluster %s\n", name)
			return nil
		},
	}
	return cmd
}

func newAuthWhoamiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity of the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			name := rt.ResolveClusterName()
			if name == "" {
				return fmt.Errorf("no cluster configured")
			}
			token := rt.resolveToken()
			if token == "" {
				store, err := authStore(rt)
				if err != nil {
					return err
				}
				stored, ok, err := store.GetToken(name)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no token for cluster %s; run 'schedctl auth login'", name)
				}
				token = stored.AccessToken
			}
			user := auth.ExtractUser(token)
			if user == "" {
				user = "(opaque token)"
			}
			_, _ = fmt.Fprintf(rt.Writer(), "%s @ %s", user, name)
			if expiry := auth.TokenExpiry(token); !expiry.IsZero() {
				_, _ = fmt.Fprintf(rt.Writer(), " (expires %s)", expiry.Format(time.RFC3339))
			}
			_, _ = fmt.Fprintln(rt.Writer())
			return nil
		},
	}
	return cmd
}
