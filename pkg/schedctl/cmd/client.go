package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/skylift/schedctl/pkg/schedctl/auth"
	"github.com/skylift/schedctl/pkg/schedctl/client"
	"github.com/skylift/schedctl/pkg/schedctl/cluster"
	"github.com/skylift/schedctl/pkg/schedctl/config"
	"github.com/skylift/schedctl/pkg/schedctl/factory"
	"github.com/skylift/schedctl/pkg/schedctl/hooks"
)

const userAgent = "schedctl"

func buildClient(rt *runtimeState) (client.API, error) {
	// A scheduler URL plus token via flags/env bypasses cluster
	// resolution entirely; the caller is responsible for the URL.
	if rt.schedulerOverride != "" && rt.tokenOverride != "" {
		options := []client.Option{
			client.WithScheduler(rt.schedulerOverride),
			client.WithToken(rt.tokenOverride),
			client.WithUserAgent(userAgent),
		}
		options = append(options, settingsOptions(rt)...)
		if rt.verbose {
			options = append(options, client.WithVerbose(debugLogf))
		}
		return client.New(options...)
	}

	if err := rt.EnsureConfigLoaded(); err != nil {
		return nil, err
	}
	registry, err := rt.cfg.Registry()
	if err != nil {
		return nil, err
	}

	name := rt.ResolveClusterName()
	if name == "" {
		return nil, fmt.Errorf("no cluster configured; use --cluster or set current-cluster")
	}

	token := rt.resolveToken()
	if token == "" {
		resolved, ok := registry.Get(name)
		if !ok {
			return nil, &factory.UnknownClusterError{Name: name}
		}
		token, err = resolveTokenFromStore(rt, &resolved)
		if err != nil {
			return nil, err
		}
	}

	f, err := buildFactory(rt, registry)
	if err != nil {
		return nil, err
	}
	return f.NewClient(cluster.Name(name), client.WithToken(token))
}

func buildFactory(rt *runtimeState, registry *cluster.Registry) (*factory.Factory, error) {
	verbosity := factory.VerbosityNormal
	if rt.verbose || (rt.cfg != nil && rt.cfg.Settings.Verbosity == string(factory.VerbosityVerbose)) {
		verbosity = factory.VerbosityVerbose
	}
	opts := []factory.Option{
		factory.WithVerbosity(verbosity),
		factory.WithHooksEnabled(!rt.disableHooks),
		factory.WithLogFunc(debugLogf),
	}
	if !rt.disableHooks && verbosity == factory.VerbosityVerbose {
		log, err := buildDebugLogger()
		if err != nil {
			return nil, err
		}
		opts = append(opts, factory.WithHooks(hooks.NewLoggingHook(log)))
	}
	if clientOpts := settingsOptions(rt); len(clientOpts) > 0 {
		opts = append(opts, factory.WithClientOptions(clientOpts...))
	}
	return factory.New(registry, userAgent, opts...)
}

func settingsOptions(rt *runtimeState) []client.Option {
	var options []client.Option
	if rt.cfg != nil && rt.cfg.Settings.Timeout != "" {
		if timeout, parseErr := time.ParseDuration(rt.cfg.Settings.Timeout); parseErr == nil {
			options = append(options, client.WithTimeout(timeout))
		}
	}
	return options
}

func resolveTokenFromStore(rt *runtimeState, cl *cluster.Cluster) (string, error) {
	store, err := auth.NewStore(rt.TokenStorage(), config.DefaultTokenPath())
	if err != nil {
		return "", err
	}
	stored, ok, err := store.GetToken(cl.Name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no token for cluster %s; run 'schedctl auth login'", cl.Name)
	}
	if stored.Expired() {
		if refreshed, ok := refreshStoredToken(rt, cl, store, stored); ok {
			return refreshed.AccessToken, nil
		}
		return "", fmt.Errorf("token for cluster %s expired; run 'schedctl auth login'", cl.Name)
	}
	return stored.AccessToken, nil
}

// refreshStoredToken renews an expired token against the cluster's
// identity provider when a refresh token is on hand. Failures fall
// back to the expired-token error path.
func refreshStoredToken(rt *runtimeState, cl *cluster.Cluster, store auth.Store, stored auth.StoredToken) (auth.StoredToken, bool) {
	if cl.OIDC == nil || stored.RefreshToken == "" {
		return auth.StoredToken{}, false
	}
	provider, err := providerConfig(cl)
	if err != nil {
		debugLogf("token refresh skipped: %v", err)
		return auth.StoredToken{}, false
	}
	refreshed, err := auth.Refresh(context.Background(), provider, stored)
	if err != nil {
		debugLogf("token refresh failed: %v", err)
		return auth.StoredToken{}, false
	}
	if err := store.SaveToken(cl.Name, refreshed); err != nil {
		debugLogf("failed to persist refreshed token: %v", err)
	}
	return refreshed, true
}

// debugLogf writes to stderr to avoid corrupting JSON output.
func debugLogf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
}

func buildDebugLogger() (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}
