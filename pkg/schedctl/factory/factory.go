// Package factory constructs scheduler clients bound to a named
// cluster. A Factory captures the cross-cutting client parameters
// (user agent, verbosity, hook enablement) once at creation; every
// client it produces carries the same values, with only the cluster
// binding varying per call. Cluster references are validated against
// the registry before any client is built, so a returned client is
// always bound to a known cluster.
package factory

import (
	"errors"
	"fmt"
	"os"

	"github.com/skylift/schedctl/pkg/schedctl/client"
	"github.com/skylift/schedctl/pkg/schedctl/cluster"
	"github.com/skylift/schedctl/pkg/schedctl/hooks"
)

// Verbosity controls request tracing on produced clients.
type Verbosity string

const (
	VerbosityNormal  Verbosity = "normal"
	VerbosityVerbose Verbosity = "verbose"
)

// VerbosityFromEnv reads SCHEDCTL_VERBOSITY, defaulting to normal for
// unset or unrecognized values.
func VerbosityFromEnv() Verbosity {
	if os.Getenv("SCHEDCTL_VERBOSITY") == string(VerbosityVerbose) {
		return VerbosityVerbose
	}
	return VerbosityNormal
}

// UnknownClusterError reports a cluster reference that has no entry in
// the registry. No client is produced when this is returned.
type UnknownClusterError struct {
	Name string
}

func (e *UnknownClusterError) Error() string {
	return fmt.Sprintf("unknown cluster: %s", e.Name)
}

// Factory produces scheduler clients. Immutable after New; safe for
// concurrent use.
type Factory struct {
	registry      *cluster.Registry
	userAgent     string
	verbose       bool
	hooksEnabled  bool
	hooks         []hooks.Hook
	clientOptions []client.Option
	logf          client.LogFunc
}

type Option func(*Factory) error

// WithVerbosity overrides the ambient verbosity snapshot.
func WithVerbosity(v Verbosity) Option {
	return func(f *Factory) error {
		switch v {
		case VerbosityNormal, VerbosityVerbose:
			f.verbose = v == VerbosityVerbose
			return nil
		default:
			return fmt.Errorf("unknown verbosity: %s", v)
		}
	}
}

// WithHooksEnabled toggles the hook-intercepting client variant.
// Hooks are enabled by default.
func WithHooksEnabled(enabled bool) Option {
	return func(f *Factory) error {
		f.hooksEnabled = enabled
		return nil
	}
}

// WithHooks registers hooks to run on job-mutating calls of every
// produced client. Ignored when hooks are disabled.
func WithHooks(h ...hooks.Hook) Option {
	return func(f *Factory) error {
		f.hooks = append(f.hooks, h...)
		return nil
	}
}

// WithClientOptions adds base client options applied to every
// produced client, before any per-call options.
func WithClientOptions(opts ...client.Option) Option {
	return func(f *Factory) error {
		f.clientOptions = append(f.clientOptions, opts...)
		return nil
	}
}

// WithLogFunc sets the sink for verbose request traces.
func WithLogFunc(logf client.LogFunc) Option {
	return func(f *Factory) error {
		f.logf = logf
		return nil
	}
}

// New creates a factory bound to registry. The user agent and all
// options are captured once; later changes to ambient configuration do
// not affect clients produced by this factory.
func New(registry *cluster.Registry, userAgent string, opts ...Option) (*Factory, error) {
	if registry == nil {
		return nil, errors.New("cluster registry is required")
	}
	if userAgent == "" {
		return nil, errors.New("user agent is required")
	}
	f := &Factory{
		registry:     registry,
		userAgent:    userAgent,
		verbose:      VerbosityFromEnv() == VerbosityVerbose,
		hooksEnabled: true,
		logf: func(format string, args ...any) {
			_, _ = fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
		},
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// NewClient resolves ref against the registry and returns a client
// bound to the resolved cluster. The reference may be a bare name or a
// full descriptor; resolution is by name in either case. An unknown
// name yields *UnknownClusterError and no client. Extra options are
// forwarded to the client constructor verbatim; errors from it
// propagate unchanged.
func (f *Factory) NewClient(ref cluster.Ref, extra ...client.Option) (client.API, error) {
	var name string
	if ref != nil {
		name = ref.ClusterName()
	}
	resolved, ok := f.registry.Get(name)
	if !ok {
		return nil, &UnknownClusterError{Name: name}
	}

	opts := []client.Option{
		client.WithCluster(resolved),
		client.WithUserAgent(f.userAgent),
	}
	if f.verbose {
		opts = append(opts, client.WithVerbose(f.logf))
	}
	opts = append(opts, f.clientOptions...)
	opts = append(opts, extra...)

	base, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	if !f.hooksEnabled {
		return base, nil
	}
	return hooks.Wrap(base, f.hooks...), nil
}

// NewClient builds a throwaway factory and immediately resolves ref
// with it, for callers that need exactly one client and no reusable
// factory. Resolution semantics are those of [Factory.NewClient]; no
// state is retained between calls.
func NewClient(registry *cluster.Registry, ref cluster.Ref, userAgent string, opts ...Option) (client.API, error) {
	f, err := New(registry, userAgent, opts...)
	if err != nil {
		return nil, err
	}
	return f.NewClient(ref)
}
