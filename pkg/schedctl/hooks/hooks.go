// Package hooks provides an interception layer around the scheduler
// client. Registered hooks run before and after every job-mutating
// call; a pre-hook can veto the call entirely. Read-only calls are
// never intercepted.
package hooks

import (
	"context"
	"fmt"

	"github.com/skylift/schedctl/pkg/schedctl/client"
	"github.com/skylift/schedctl/pkg/schedctl/cluster"
)

// Hook observes and optionally vetoes job-mutating API calls.
type Hook interface {
	// Name identifies the hook in diagnostics.
	Name() string
	// PreJobAction runs before the call. Returning an error vetoes
	// the call; the scheduler is never contacted.
	PreJobAction(ctx context.Context, action string, key client.JobKey) error
	// PostJobAction runs after the call with its outcome.
	PostJobAction(ctx context.Context, action string, key client.JobKey, err error)
}

// VetoError reports a hook that refused a job action.
type VetoError struct {
	Hook   string
	Action string
	Key    client.JobKey
	Reason error
}

func (e *VetoError) Error() string {
	return fmt.Sprintf("hook %s vetoed %s on %s: %v", e.Hook, e.Action, e.Key, e.Reason)
}

func (e *VetoError) Unwrap() error { return e.Reason }

// Wrap returns an API that runs hooks around api's job-mutating calls.
// The wrapper is returned even when no hooks are registered, so the
// produced variant stays hook-capable either way.
func Wrap(api client.API, hooks ...Hook) client.API {
	return &hookedAPI{api: api, hooks: hooks}
}

// IsHooked reports whether api is a hook-intercepting wrapper.
func IsHooked(api client.API) bool {
	_, ok := api.(*hookedAPI)
	return ok
}

type hookedAPI struct {
	api   client.API
	hooks []Hook
}

func (h *hookedAPI) runPre(ctx context.Context, action string, key client.JobKey) error {
	for _, hook := range h.hooks {
		if err := hook.PreJobAction(ctx, action, key); err != nil {
			return &VetoError{Hook: hook.Name(), Action: action, Key: key, Reason: err}
		}
	}
	return nil
}

func (h *hookedAPI) runPost(ctx context.Context, action string, key client.JobKey, err error) {
	for _, hook := range h.hooks {
		hook.PostJobAction(ctx, action, key, err)
	}
}

func (h *hookedAPI) CreateJob(ctx context.Context, cfg client.JobConfig) (*client.JobSummary, error) {
	if err := h.runPre(ctx, "create", cfg.Key); err != nil {
		return nil, err
	}
	summary, err := h.api.CreateJob(ctx, cfg)
	h.runPost(ctx, "create", cfg.Key, err)
	return summary, err
}

func (h *hookedAPI) UpdateJob(ctx context.Context, cfg client.JobConfig) (*client.JobSummary, error) {
	if err := h.runPre(ctx, "update", cfg.Key); err != nil {
		return nil, err
	}
	summary, err := h.api.UpdateJob(ctx, cfg)
	h.runPost(ctx, "update", cfg.Key, err)
	return summary, err
}

func (h *hookedAPI) KillJob(ctx context.Context, key client.JobKey, instances []int32) (*client.JobSummary, error) {
	if err := h.runPre(ctx, "kill", key); err != nil {
		return nil, err
	}
	summary, err := h.api.KillJob(ctx, key, instances)
	h.runPost(ctx, "kill", key, err)
	return summary, err
}

func (h *hookedAPI) RestartJob(ctx context.Context, key client.JobKey, instances []int32) (*client.JobSummary, error) {
	if err := h.runPre(ctx, "restart", key); err != nil {
		return nil, err
	}
	summary, err := h.api.RestartJob(ctx, key, instances)
	h.runPost(ctx, "restart", key, err)
	return summary, err
}

func (h *hookedAPI) GetJob(ctx context.Context, key client.JobKey) (*client.JobSummary, error) {
	return h.api.GetJob(ctx, key)
}

func (h *hookedAPI) JobStatus(ctx context.Context, key client.JobKey) (*client.JobStatus, error) {
	return h.api.JobStatus(ctx, key)
}

func (h *hookedAPI) ListJobs(ctx context.Context, opts client.ListJobsOptions) ([]client.JobSummary, error) {
	return h.api.ListJobs(ctx, opts)
}

func (h *hookedAPI) GetQuota(ctx context.Context, role string) (*client.Quota, error) {
	return h.api.GetQuota(ctx, role)
}

func (h *hookedAPI) Cluster() cluster.Cluster { return h.api.Cluster() }

func (h *hookedAPI) UserAgent() string { return h.api.UserAgent() }

func (h *hookedAPI) Verbose() bool { return h.api.Verbose() }
