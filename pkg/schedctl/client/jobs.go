package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skylift/schedctl/pkg/schedctl/cluster"
)

// JobKey uniquely identifies a job within a cluster.
type JobKey struct {
	Role        string `json:"role"`
	Environment string `json:"environment"`
	Name        string `json:"name"`
}

func (k JobKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Role, k.Environment, k.Name)
}

func (k JobKey) Validate() error {
	if k.Role == "" || k.Environment == "" || k.Name == "" {
		return fmt.Errorf("incomplete job key: %s", k)
	}
	return nil
}

// ParseJobKey parses "role/environment/name".
func ParseJobKey(s string) (JobKey, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return JobKey{}, fmt.Errorf("invalid job key %q, expected role/environment/name", s)
	}
	key := JobKey{Role: parts[0], Environment: parts[1], Name: parts[2]}
	return key, key.Validate()
}

type Resources struct {
	CPU    float64 `json:"cpu"`
	RAMMb  int64   `json:"ramMb"`
	DiskMb int64   `json:"diskMb"`
}

type JobConfig struct {
	Key        JobKey    `json:"key"`
	Instances  int32     `json:"instances"`
	Resources  Resources `json:"resources"`
	Tier       string    `json:"tier,omitempty"`
	Production bool      `json:"production,omitempty"`
	Executor   string    `json:"executor,omitempty"`
}

type JobSummary struct {
	Key       JobKey     `json:"key"`
	Instances int32      `json:"instances"`
	State     string     `json:"state"`
	Tier      string     `json:"tier,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type TaskStatus struct {
	InstanceID int32  `json:"instanceId"`
	State      string `json:"state"`
	Host       string `json:"host,omitempty"`
	Message    string `json:"message,omitempty"`
}

type JobStatus struct {
	Key     JobKey       `json:"key"`
	Active  int32        `json:"active"`
	Pending int32        `json:"pending"`
	Failed  int32        `json:"failed"`
	Tasks   []TaskStatus `json:"tasks,omitempty"`
}

type ListJobsOptions struct {
	Role        string
	Environment string
}

// API is the scheduler client surface. Both the plain *Client and the
// hook-intercepting wrapper implement it, so callers can treat the two
// interchangeably.
type API interface {
	CreateJob(ctx context.Context, cfg JobConfig) (*JobSummary, error)
	UpdateJob(ctx context.Context, cfg JobConfig) (*JobSummary, error)
	KillJob(ctx context.Context, key JobKey, instances []int32) (*JobSummary, error)
	RestartJob(ctx context.Context, key JobKey, instances []int32) (*JobSummary, error)
	GetJob(ctx context.Context, key JobKey) (*JobSummary, error)
	JobStatus(ctx context.Context, key JobKey) (*JobStatus, error)
	ListJobs(ctx context.Context, opts ListJobsOptions) ([]JobSummary, error)
	GetQuota(ctx context.Context, role string) (*Quota, error)

	Cluster() cluster.Cluster
	UserAgent() string
	Verbose() bool
}

func jobEndpoint(key JobKey, suffix string) string {
	endpoint := fmt.Sprintf("api/jobs/%s/%s/%s",
		url.PathEscape(key.Role), url.PathEscape(key.Environment), url.PathEscape(key.Name))
	if suffix != "" {
		endpoint = endpoint + "/" + suffix
	}
	return endpoint
}

type jobActionRequest struct {
	Instances []int32 `json:"instances,omitempty"`
}

func (c *Client) CreateJob(ctx context.Context, cfg JobConfig) (*JobSummary, error) {
	if err := cfg.Key.Validate(); err != nil {
		return nil, err
	}
	var summary JobSummary
	if err := c.do(ctx, http.MethodPost, "api/jobs", cfg, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) UpdateJob(ctx context.Context, cfg JobConfig) (*JobSummary, error) {
	if err := cfg.Key.Validate(); err != nil {
		return nil, err
	}
	var summary JobSummary
	if err := c.do(ctx, http.MethodPut, jobEndpoint(cfg.Key, ""), cfg, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) KillJob(ctx context.Context, key JobKey, instances []int32) (*JobSummary, error) {
	return c.jobAction(ctx, key, "kill", instances)
}

func (c *Client) RestartJob(ctx context.Context, key JobKey, instances []int32) (*JobSummary, error) {
	return c.jobAction(ctx, key, "restart", instances)
}

func (c *Client) jobAction(ctx context.Context, key JobKey, action string, instances []int32) (*JobSummary, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	var summary JobSummary
	var payload *jobActionRequest
	if len(instances) > 0 {
		payload = &jobActionRequest{Instances: instances}
	}
	if err := c.do(ctx, http.MethodPost, jobEndpoint(key, action), payload, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) GetJob(ctx context.Context, key JobKey) (*JobSummary, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	var summary JobSummary
	if err := c.do(ctx, http.MethodGet, jobEndpoint(key, ""), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) JobStatus(ctx context.Context, key JobKey) (*JobStatus, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	var status JobStatus
	if err := c.do(ctx, http.MethodGet, jobEndpoint(key, "status"), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) ListJobs(ctx context.Context, opts ListJobsOptions) ([]JobSummary, error) {
	endpoint := "api/jobs"
	params := url.Values{}
	if opts.Role != "" {
		params.Set("role", opts.Role)
	}
	if opts.Environment != "" {
		params.Set("environment", opts.Environment)
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint = fmt.Sprintf("%s?%s", endpoint, encoded)
	}
	var jobs []JobSummary
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FormatInstances renders an instance list for diagnostics.
func FormatInstances(instances []int32) string {
	if len(instances) == 0 {
		return "all"
	}
	parts := make([]string, len(instances))
	for i, id := range instances {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}
