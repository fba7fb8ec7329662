package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylift/schedctl/pkg/schedctl/cluster"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name:    "missing scheduler",
			opts:    []Option{},
			wantErr: true,
		},
		{
			name: "valid config",
			opts: []Option{
				WithScheduler("https://sched.example.com"),
				WithToken("test-token"),
			},
			wantErr: false,
		},
		{
			name: "with custom user agent",
			opts: []Option{
				WithScheduler("https://sched.example.com"),
				WithUserAgent("test-agent/1.0"),
			},
			wantErr: false,
		},
		{
			name: "empty user agent",
			opts: []Option{
				WithScheduler("https://sched.example.com"),
				WithUserAgent(""),
			},
			wantErr: true,
		},
		{
			name: "non-positive timeout",
			opts: []Option{
				WithScheduler("https://sched.example.com"),
				WithTimeout(0),
			},
			wantErr: true,
		},
		{
			name: "nil request ID generator",
			opts: []Option{
				WithScheduler("https://sched.example.com"),
				WithRequestID(nil),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, c)
			} else {
				require.NoError(t, err)
				require.NotNil(t, c)
			}
		})
	}
}

func TestNewClientWithCluster(t *testing.T) {
	cl := cluster.Cluster{Name: "west", Scheduler: "https://sched.west.example.com", Zone: "us-west-1"}
	c, err := New(WithCluster(cl), WithUserAgent("agent/1.0"))
	require.NoError(t, err)
	assert.Equal(t, cl, c.Cluster())
	assert.Equal(t, "agent/1.0", c.UserAgent())
	assert.False(t, c.Verbose())
}

func TestClientDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		require.Equal(t, "fixed-id", r.Header.Get("X-Request-Id"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	c, err := New(
		WithScheduler(server.URL),
		WithToken("test-token"),
		WithUserAgent("test-agent"),
		WithRequestID(func() string { return "fixed-id" }),
	)
	require.NoError(t, err)

	var result map[string]string
	err = c.do(context.Background(), http.MethodGet, "/test", nil, &result)
	require.NoError(t, err)
	require.Equal(t, "ok", result["status"])
}

func TestClientDoVerbose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var lines []string
	c, err := New(
		WithScheduler(server.URL),
		WithVerbose(func(format string, args ...any) {
			lines = append(lines, format)
		}),
	)
	require.NoError(t, err)
	assert.True(t, c.Verbose())

	err = c.do(context.Background(), http.MethodGet, "/test", nil, nil)
	require.NoError(t, err)
	// one trace line for the request, one for the response
	assert.Len(t, lines, 2)
}

func TestClientDoError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "job not found"})
	}))
	defer server.Close()

	c, err := New(WithScheduler(server.URL))
	require.NoError(t, err)

	err = c.do(context.Background(), http.MethodGet, "/missing", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "job not found")
}

func TestClientTimeout(t *testing.T) {
	c, err := New(
		WithScheduler("https://sched.example.com"),
		WithTimeout(5*time.Second),
	)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: http.StatusForbidden, Message: "access denied"}
	require.Equal(t, "scheduler request failed (403): access denied", err.Error())
}
