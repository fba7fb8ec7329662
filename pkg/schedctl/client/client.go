package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skylift/schedctl/pkg/schedctl/cluster"
)

// LogFunc receives verbose request/response traces.
type LogFunc func(format string, args ...any)

type Client struct {
	baseURL   *url.URL
	cluster   cluster.Cluster
	token     string
	http      *http.Client
	userAgent string
	verbose   bool
	logf      LogFunc
	requestID func() string
}

type Option func(*Client) error

func New(opts ...Option) (*Client, error) {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "schedctl",
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		return nil, errors.New("scheduler endpoint is required")
	}
	return c, nil
}

// WithScheduler sets the scheduler base URL.
func WithScheduler(endpoint string) Option {
	return func(c *Client) error {
		if endpoint == "" {
			return errors.New("scheduler endpoint is required")
		}
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("invalid scheduler endpoint: %w", err)
		}
		c.baseURL = parsed
		return nil
	}
}

// WithCluster binds the client to a resolved cluster descriptor and
// derives the scheduler endpoint and TLS settings from it.
func WithCluster(cl cluster.Cluster) Option {
	return func(c *Client) error {
		if err := WithScheduler(cl.Scheduler)(c); err != nil {
			return err
		}
		if err := WithTLSConfig(cl.CAFile, cl.InsecureSkipTLSVerify)(c); err != nil {
			return err
		}
		c.cluster = cl
		return nil
	}
}

func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		if userAgent == "" {
			return errors.New("user agent cannot be empty")
		}
		c.userAgent = userAgent
		return nil
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return errors.New("timeout must be positive")
		}
		c.http.Timeout = timeout
		return nil
	}
}

// WithVerbose enables request tracing through logf.
func WithVerbose(logf LogFunc) Option {
	return func(c *Client) error {
		c.verbose = true
		c.logf = logf
		return nil
	}
}

// WithRequestID overrides the correlation-ID generator. Used by tests
// for deterministic IDs.
func WithRequestID(gen func() string) Option {
	return func(c *Client) error {
		if gen == nil {
			return errors.New("request ID generator cannot be nil")
		}
		c.requestID = gen
		return nil
	}
}

func WithTLSConfig(caFile string, insecureSkipTLSVerify bool) Option {
	return func(c *Client) error {
		tlsConfig, err := loadTLSConfig(caFile, insecureSkipTLSVerify)
		if err != nil {
			return err
		}
		transport := &http.Transport{TLSClientConfig: tlsConfig}
		c.http = &http.Client{Transport: transport, Timeout: c.http.Timeout}
		return nil
	}
}

func loadTLSConfig(caFile string, insecure bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: insecure}
	if caFile == "" {
		return tlsConfig, nil
	}
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(data); !ok {
		return nil, errors.New("failed to parse CA file")
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

// Cluster returns the descriptor this client is bound to. Zero value
// when the client was built from a raw endpoint.
func (c *Client) Cluster() cluster.Cluster { return c.cluster }

func (c *Client) UserAgent() string { return c.userAgent }

func (c *Client) Verbose() bool { return c.verbose }

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	fullURL := *c.baseURL
	parsedEndpoint, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	fullURL.Path = path.Join(fullURL.Path, parsedEndpoint.Path)
	if parsedEndpoint.RawQuery != "" {
		fullURL.RawQuery = parsedEndpoint.RawQuery
	}

	var payload io.Reader
	if body != nil {
		bytesBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(bytesBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), payload)
	if err != nil {
		return err
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.verbose && c.logf != nil {
		c.logf("%s %s (request-id: %s)", method, fullURL.String(), requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if c.verbose && c.logf != nil {
		c.logf("%s %s -> %s (request-id: %s)", method, fullURL.String(), resp.Status, requestID)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) > 0 {
		_ = json.Unmarshal(body, &apiErr)
	}
	msg := strings.TrimSpace(apiErr.Error)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scheduler request failed (%d): %s", e.StatusCode, e.Message)
}
