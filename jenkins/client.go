// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package jenkins triggers a deployment job and follows it from queue item
// to terminal build result.
//
// The lifecycle mirrors Jenkins' own model: triggering returns a queue item
// URL, the queue item eventually points at a running build, and the build
// eventually carries a result. SUCCESS and UNSTABLE both count as a passing
// deployment.
package jenkins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result is a terminal Jenkins build result.
type Result string

const (
	ResultSuccess  Result = "SUCCESS"
	ResultUnstable Result = "UNSTABLE"
	ResultFailure  Result = "FAILURE"
	ResultAborted  Result = "ABORTED"
)

// OK reports whether the result counts as a passing deployment.
func (r Result) OK() bool {
	return r == ResultSuccess || r == ResultUnstable
}

var (
	// ErrQueueCancelled is returned when the queued build is cancelled
	// before it starts.
	ErrQueueCancelled = errors.New("jenkins: queued build was cancelled")

	// ErrNoQueueLocation is returned when the trigger response carries no
	// Location header.
	ErrNoQueueLocation = errors.New("jenkins: trigger response missing queue location")
)

// TimeoutError is returned when a wait deadline passes before Jenkins
// reaches the awaited state.
type TimeoutError struct {
	Stage   string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("jenkins: timed out waiting for %s after %s", e.Stage, e.Elapsed)
}

// Client drives one Jenkins job.
type Client struct {
	baseURL      string
	jobPath      string
	user         string
	token        string
	pollInterval time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

// Option customizes the Jenkins client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Redirect following
// stays disabled; the queue location arrives as a redirect header.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
			c.httpClient.CheckRedirect = noRedirect
		}
	}
}

// WithPollInterval sets the delay between status polls. Default 2s.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

func noRedirect(req *http.Request, via []*http.Request) error {
	return http.ErrUseLastResponse
}

// NewClient constructs a client for one job.
// jobPath is the job's URL path, e.g. "job/deploy-index".
func NewClient(baseURL, jobPath, user, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("jenkins: base URL required")
	}
	jobPath = strings.Trim(strings.TrimSpace(jobPath), "/")
	if jobPath == "" {
		return nil, errors.New("jenkins: job path required")
	}

	client := &Client{
		baseURL:      baseURL,
		jobPath:      jobPath,
		user:         user,
		token:        token,
		pollInterval: 2 * time.Second,
		httpClient:   &http.Client{CheckRedirect: noRedirect},
		logger:       slog.Default().With("component", "jenkins"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Trigger starts a parameterized build and returns the queue item URL.
func (c *Client) Trigger(ctx context.Context, params map[string]string) (string, error) {
	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}

	endpoint := fmt.Sprintf("%s/%s/buildWithParameters", c.baseURL, c.jobPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("jenkins trigger: build request: %w", err)
	}
	req.SetBasicAuth(c.user, c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("jenkins trigger: request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("jenkins trigger: http %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrNoQueueLocation
	}

	c.logger.Info("build queued", "queue", location)
	return location, nil
}

type queueItem struct {
	Cancelled  bool `json:"cancelled"`
	Executable *struct {
		URL string `json:"url"`
	} `json:"executable"`
}

// ResolveQueue polls the queue item until Jenkins assigns a build, the
// item is cancelled, or the timeout passes. Returns the build URL.
func (c *Client) ResolveQueue(ctx context.Context, queueURL string, timeout time.Duration) (string, error) {
	start := time.Now()
	for {
		var item queueItem
		if err := c.getJSON(ctx, strings.TrimRight(queueURL, "/")+"/api/json", &item); err != nil {
			return "", fmt.Errorf("jenkins queue poll: %w", err)
		}

		if item.Cancelled {
			return "", ErrQueueCancelled
		}
		if item.Executable != nil && item.Executable.URL != "" {
			c.logger.Info("build started", "build", item.Executable.URL)
			return item.Executable.URL, nil
		}

		if time.Since(start) >= timeout {
			return "", &TimeoutError{Stage: "queue", Elapsed: time.Since(start)}
		}
		if err := c.sleep(ctx); err != nil {
			return "", err
		}
	}
}

type buildStatus struct {
	Result string `json:"result"`
}

// WaitResult polls the build until it reports a terminal result or the
// timeout passes.
func (c *Client) WaitResult(ctx context.Context, buildURL string, timeout time.Duration) (Result, error) {
	start := time.Now()
	for {
		var status buildStatus
		if err := c.getJSON(ctx, strings.TrimRight(buildURL, "/")+"/api/json", &status); err != nil {
			return "", fmt.Errorf("jenkins build poll: %w", err)
		}

		if status.Result != "" {
			result := Result(status.Result)
			c.logger.Info("build finished", "result", result)
			return result, nil
		}

		if time.Since(start) >= timeout {
			return "", &TimeoutError{Stage: "build", Elapsed: time.Since(start)}
		}
		if err := c.sleep(ctx); err != nil {
			return "", err
		}
	}
}

// Run triggers the job and follows it to a terminal result.
func (c *Client) Run(ctx context.Context, params map[string]string, queueTimeout, buildTimeout time.Duration) (Result, error) {
	queueURL, err := c.Trigger(ctx, params)
	if err != nil {
		return "", err
	}

	buildURL, err := c.ResolveQueue(ctx, queueURL, queueTimeout)
	if err != nil {
		return "", err
	}

	return c.WaitResult(ctx, buildURL, buildTimeout)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.user, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return json.Unmarshal(payload, result)
}

func (c *Client) sleep(ctx context.Context) error {
	timer := time.NewTimer(c.pollInterval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
