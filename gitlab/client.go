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


// Package gitlab is a minimal client for the GitLab repository API surface
// the deployment pipeline needs: multi-action commits, commit reverts, and
// release tags. It is not a general GitLab SDK.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"indexdeploy/core"
)

const defaultHTTPTimeout = 30 * time.Second

// Client talks to one GitLab project's repository API.
type Client struct {
	baseURL    string
	projectID  string
	token      string
	httpClient *http.Client
}

// Option customizes the GitLab client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a client for one project.
// baseURL is the instance root, e.g. "https://gitlab.example.com".
func NewClient(baseURL, projectID, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gitlab: base URL required")
	}
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.New("gitlab: project ID required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("gitlab: token required")
	}

	client := &Client{
		baseURL:    baseURL,
		projectID:  url.PathEscape(projectID),
		token:      token,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type commitRequest struct {
	Branch        string              `json:"branch"`
	CommitMessage string              `json:"commit_message"`
	Actions       []core.CommitAction `json:"actions"`
}

type commitResponse struct {
	ID string `json:"id"`
}

// Commit creates one commit on branch containing all actions atomically.
// Returns the new commit SHA.
func (c *Client) Commit(ctx context.Context, branch, message string, actions []core.CommitAction) (string, error) {
	if len(actions) == 0 {
		return "", errors.New("gitlab commit: no actions")
	}

	body := commitRequest{
		Branch:        branch,
		CommitMessage: message,
		Actions:       actions,
	}

	var result commitResponse
	path := fmt.Sprintf("/api/v4/projects/%s/repository/commits", c.projectID)
	if err := c.post(ctx, path, body, &result); err != nil {
		return "", fmt.Errorf("gitlab commit: %w", err)
	}
	if result.ID == "" {
		return "", errors.New("gitlab commit: response missing commit id")
	}
	return result.ID, nil
}

// Revert creates a revert commit for sha on branch. Returns the SHA of the
// revert commit.
func (c *Client) Revert(ctx context.Context, branch, sha string) (string, error) {
	body := map[string]string{"branch": branch}

	var result commitResponse
	path := fmt.Sprintf("/api/v4/projects/%s/repository/commits/%s/revert", c.projectID, url.PathEscape(sha))
	if err := c.post(ctx, path, body, &result); err != nil {
		return "", fmt.Errorf("gitlab revert %s: %w", sha, err)
	}
	return result.ID, nil
}

// post sends a JSON body and decodes a JSON response. Non-2xx statuses
// become errors carrying the response body.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	if result != nil {
		if err := json.Unmarshal(payload, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}
