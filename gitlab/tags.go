package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Tag is a repository tag as listed by the API.
type Tag struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ListTags returns every tag in the project, following the X-Next-Page
// pagination header until exhausted.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	page := "1"

	for page != "" {
		pageTags, next, err := c.listTagPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("gitlab list tags: %w", err)
		}
		tags = append(tags, pageTags...)
		page = next
	}
	return tags, nil
}

func (c *Client) listTagPage(ctx context.Context, page string) ([]Tag, string, error) {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/repository/tags?per_page=100&page=%s",
		c.baseURL, c.projectID, url.QueryEscape(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	var tags []Tag
	if err := json.Unmarshal(payload, &tags); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}
	return tags, resp.Header.Get("X-Next-Page"), nil
}

type createTagRequest struct {
	TagName string `json:"tag_name"`
	Ref     string `json:"ref"`
	Message string `json:"message,omitempty"`
}

// CreateTag creates a tag pointing at ref. A 400 response saying the tag
// already exists is treated as success, so concurrent or repeated runs
// converge on the same tag.
func (c *Client) CreateTag(ctx context.Context, name, ref, message string) error {
	body := createTagRequest{TagName: name, Ref: ref, Message: message}

	path := fmt.Sprintf("/api/v4/projects/%s/repository/tags", c.projectID)
	err := c.post(ctx, path, body, nil)
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) &&
		statusErr.Code == http.StatusBadRequest &&
		strings.Contains(statusErr.Body, "already exists") {
		return nil
	}
	return fmt.Errorf("gitlab create tag %s: %w", name, err)
}
