// Package trs implements a minimal GA4GH Tool Registry Service v2 client.
package trs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trawl/internal/models"
)

// DefaultClientTimeout is the default timeout for registry requests.
const DefaultClientTimeout = 10 * time.Second

// Client performs HTTP calls against TRS servers.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new TRS client with the default timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// EscapeToolID percent-encodes a tool id for use as a single path segment.
// TRS ids routinely contain '/' and '#' (e.g. "#workflow/github.com/org/repo").
func EscapeToolID(id string) string {
	return url.PathEscape(id)
}

// FetchTool retrieves a tool record by id from the given server.
func (c *Client) FetchTool(ctx context.Context, server models.TRSServer, toolID string) (*models.Tool, error) {
	endpoint := baseURL(server) + "/tools/" + EscapeToolID(toolID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", server.DisplayName(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("tool %q not found on %s", toolID, server.DisplayName())
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("TRS error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tool models.Tool
	if err := json.NewDecoder(resp.Body).Decode(&tool); err != nil {
		return nil, fmt.Errorf("decoding tool record: %w", err)
	}
	return &tool, nil
}

// FetchVersions retrieves the version list for a tool.
func (c *Client) FetchVersions(ctx context.Context, server models.TRSServer, toolID string) ([]models.ToolVersion, error) {
	endpoint := baseURL(server) + "/tools/" + EscapeToolID(toolID) + "/versions"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", server.DisplayName(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("tool %q not found on %s", toolID, server.DisplayName())
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("TRS error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var versions []models.ToolVersion
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return nil, fmt.Errorf("decoding versions: %w", err)
	}
	return versions, nil
}

func baseURL(server models.TRSServer) string {
	return strings.TrimRight(server.BaseURL, "/")
}
