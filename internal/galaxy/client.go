// Package galaxy submits TRS imports to a Galaxy instance.
package galaxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultClientTimeout is the default timeout for Galaxy API requests.
// Imports can take a while server-side, so it is longer than the TRS one.
const DefaultClientTimeout = 60 * time.Second

// Client wraps the Galaxy workflow-import API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the Galaxy instance at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

type importRequest struct {
	ArchiveSource string `json:"archive_source"`
	TrsURL        string `json:"trs_url"`
	TrsToolID     string `json:"trs_tool_id"`
	TrsVersionID  string `json:"trs_version_id"`
}

// ImportVersion asks Galaxy to import one tool version from a TRS server.
// The tool id and version id are forwarded untouched. Returns the id of the
// created workflow.
func (c *Client) ImportVersion(ctx context.Context, serverURL, toolID, versionID string) (string, error) {
	payload := importRequest{
		ArchiveSource: "trs_tool",
		TrsURL:        serverURL,
		TrsToolID:     toolID,
		TrsVersionID:  versionID,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/workflows", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("import request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("Galaxy error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding import response: %w", err)
	}
	return result.ID, nil
}
