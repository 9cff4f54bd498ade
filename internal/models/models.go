// Package models defines the core domain types for trawl.
package models

import "time"

// TRSServer identifies a configured GA4GH Tool Registry Server.
type TRSServer struct {
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	BaseURL string `json:"base_url" yaml:"url"`
}

// DisplayName returns the human-facing label, falling back to the name.
func (s TRSServer) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Tool is a TRS v2 tool record as returned by /tools/{id}.
type Tool struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Organization string        `json:"organization"`
	Description  string        `json:"description"`
	ToolClass    ToolClass     `json:"toolclass"`
	MetaVersion  string        `json:"meta_version"`
	URL          string        `json:"url"`
	Versions     []ToolVersion `json:"versions"`
}

// ToolClass describes the kind of registry entry (workflow, tool, service).
type ToolClass struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolVersion is one version of a TRS tool.
type ToolVersion struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	DescriptorTypes []string `json:"descriptor_type"`
	IsProduction    bool     `json:"is_production"`
	Verified        bool     `json:"verified"`
	VerifiedSource  []string `json:"verified_source"`
}

// ImportRecord is a completed workflow import stored in local history.
type ImportRecord struct {
	ID         string    `json:"id"`
	ServerName string    `json:"server_name"`
	ServerURL  string    `json:"server_url"`
	ToolID     string    `json:"tool_id"`
	VersionID  string    `json:"version_id"`
	WorkflowID string    `json:"workflow_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
