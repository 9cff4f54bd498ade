package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"trawl/internal/models"
)

// Config holds the TRS server catalog configuration.
type Config struct {
	// DefaultServer is the server selected when none is given explicitly.
	DefaultServer string `yaml:"default_server"`
	// Servers lists user-configured TRS servers, merged over the built-ins.
	Servers []models.TRSServer `yaml:"servers"`
}

// DefaultConfig returns the built-in server catalog.
func DefaultConfig() *Config {
	return &Config{
		DefaultServer: "dockstore",
		Servers: []models.TRSServer{
			{
				Name:    "dockstore",
				Label:   "Dockstore",
				BaseURL: "https://dockstore.org/api/ga4gh/trs/v2",
			},
			{
				Name:    "workflowhub",
				Label:   "WorkflowHub",
				BaseURL: "https://workflowhub.eu/ga4gh/trs/v2",
			},
		},
	}
}

// LoadConfig loads the server catalog from a YAML file. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from <dir>/servers.yaml.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, "servers.yaml"))
}

// SaveConfig saves the catalog to a YAML file, creating parent directories
// if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, s := range c.Servers {
		if s.Name == "" {
			return fmt.Errorf("server with URL %q has no name", s.BaseURL)
		}
		if s.BaseURL == "" {
			return fmt.Errorf("server %q has no url", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate server name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
