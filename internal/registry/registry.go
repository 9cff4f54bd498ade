// Package registry manages the catalog of known TRS servers.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"trawl/internal/models"
)

// Registry is a thread-safe catalog of TRS servers.
type Registry struct {
	servers map[string]*models.TRSServer
	def     string
	mu      sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		servers: make(map[string]*models.TRSServer),
	}
}

// FromConfig builds a registry seeded from a catalog config.
func FromConfig(cfg *Config) *Registry {
	r := New()
	for _, s := range cfg.Servers {
		r.Register(s)
	}
	r.SetDefault(cfg.DefaultServer)
	return r
}

// Register adds or replaces a server in the catalog.
func (r *Registry) Register(server models.TRSServer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if server.Name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if server.BaseURL == "" {
		return fmt.Errorf("server %q has no base URL", server.Name)
	}

	// Names are case-insensitive on lookup.
	r.servers[strings.ToLower(server.Name)] = &server
	return nil
}

// Resolve looks up a server by name. The returned error carries a
// display-ready message suitable for a selection-failure banner.
func (r *Registry) Resolve(name string) (models.TRSServer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.def
	}
	if name == "" {
		return models.TRSServer{}, fmt.Errorf("no TRS server selected")
	}

	server, ok := r.servers[strings.ToLower(name)]
	if !ok {
		return models.TRSServer{}, fmt.Errorf("unknown TRS server %q (known: %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return *server, nil
}

// List returns all servers sorted by name.
func (r *Registry) List() []models.TRSServer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	servers := make([]models.TRSServer, 0, len(r.servers))
	for _, s := range r.servers {
		servers = append(servers, *s)
	}
	sort.Slice(servers, func(i, j int) bool {
		return servers[i].Name < servers[j].Name
	})
	return servers
}

// Remove deletes a server from the catalog.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := r.servers[key]; !ok {
		return fmt.Errorf("server %q not found", name)
	}
	delete(r.servers, key)
	return nil
}

// SetDefault sets the server used when Resolve is called with "".
func (r *Registry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = name
}

// Count returns the number of registered servers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.servers)
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
