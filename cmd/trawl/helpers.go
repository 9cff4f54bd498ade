package main

import (
	"path/filepath"

	"trawl/internal/models"
	"trawl/internal/registry"
	"trawl/internal/store"
)

// openStore opens the local history database under the config dir.
func openStore() (*store.Store, error) {
	return store.New(filepath.Join(configDir, "trawl.db"))
}

// buildRegistry assembles the server catalog: built-in defaults, then the
// YAML config, then servers persisted via `trawl servers add`.
func buildRegistry(st *store.Store) (*registry.Registry, error) {
	cfg, err := registry.LoadConfigFromDir(configDir)
	if err != nil {
		return nil, err
	}
	reg := registry.FromConfig(cfg)

	if st != nil {
		saved, err := st.ListServers()
		if err != nil {
			return nil, err
		}
		for _, s := range saved {
			reg.Register(s)
		}
	}
	return reg, nil
}

// resolveServer resolves a --server flag against the catalog.
func resolveServer(st *store.Store, name string) (models.TRSServer, error) {
	reg, err := buildRegistry(st)
	if err != nil {
		return models.TRSServer{}, err
	}
	return reg.Resolve(name)
}

// resolveServerWithCatalog opens the store just for resolution. A broken
// history db degrades to the YAML catalog instead of failing.
func resolveServerWithCatalog(name string) (models.TRSServer, error) {
	st, err := openStore()
	if err != nil {
		return resolveServer(nil, name)
	}
	defer st.Close()
	return resolveServer(st, name)
}

// --- Output helpers ---

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
