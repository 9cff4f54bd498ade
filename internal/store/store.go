// Package store provides SQLite-backed persistence for trawl.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"trawl/internal/models"
)

// Store provides access to the trawl SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// WAL keeps the TUI responsive while the CLI writes history. The
	// _pragma form is the one this driver honors.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		server_name TEXT NOT NULL,
		server_url TEXT NOT NULL,
		tool_id TEXT NOT NULL,
		version_id TEXT NOT NULL,
		workflow_id TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS servers (
		name TEXT PRIMARY KEY,
		label TEXT,
		base_url TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_imports_tool_id ON imports(tool_id);
	CREATE INDEX IF NOT EXISTS idx_imports_created_at ON imports(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Import history ---

// RecordImport inserts a history row for a completed import.
func (s *Store) RecordImport(serverName, serverURL, toolID, versionID, workflowID string) (*models.ImportRecord, error) {
	rec := &models.ImportRecord{
		ID:         uuid.New().String(),
		ServerName: serverName,
		ServerURL:  serverURL,
		ToolID:     toolID,
		VersionID:  versionID,
		WorkflowID: workflowID,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO imports (id, server_name, server_url, tool_id, version_id, workflow_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ServerName, rec.ServerURL, rec.ToolID, rec.VersionID, rec.WorkflowID, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert import: %w", err)
	}
	return rec, nil
}

// ListImports returns the most recent imports, newest first.
func (s *Store) ListImports(limit int) ([]models.ImportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, server_name, server_url, tool_id, version_id, workflow_id, created_at FROM imports ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var recs []models.ImportRecord
	for rows.Next() {
		var rec models.ImportRecord
		var workflowID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ServerName, &rec.ServerURL, &rec.ToolID, &rec.VersionID, &workflowID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		if workflowID.Valid {
			rec.WorkflowID = workflowID.String
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// --- Server catalog ---

// AddServer persists a user-added TRS server. Re-adding a name replaces it.
func (s *Store) AddServer(server models.TRSServer) error {
	if server.Name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if server.BaseURL == "" {
		return fmt.Errorf("server %q has no base URL", server.Name)
	}

	_, err := s.db.Exec(
		`INSERT INTO servers (name, label, base_url, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET label = excluded.label, base_url = excluded.base_url`,
		server.Name, server.Label, server.BaseURL, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert server: %w", err)
	}
	return nil
}

// ListServers returns all persisted servers ordered by name.
func (s *Store) ListServers() ([]models.TRSServer, error) {
	rows, err := s.db.Query(`SELECT name, label, base_url FROM servers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query servers: %w", err)
	}
	defer rows.Close()

	var servers []models.TRSServer
	for rows.Next() {
		var server models.TRSServer
		var label sql.NullString
		if err := rows.Scan(&server.Name, &label, &server.BaseURL); err != nil {
			return nil, fmt.Errorf("scan server: %w", err)
		}
		if label.Valid {
			server.Label = label.String
		}
		servers = append(servers, server)
	}
	return servers, rows.Err()
}

// RemoveServer deletes a persisted server by name.
func (s *Store) RemoveServer(name string) error {
	result, err := s.db.Exec(`DELETE FROM servers WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("server %q not found", name)
	}
	return nil
}
