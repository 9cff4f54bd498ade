package registry

import (
	"strings"
	"testing"

	"trawl/internal/models"
)

func TestDefaults(t *testing.T) {
	r := FromConfig(DefaultConfig())

	if r.Count() != 2 {
		t.Fatalf("Expected 2 built-in servers, got %d", r.Count())
	}

	server, err := r.Resolve("dockstore")
	if err != nil {
		t.Fatalf("Resolve(dockstore) failed: %v", err)
	}
	if server.BaseURL != "https://dockstore.org/api/ga4gh/trs/v2" {
		t.Errorf("Unexpected Dockstore URL: %s", server.BaseURL)
	}

	if _, err := r.Resolve("workflowhub"); err != nil {
		t.Errorf("Resolve(workflowhub) failed: %v", err)
	}
}

func TestResolveDefaultServer(t *testing.T) {
	r := FromConfig(DefaultConfig())

	server, err := r.Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") failed: %v", err)
	}
	if server.Name != "dockstore" {
		t.Errorf("Expected default server dockstore, got %s", server.Name)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := FromConfig(DefaultConfig())

	_, err := r.Resolve("nope")
	if err == nil {
		t.Fatal("Expected error for unknown server")
	}
	if !strings.Contains(err.Error(), `unknown TRS server "nope"`) {
		t.Errorf("Unexpected message: %v", err)
	}
	if !strings.Contains(err.Error(), "dockstore") {
		t.Errorf("Expected known servers in message, got: %v", err)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := New()
	r.Register(models.TRSServer{Name: "Dockstore", BaseURL: "https://dockstore.org/api/ga4gh/trs/v2"})

	if _, err := r.Resolve("dockstore"); err != nil {
		t.Errorf("Resolve(dockstore) failed: %v", err)
	}
	if _, err := r.Resolve("DOCKSTORE"); err != nil {
		t.Errorf("Resolve(DOCKSTORE) failed: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := New()

	if err := r.Register(models.TRSServer{BaseURL: "http://x"}); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := r.Register(models.TRSServer{Name: "x"}); err == nil {
		t.Error("Expected error for empty base URL")
	}
}

func TestListSorted(t *testing.T) {
	r := New()
	r.Register(models.TRSServer{Name: "zeta", BaseURL: "http://z"})
	r.Register(models.TRSServer{Name: "alpha", BaseURL: "http://a"})

	servers := r.List()
	if len(servers) != 2 {
		t.Fatalf("Expected 2 servers, got %d", len(servers))
	}
	if servers[0].Name != "alpha" || servers[1].Name != "zeta" {
		t.Errorf("List not sorted: %v", servers)
	}
}

func TestRemove(t *testing.T) {
	r := FromConfig(DefaultConfig())

	if err := r.Remove("dockstore"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := r.Resolve("dockstore"); err == nil {
		t.Error("Expected resolve failure after removal")
	}
	if err := r.Remove("dockstore"); err == nil {
		t.Error("Expected error removing twice")
	}
}
