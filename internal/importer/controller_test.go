package importer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"trawl/internal/models"
)

var testServer = models.TRSServer{
	Name:    "dockstore",
	Label:   "Dockstore",
	BaseURL: "https://dockstore.example/ga4gh/trs/v2",
}

// fetchResult is pushed into a fakeFetcher gate to release a blocked fetch.
type fetchResult struct {
	tool *models.Tool
	err  error
}

// fakeFetcher records calls and blocks each fetch on a per-tool-id gate so
// tests control completion order.
type fakeFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	gates map[string]chan fetchResult
}

type fetchCall struct {
	server models.TRSServer
	toolID string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{gates: make(map[string]chan fetchResult)}
}

func (f *fakeFetcher) gate(toolID string) chan fetchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.gates[toolID]; !ok {
		f.gates[toolID] = make(chan fetchResult, 1)
	}
	return f.gates[toolID]
}

func (f *fakeFetcher) FetchTool(ctx context.Context, server models.TRSServer, toolID string) (*models.Tool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{server: server, toolID: toolID})
	f.mu.Unlock()

	r := <-f.gate(toolID)
	return r.tool, r.err
}

func (f *fakeFetcher) complete(toolID string, tool *models.Tool, err error) {
	f.gate(toolID) <- fetchResult{tool: tool, err: err}
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) call(i int) fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

// fakeEndpoint captures forwarded import requests.
type fakeEndpoint struct {
	mu        sync.Mutex
	serverURL string
	toolID    string
	versionID string
}

func (e *fakeEndpoint) ImportVersion(ctx context.Context, serverURL, toolID, versionID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.serverURL = serverURL
	e.toolID = toolID
	e.versionID = versionID
	return "workflow-1", nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestFetchFor(t *testing.T) {
	if fetchFor(nil, "tool") != nil {
		t.Error("expected no fetch without a server")
	}
	if fetchFor(&testServer, "") != nil {
		t.Error("expected no fetch with empty tool id")
	}
	req := fetchFor(&testServer, "tool")
	if req == nil {
		t.Fatal("expected a fetch request")
	}
	if req.server.Name != "dockstore" || req.toolID != "tool" {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestNoFetchWithoutSelection(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	c.OnToolIDChanged("#workflow/github.com/org/repo")

	// Give a spawned goroutine (if any) time to show up.
	time.Sleep(50 * time.Millisecond)
	if n := f.callCount(); n != 0 {
		t.Errorf("expected 0 fetches without a selection, got %d", n)
	}
	if c.State().Fetching {
		t.Error("controller should not report fetching")
	}
}

func TestNoFetchWithEmptyToolID(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	c.OnServerSelected(testServer)

	time.Sleep(50 * time.Millisecond)
	if n := f.callCount(); n != 0 {
		t.Errorf("expected 0 fetches with empty tool id, got %d", n)
	}
}

func TestOrderIndependence(t *testing.T) {
	run := func(selectFirst bool) fetchCall {
		f := newFakeFetcher()
		c := New(f, &fakeEndpoint{}, "")

		if selectFirst {
			c.OnServerSelected(testServer)
			c.OnToolIDChanged("my-tool")
		} else {
			c.OnToolIDChanged("my-tool")
			c.OnServerSelected(testServer)
		}

		waitFor(t, "fetch call", func() bool { return f.callCount() == 1 })
		f.complete("my-tool", &models.Tool{ID: "my-tool"}, nil)
		return f.call(0)
	}

	a := run(true)
	b := run(false)
	if a != b {
		t.Errorf("fetch calls differ by event order: %+v vs %+v", a, b)
	}
	if a.server.Name != "dockstore" || a.toolID != "my-tool" {
		t.Errorf("unexpected fetch call: %+v", a)
	}
}

func TestFetchSuccess(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	c.OnServerSelected(testServer)
	c.OnToolIDChanged("my-tool")
	waitFor(t, "fetch call", func() bool { return f.callCount() == 1 })

	record := &models.Tool{ID: "my-tool", Name: "My Tool"}
	f.complete("my-tool", record, nil)

	waitFor(t, "tool loaded", func() bool { return c.State().Tool != nil })
	s := c.State()
	if s.Tool.ID != "my-tool" {
		t.Errorf("expected tool my-tool, got %q", s.Tool.ID)
	}
	if s.Err != "" {
		t.Errorf("expected no error, got %q", s.Err)
	}
	if s.Fetching {
		t.Error("expected fetching to be cleared")
	}
}

func TestFetchFailure(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	c.OnServerSelected(testServer)
	c.OnToolIDChanged("my-tool")
	waitFor(t, "fetch call", func() bool { return f.callCount() == 1 })

	f.complete("my-tool", nil, fmt.Errorf("not found"))

	waitFor(t, "error surfaced", func() bool { return c.State().Err != "" })
	s := c.State()
	if s.Tool != nil {
		t.Errorf("expected no tool after failure, got %+v", s.Tool)
	}
	if s.Err != "not found" {
		t.Errorf("expected error %q, got %q", "not found", s.Err)
	}
}

func TestStaleCompletionDiscarded(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	c.OnServerSelected(testServer)
	c.OnToolIDChanged("t1")
	waitFor(t, "first fetch", func() bool { return f.callCount() == 1 })
	c.OnToolIDChanged("t2")
	waitFor(t, "second fetch", func() bool { return f.callCount() == 2 })

	// The newer request resolves first.
	f.complete("t2", &models.Tool{ID: "t2"}, nil)
	waitFor(t, "t2 loaded", func() bool {
		s := c.State()
		return s.Tool != nil && s.Tool.ID == "t2"
	})

	// The superseded request resolves late; its result must be dropped.
	f.complete("t1", &models.Tool{ID: "t1"}, nil)
	time.Sleep(50 * time.Millisecond)

	s := c.State()
	if s.Tool == nil || s.Tool.ID != "t2" {
		t.Errorf("stale completion overwrote state: %+v", s.Tool)
	}
}

func TestStaleErrorDiscarded(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	c.OnServerSelected(testServer)
	c.OnToolIDChanged("t1")
	waitFor(t, "first fetch", func() bool { return f.callCount() == 1 })
	c.OnToolIDChanged("t2")
	waitFor(t, "second fetch", func() bool { return f.callCount() == 2 })

	f.complete("t2", &models.Tool{ID: "t2"}, nil)
	waitFor(t, "t2 loaded", func() bool { return c.State().Tool != nil })

	f.complete("t1", nil, fmt.Errorf("network down"))
	time.Sleep(50 * time.Millisecond)

	s := c.State()
	if s.Err != "" {
		t.Errorf("stale failure surfaced an error: %q", s.Err)
	}
	if s.Tool == nil || s.Tool.ID != "t2" {
		t.Errorf("stale failure cleared the tool: %+v", s.Tool)
	}
}

func TestSelectionErrorLeavesToolStale(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	c.OnServerSelected(testServer)
	c.OnToolIDChanged("my-tool")
	waitFor(t, "fetch call", func() bool { return f.callCount() == 1 })
	f.complete("my-tool", &models.Tool{ID: "my-tool"}, nil)
	waitFor(t, "tool loaded", func() bool { return c.State().Tool != nil })

	c.OnServerSelectionFailed("bad server")

	s := c.State()
	if s.Err != "bad server" {
		t.Errorf("expected error %q, got %q", "bad server", s.Err)
	}
	if s.Tool == nil || s.Tool.ID != "my-tool" {
		t.Errorf("selection error should leave the tool record, got %+v", s.Tool)
	}
}

func TestInitialToolIDSeedsFetchOnSelection(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "deep-linked-tool")

	if got := c.State().ToolID; got != "deep-linked-tool" {
		t.Fatalf("expected seeded tool id, got %q", got)
	}

	c.OnServerSelected(testServer)
	waitFor(t, "fetch call", func() bool { return f.callCount() == 1 })
	if call := f.call(0); call.toolID != "deep-linked-tool" {
		t.Errorf("expected fetch for seeded id, got %q", call.toolID)
	}
	f.complete("deep-linked-tool", &models.Tool{ID: "deep-linked-tool"}, nil)
}

func TestImportForwarding(t *testing.T) {
	f := newFakeFetcher()
	ep := &fakeEndpoint{}
	c := New(f, ep, "")
	c.OnServerSelected(testServer)

	id, err := c.OnImportRequested(context.Background(), "#workflow/github.com/org/repo", "v1.2")
	if err != nil {
		t.Fatalf("OnImportRequested failed: %v", err)
	}
	if id != "workflow-1" {
		t.Errorf("expected workflow-1, got %q", id)
	}

	ep.mu.Lock()
	defer ep.mu.Unlock()
	if ep.toolID != "#workflow/github.com/org/repo" {
		t.Errorf("tool id transformed: %q", ep.toolID)
	}
	if ep.versionID != "v1.2" {
		t.Errorf("version id transformed: %q", ep.versionID)
	}
	if ep.serverURL != testServer.BaseURL {
		t.Errorf("expected server URL %q, got %q", testServer.BaseURL, ep.serverURL)
	}
}

func TestAllSubscribersNotified(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	var mu sync.Mutex
	counts := make([]int, 3)
	for i := 0; i < 3; i++ {
		i := i
		c.Subscribe(func(State) {
			mu.Lock()
			counts[i]++
			mu.Unlock()
		})
	}

	c.OnToolIDChanged("x")
	c.OnServerSelectionFailed("boom")

	mu.Lock()
	defer mu.Unlock()
	for i, n := range counts {
		if n != 2 {
			t.Errorf("subscriber %d saw %d notifications, want 2", i, n)
		}
	}
}

func TestSubscribersSeeSnapshots(t *testing.T) {
	f := newFakeFetcher()
	c := New(f, &fakeEndpoint{}, "")

	var mu sync.Mutex
	var snaps []State
	c.Subscribe(func(s State) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	c.OnServerSelectionFailed("boom")
	c.OnToolIDChanged("x")

	mu.Lock()
	defer mu.Unlock()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(snaps))
	}
	if snaps[0].Err != "boom" {
		t.Errorf("first snapshot missing error: %+v", snaps[0])
	}
	if snaps[1].ToolID != "x" {
		t.Errorf("second snapshot missing tool id: %+v", snaps[1])
	}
}
