// Package importer contains the controller behind the TRS import dialog.
//
// The controller owns the current server selection, the typed tool id, and
// the last fetched tool record or error. It is framework-agnostic: views
// subscribe to state snapshots and translate them into presentation.
package importer

import (
	"context"
	"sync"

	"trawl/internal/models"
)

// State is an observable snapshot of the dialog.
type State struct {
	// Server is the selected TRS server, nil until the selector emits one.
	Server *models.TRSServer
	// ToolID is the user-entered tool identifier.
	ToolID string
	// Tool is the last successfully fetched record, nil on error or before
	// the first fetch.
	Tool *models.Tool
	// Err is a display-ready failure message; empty means no banner.
	Err string
	// Fetching reports whether a fetch is in flight.
	Fetching bool
}

// Fetcher retrieves a tool record from a TRS server.
type Fetcher interface {
	FetchTool(ctx context.Context, server models.TRSServer, toolID string) (*models.Tool, error)
}

// Endpoint receives import requests. Implementations post to a Galaxy
// instance; the controller only delegates.
type Endpoint interface {
	ImportVersion(ctx context.Context, serverURL, toolID, versionID string) (string, error)
}

// Controller reconciles selector and input events into fetches.
type Controller struct {
	fetcher  Fetcher
	endpoint Endpoint

	mu    sync.Mutex
	state State
	seq   uint64
	subs  []func(State)
}

// New creates a controller. initialToolID seeds the tool id field (deep
// links); the server selection must arrive through OnServerSelected.
func New(fetcher Fetcher, endpoint Endpoint, initialToolID string) *Controller {
	return &Controller{
		fetcher:  fetcher,
		endpoint: endpoint,
		state:    State{ToolID: initialToolID},
	}
}

// Subscribe registers a state observer. Observers are called synchronously
// after every state change with a snapshot; they must not call back into
// the controller.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnServerSelected replaces the server selection. If a tool id is already
// present the fetch fires immediately, so selection and typing can arrive
// in either order.
func (c *Controller) OnServerSelected(server models.TRSServer) {
	c.mu.Lock()
	s := server
	c.state.Server = &s
	c.reconcileLocked()
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
}

// OnServerSelectionFailed surfaces a selector error. A previously loaded
// tool record stays in place.
func (c *Controller) OnServerSelectionFailed(message string) {
	c.mu.Lock()
	c.state.Err = message
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
}

// OnToolIDChanged records the new tool id and reconciles. Without a server
// selection the reconciliation is a no-op.
func (c *Controller) OnToolIDChanged(toolID string) {
	c.mu.Lock()
	c.state.ToolID = toolID
	c.reconcileLocked()
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
}

// OnImportRequested forwards an import to the endpoint, untransformed.
func (c *Controller) OnImportRequested(ctx context.Context, toolID, versionID string) (string, error) {
	c.mu.Lock()
	server := c.state.Server
	c.mu.Unlock()

	serverURL := ""
	if server != nil {
		serverURL = server.BaseURL
	}
	return c.endpoint.ImportVersion(ctx, serverURL, toolID, versionID)
}

// fetchRequest is the decision produced by reconciliation.
type fetchRequest struct {
	server models.TRSServer
	toolID string
}

// fetchFor decides whether the current inputs warrant a fetch. A fetch
// needs both a server selection and a non-empty tool id.
func fetchFor(server *models.TRSServer, toolID string) *fetchRequest {
	if server == nil || toolID == "" {
		return nil
	}
	return &fetchRequest{server: *server, toolID: toolID}
}

// reconcileLocked issues a fetch when the guard allows one. Each fetch
// carries a sequence number; completions that are not the latest issued
// are discarded, so rapid retyping cannot leave a stale record behind.
func (c *Controller) reconcileLocked() {
	req := fetchFor(c.state.Server, c.state.ToolID)
	if req == nil {
		return
	}

	c.seq++
	n := c.seq
	c.state.Fetching = true

	go func() {
		tool, err := c.fetcher.FetchTool(context.Background(), req.server, req.toolID)
		c.complete(n, tool, err)
	}()
}

func (c *Controller) complete(n uint64, tool *models.Tool, err error) {
	c.mu.Lock()
	if n != c.seq {
		// A newer fetch superseded this one.
		c.mu.Unlock()
		return
	}
	c.state.Fetching = false
	if err != nil {
		c.state.Tool = nil
		c.state.Err = err.Error()
	} else {
		c.state.Tool = tool
		c.state.Err = ""
	}
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
}

func (c *Controller) snapshotLocked() (State, []func(State)) {
	return c.state, append([]func(State){}, c.subs...)
}

func notify(snap State, subs []func(State)) {
	for _, fn := range subs {
		fn(snap)
	}
}
