package router

import "errors"

// ErrNoPeer is the router's own no-peer error. Service's peer-requiring
// methods do not return it: they return hostcall.ErrNoPeer, which is
// what host-call callers check for.
var ErrNoPeer = errors.New("router: no MCP peer connected yet")

// ErrMethodNotFound is the router's MethodNotFound taxonomy entry: an
// unknown plugin, a skip-listed capability, or a capability the plugin
// does not export.
type ErrMethodNotFound struct {
	Name string
}

func (e *ErrMethodNotFound) Error() string { return "router: method not found: " + e.Name }

// ErrInvalidRequest wraps a malformed namespaced name/URI or a missing
// required parameter.
type ErrInvalidRequest struct {
	Reason string
}

func (e *ErrInvalidRequest) Error() string { return "router: invalid request: " + e.Reason }
