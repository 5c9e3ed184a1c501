// Package router implements the request router: the MCP server role
// that aggregates every loaded plugin's tools, prompts, and resources
// into one namespaced surface, dispatches client requests into the
// owning plugin, and relays plugin-initiated host-calls back to the
// connected peer.
package router
