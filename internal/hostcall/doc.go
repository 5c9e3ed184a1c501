// Package hostcall implements the functions the host exports into every
// Wasm plugin instance: sampling, elicitation, roots, and the various
// notification channels a plugin uses to reach back to the connected MCP
// peer. Each function is built per-plugin around a Resolver closure that
// recovers the owning router.Service without this package importing
// package router, breaking the plugin/service reference cycle described
// in the request router's design notes.
package hostcall
