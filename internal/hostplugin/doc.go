// Package hostplugin wraps a single loaded Wasm module as a Plugin,
// dispatching MCP capability calls into it across one of two ABI
// generations. A v1 plugin only supports tools (exports "call" and
// "describe"); a v2 plugin supports the full capability surface
// ("call_tool", "list_tools", and an open set of optional exports)
// probed at load time.
package hostplugin
