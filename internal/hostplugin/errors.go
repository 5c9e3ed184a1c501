package hostplugin

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when a call's context was cancelled before
// the plugin finished, whether or not the plugin then returned within
// the bounded unwind window.
var ErrCancelled = errors.New("hostplugin: call cancelled")

// ErrUnsupportedABI is returned at load time when a Wasm module exports
// neither the v1 ("call"/"describe") nor v2 ("call_tool"/"list_tools")
// required functions.
var ErrUnsupportedABI = errors.New("hostplugin: module exports neither the v1 nor v2 plugin ABI")

// ErrFunctionNotExported is returned for v2 item methods (GetPrompt,
// ReadResource) whose corresponding export is absent; v2 list methods
// return an empty result instead.
type ErrFunctionNotExported struct {
	Plugin   string
	Function string
}

func (e *ErrFunctionNotExported) Error() string {
	return fmt.Sprintf("hostplugin: plugin %s does not export %s", e.Plugin, e.Function)
}
