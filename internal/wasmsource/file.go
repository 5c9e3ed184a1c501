package wasmsource

import (
	"net/url"
	"os"
)

// loadFile reads a plugin's Wasm bytes from the local filesystem. Only
// pluginURL.Path is consulted; host and query are ignored.
func loadFile(pluginURL *url.URL) ([]byte, error) {
	return os.ReadFile(pluginURL.Path)
}
