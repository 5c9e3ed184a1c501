package wasmsource

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// wasmCache deduplicates fetches by plugin name for the lifetime of the
// process, so reconnections (and multiple plugins sharing a name across
// config reloads, in future) do not refetch or reverify already-loaded
// bytes.
var wasmCache sync.Map // config.PluginName -> []byte

// Loader fetches the raw Wasm bytes for a plugin from whichever source
// scheme its URL names.
type Loader struct {
	OCI   *config.OciConfig
	Auths map[string]config.AuthConfig
}

// NewLoader builds a Loader using the given OCI trust configuration (nil
// is valid: OCI signatures are then still verified, against the public
// Sigstore TUF root with no identity constraint) and the
// URL-prefix keyed credentials applied to HTTPS fetches.
func NewLoader(oci *config.OciConfig, auths map[string]config.AuthConfig) *Loader {
	return &Loader{OCI: oci, Auths: auths}
}

// Load returns the raw Wasm module bytes for name, fetching and caching
// them if this is the first request for that plugin this process.
func (l *Loader) Load(ctx context.Context, name config.PluginName, pluginURL *url.URL, rc *config.RuntimeConfig) ([]byte, error) {
	if cached, ok := wasmCache.Load(name); ok {
		logging.Debug("WasmLoader", "cache hit for plugin %s", name)
		return cached.([]byte), nil
	}

	var (
		data []byte
		err  error
	)
	switch pluginURL.Scheme {
	case "file":
		data, err = loadFile(pluginURL)
	case "http":
		data, err = loadHTTP(ctx, pluginURL, nil)
	case "https":
		data, err = loadHTTP(ctx, pluginURL, l.Auths)
	case "oci":
		data, err = l.loadOCI(ctx, name, pluginURL)
	case "s3":
		data, err = loadS3(ctx, pluginURL)
	default:
		return nil, &ErrUnsupportedScheme{Scheme: pluginURL.Scheme}
	}
	if err != nil {
		return nil, fmt.Errorf("wasmsource: loading plugin %s from %s: %w", name, pluginURL.Redacted(), err)
	}

	actual, loaded := wasmCache.LoadOrStore(name, data)
	if loaded {
		// Another goroutine won the race to populate the cache first.
		return actual.([]byte), nil
	}
	logging.Info("WasmLoader", "loaded plugin %s from %s (%d bytes)", name, pluginURL.Scheme, len(data))
	return data, nil
}
