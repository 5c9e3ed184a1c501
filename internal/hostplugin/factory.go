package hostplugin

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	extism "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// defaultMemoryPages is used when a plugin's RuntimeConfig does not set
// MemoryLimit. One page is 64KiB, so 16 pages is 1MiB.
const defaultMemoryPages = 16

const wasmPageSize = 64 * 1024

// New loads wasmBytes into a fresh Wasm instance sandboxed per rc, probes
// its exports to pick an ABI generation, and returns the corresponding
// Plugin wrapper. hostFunctions is the full host-call gateway surface;
// extism only invokes the ones the module actually imports.
func New(ctx context.Context, name config.PluginName, wasmBytes []byte, rc *config.RuntimeConfig, hostFunctions []extism.HostFunction) (Plugin, error) {
	manifest, err := buildManifest(name, wasmBytes, rc)
	if err != nil {
		return nil, err
	}

	pluginConfig := extism.PluginConfig{
		ModuleConfig: wazero.NewModuleConfig().WithSysWalltime(),
		RuntimeConfig: wazero.NewRuntimeConfigCompiler().
			WithCloseOnContextDone(true),
		EnableWasi: true,
	}

	ext, err := extism.NewPlugin(ctx, manifest, pluginConfig, hostFunctions)
	if err != nil {
		return nil, fmt.Errorf("hostplugin: %s: creating extism instance: %w", name, err)
	}
	ext.SetLogger(func(level extism.LogLevel, msg string) {
		logging.Debug("HostPlugin", "%s: %s: %s", name, level, msg)
	})

	b := base{name: name, ext: ext}

	switch {
	case b.functionExists("call_tool"):
		return &pluginV2{base: b}, nil
	case b.functionExists("call"):
		return &pluginV1{base: b}, nil
	default:
		_ = ext.Close(context.Background())
		return nil, fmt.Errorf("hostplugin: %s: %w", name, ErrUnsupportedABI)
	}
}

func buildManifest(name config.PluginName, wasmBytes []byte, rc *config.RuntimeConfig) (extism.Manifest, error) {
	if rc == nil {
		rc = &config.RuntimeConfig{}
	}

	pages, err := memoryPages(rc.MemoryLimit)
	if err != nil {
		return extism.Manifest{}, fmt.Errorf("hostplugin: %s: invalid memory_limit %q: %w", name, rc.MemoryLimit, err)
	}

	allowedHosts := rc.AllowedHosts
	if allowedHosts == nil {
		allowedHosts = []string{}
	}
	allowedPaths := rc.AllowedPaths
	if allowedPaths == nil {
		allowedPaths = map[string]string{}
	}

	return extism.Manifest{
		Wasm: []extism.Wasm{
			extism.WasmData{
				Data: wasmBytes,
				Name: string(name),
			},
		},
		Memory: &extism.ManifestMemory{
			MaxPages: pages,
		},
		Config:       rc.EnvVars,
		AllowedHosts: allowedHosts,
		AllowedPaths: allowedPaths,
	}, nil
}

// memoryPages converts a human byte size ("8MB", "") into a page count,
// rounding up so the requested limit always fits.
func memoryPages(limit string) (uint32, error) {
	if limit == "" {
		return defaultMemoryPages, nil
	}
	bytes, err := humanize.ParseBytes(limit)
	if err != nil {
		return 0, err
	}
	pages := bytes / wasmPageSize
	if bytes%wasmPageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return uint32(pages), nil
}
