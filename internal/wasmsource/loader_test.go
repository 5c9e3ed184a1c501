package wasmsource

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuananh/hyper-mcp/internal/config"
)

func TestLoadFileScheme(t *testing.T) {
	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "plugin.wasm")
	require.NoError(t, os.WriteFile(wasmPath, []byte("\x00asm"), 0o644))

	u, err := url.Parse("file://" + wasmPath)
	require.NoError(t, err)

	loader := NewLoader(nil, nil)
	data, err := loader.Load(context.Background(), config.PluginName("file-test-plugin"), u, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00asm"), data)
}

func TestLoadCachesByPluginName(t *testing.T) {
	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "plugin.wasm")
	require.NoError(t, os.WriteFile(wasmPath, []byte("v1"), 0o644))

	u, err := url.Parse("file://" + wasmPath)
	require.NoError(t, err)

	loader := NewLoader(nil, nil)
	name := config.PluginName("cache-test-plugin")

	first, err := loader.Load(context.Background(), name, u, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), first)

	// Overwrite the file on disk; the cached value should still win.
	require.NoError(t, os.WriteFile(wasmPath, []byte("v2"), 0o644))

	second, err := loader.Load(context.Background(), name, u, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), second)
}

func TestLoadUnsupportedScheme(t *testing.T) {
	u, err := url.Parse("ftp://example.com/plugin.wasm")
	require.NoError(t, err)

	loader := NewLoader(nil, nil)
	_, err = loader.Load(context.Background(), config.PluginName("unsupported-scheme-plugin"), u, nil)
	require.Error(t, err)

	var unsupported *ErrUnsupportedScheme
	assert.ErrorAs(t, err, &unsupported)
}

func TestMatchAuthLongestPrefixWins(t *testing.T) {
	auths := map[string]config.AuthConfig{
		"https://example.com/":        {Kind: config.AuthKindBasic, Username: "general"},
		"https://example.com/private": {Kind: config.AuthKindToken, Token: "secret"},
	}

	cred, ok := matchAuth("https://example.com/private/plugin.wasm", auths)
	require.True(t, ok)
	assert.Equal(t, config.AuthKindToken, cred.Kind)
	assert.Equal(t, "secret", cred.Token)

	cred, ok = matchAuth("https://example.com/public/plugin.wasm", auths)
	require.True(t, ok)
	assert.Equal(t, config.AuthKindBasic, cred.Kind)
}

func TestMatchAuthNoMatch(t *testing.T) {
	_, ok := matchAuth("https://other.example.com/plugin.wasm", map[string]config.AuthConfig{
		"https://example.com/": {Kind: config.AuthKindBasic},
	})
	assert.False(t, ok)
}
