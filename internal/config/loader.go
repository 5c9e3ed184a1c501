package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tuananh/hyper-mcp/pkg/logging"
)

const appDirName = "hyper-mcp"

// GetDefaultConfigPathOrPanic returns "<user-config>/hyper-mcp/config.yaml",
// the platform-appropriate default config location.
func GetDefaultConfigPathOrPanic() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(dir, appDirName, "config.yaml")
}

// GetDefaultCacheDirOrPanic returns "<user-cache>/hyper-mcp", where
// OCI-sourced plugin bytes are cached on disk.
func GetDefaultCacheDirOrPanic() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user cache directory: %w", err))
	}
	return filepath.Join(dir, appDirName)
}

// Load reads and parses the configuration file at path. The format is
// chosen by file extension: .json, .yaml/.yml, or .toml. Any other
// extension is a fatal configuration error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing JSON config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want .json, .yaml, .yml, or .toml)", ext)
	}

	order, err := pluginKeyOrder(data, ext)
	if err != nil {
		logging.Warn("ConfigLoader", "could not determine plugin order in %s, falling back to map iteration: %s", path, err)
	}
	cfg.PluginOrder = order
	if len(cfg.PluginOrder) != len(cfg.Plugins) {
		cfg.PluginOrder = fallbackPluginOrder(cfg.Plugins, cfg.PluginOrder)
	}

	resolveEnvVars(&cfg)

	logging.Info("ConfigLoader", "loaded configuration from %s (%d plugins)", path, len(cfg.Plugins))
	return cfg, nil
}

// fallbackPluginOrder appends any plugin name missing from order (e.g.
// because key-order extraction failed or a format lacks ordering info)
// in Go map iteration order, which is not deterministic.
func fallbackPluginOrder(plugins map[PluginName]PluginConfig, order []PluginName) []PluginName {
	seen := make(map[PluginName]bool, len(order))
	for _, n := range order {
		seen[n] = true
	}
	result := append([]PluginName{}, order...)
	for name := range plugins {
		if !seen[name] {
			result = append(result, name)
			seen[name] = true
		}
	}
	return result
}

// pluginKeyOrder recovers the declaration order of the top-level
// "plugins" keys, since none of JSON/YAML/TOML unmarshaling into a Go
// map preserves it.
func pluginKeyOrder(data []byte, ext string) ([]PluginName, error) {
	switch ext {
	case ".json":
		return jsonPluginKeyOrder(data)
	case ".yaml", ".yml":
		return yamlPluginKeyOrder(data)
	case ".toml":
		return tomlPluginKeyOrder(data)
	default:
		return nil, fmt.Errorf("unknown extension %q", ext)
	}
}

func jsonPluginKeyOrder(data []byte) ([]PluginName, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	if err := findObjectKey(dec, "plugins"); err != nil {
		return nil, err
	}
	return jsonObjectKeys(dec)
}

// findObjectKey scans a JSON token stream until it has consumed the key
// named target at the current nesting depth, leaving dec positioned to
// read that key's value next.
func findObjectKey(dec *json.Decoder, target string) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		case string:
			if depth == 1 && t == target {
				return nil
			}
		}
	}
}

// jsonObjectKeys reads the object value dec is positioned at and returns
// its top-level keys in encounter order, skipping over nested values.
func jsonObjectKeys(dec *json.Decoder) ([]PluginName, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []PluginName
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		keys = append(keys, PluginName(key))

		var discard any
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return keys, nil
}

func yamlPluginKeyOrder(data []byte) ([]PluginName, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	doc := root.Content[0]
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "plugins" {
			pluginsNode := doc.Content[i+1]
			var keys []PluginName
			for j := 0; j+1 < len(pluginsNode.Content); j += 2 {
				keys = append(keys, PluginName(pluginsNode.Content[j].Value))
			}
			return keys, nil
		}
	}
	return nil, nil
}

func tomlPluginKeyOrder(data []byte) ([]PluginName, error) {
	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	// go-toml/v2's generic map decode does not preserve key order either,
	// so fall back to a textual scan of "[plugins.NAME]" table headers,
	// which is the form the plugins map takes in TOML.
	var keys []PluginName
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[plugins.") || !strings.HasSuffix(line, "]") {
			continue
		}
		inner := strings.TrimSuffix(strings.TrimPrefix(line, "[plugins."), "]")
		inner = strings.Trim(inner, `"`)
		keys = append(keys, PluginName(inner))
	}
	return keys, nil
}

// resolveEnvVars substitutes "${NAME}" forms inside every plugin's
// EnvVars against the host environment. Unresolved references (the
// variable is unset or empty) are left verbatim, with a warning.
func resolveEnvVars(cfg *Config) {
	for name, pc := range cfg.Plugins {
		if pc.RuntimeConfig == nil {
			continue
		}
		for k, v := range pc.RuntimeConfig.EnvVars {
			resolved, ok := checkEnvReference(v)
			if !ok {
				logging.Warn("ConfigLoader", "plugin %s: env var %q references unset %s, passing through verbatim", name, k, v)
				continue
			}
			pc.RuntimeConfig.EnvVars[k] = resolved
		}
	}
}

// checkEnvReference resolves a single "${NAME}" value against the host
// environment. Values that are not of that form are returned unchanged
// with ok=true (nothing to resolve). A "${NAME}" whose NAME is unset or
// empty returns ok=false so the caller can warn and keep the literal.
func checkEnvReference(value string) (resolved string, ok bool) {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value, true
	}
	name := strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}")
	env, set := os.LookupEnv(name)
	if !set || env == "" {
		return value, false
	}
	return env, true
}
