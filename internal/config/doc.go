// Package config describes and loads the plugin host's configuration
// file. The file is a single document, JSON, YAML, or TOML depending on
// its extension, declaring the set of plugins to load and the policy
// each is sandboxed under.
package config
