package config

// PluginName is the identifier a plugin is configured under. It becomes the
// prefix of every namespaced tool/prompt name and URI the plugin exposes, so
// it must not itself contain the naming separator (see package naming).
type PluginName string

// RuntimeConfig bags the optional sandboxing and policy knobs for one
// plugin. All fields are optional; the zero value is "no restriction,
// no extra configuration".
type RuntimeConfig struct {
	AllowedHosts []string `json:"allowed_hosts,omitempty" yaml:"allowed_hosts,omitempty" toml:"allowed_hosts,omitempty"`

	// AllowedPaths maps a host filesystem path to the guest path a
	// plugin sees it under; entries are passed to the sandbox as
	// written. It decodes from a map only: a plain list of paths is
	// not accepted and is not identity-mapped.
	AllowedPaths map[string]string `json:"allowed_paths,omitempty" yaml:"allowed_paths,omitempty" toml:"allowed_paths,omitempty"`

	EnvVars map[string]string `json:"env_vars,omitempty" yaml:"env_vars,omitempty" toml:"env_vars,omitempty"`

	// MemoryLimit is a human-readable byte size, e.g. "8MB". Empty means
	// no explicit limit is passed to the sandbox.
	MemoryLimit string `json:"memory_limit,omitempty" yaml:"memory_limit,omitempty" toml:"memory_limit,omitempty"`

	SkipTools             []string `json:"skip_tools,omitempty" yaml:"skip_tools,omitempty" toml:"skip_tools,omitempty"`
	SkipPrompts           []string `json:"skip_prompts,omitempty" yaml:"skip_prompts,omitempty" toml:"skip_prompts,omitempty"`
	SkipResources         []string `json:"skip_resources,omitempty" yaml:"skip_resources,omitempty" toml:"skip_resources,omitempty"`
	SkipResourceTemplates []string `json:"skip_resource_templates,omitempty" yaml:"skip_resource_templates,omitempty" toml:"skip_resource_templates,omitempty"`
}

// PluginConfig describes where to load a plugin's Wasm module from and how
// to sandbox it once loaded.
type PluginConfig struct {
	URL           string         `json:"url" yaml:"url" toml:"url"`
	RuntimeConfig *RuntimeConfig `json:"runtime_config,omitempty" yaml:"runtime_config,omitempty" toml:"runtime_config,omitempty"`
}

// AuthKind discriminates the AuthConfig union.
type AuthKind string

const (
	AuthKindBasic AuthKind = "basic"
	AuthKindToken AuthKind = "token"
)

// AuthConfig is a credential applied to HTTPS plugin fetches whose URL
// starts with the key it is registered under in Config.Auths.
type AuthConfig struct {
	Kind     AuthKind `json:"kind" yaml:"kind" toml:"kind"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty" toml:"username,omitempty"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty" toml:"password,omitempty"`
	Token    string   `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
}

// OciConfig holds the trust material used to verify OCI-sourced plugins.
type OciConfig struct {
	UseSigstoreTUFData    bool   `json:"use_sigstore_tuf_data,omitempty" yaml:"use_sigstore_tuf_data,omitempty" toml:"use_sigstore_tuf_data,omitempty"`
	RekorPublicKeysPath   string `json:"rekor_public_keys_path,omitempty" yaml:"rekor_public_keys_path,omitempty" toml:"rekor_public_keys_path,omitempty"`
	FulcioCertsPath       string `json:"fulcio_certs_path,omitempty" yaml:"fulcio_certs_path,omitempty" toml:"fulcio_certs_path,omitempty"`
	CertEmail             string `json:"cert_email,omitempty" yaml:"cert_email,omitempty" toml:"cert_email,omitempty"`
	CertURL               string `json:"cert_url,omitempty" yaml:"cert_url,omitempty" toml:"cert_url,omitempty"`
	CertIssuer            string `json:"cert_issuer,omitempty" yaml:"cert_issuer,omitempty" toml:"cert_issuer,omitempty"`
	InsecureSkipSignature bool   `json:"insecure_skip_signature,omitempty" yaml:"insecure_skip_signature,omitempty" toml:"insecure_skip_signature,omitempty"`
}

// Config is the process-wide, immutable-after-load configuration of the
// plugin host.
type Config struct {
	Plugins map[PluginName]PluginConfig `json:"plugins" yaml:"plugins" toml:"plugins"`
	Auths   map[string]AuthConfig       `json:"auths,omitempty" yaml:"auths,omitempty" toml:"auths,omitempty"`
	OCI     *OciConfig                  `json:"oci,omitempty" yaml:"oci,omitempty" toml:"oci,omitempty"`

	// PluginOrder preserves the order plugins appeared in the config
	// file, since Go maps have no iteration order and the router must
	// aggregate (and fail) in a stable, configured order.
	PluginOrder []PluginName `json:"-" yaml:"-" toml:"-"`
}
