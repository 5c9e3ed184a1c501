// Package naming implements the mapping between the flat tool/prompt/
// resource name space exposed to an MCP client and the per-plugin inner
// names those capabilities are registered under.
package naming

import (
	"fmt"
	"net/url"
	"strings"
)

// Separator joins a plugin name to its inner capability name. It was
// chosen over the legacy "::" scheme to match the canonical source this
// host's wire behavior is derived from.
const Separator = "-"

// CreateNamespacedName builds the client-visible name for a capability
// registered under plugin with the given inner name.
func CreateNamespacedName(plugin, inner string) string {
	return plugin + Separator + inner
}

// ParseNamespacedName splits a client-visible name back into its plugin
// and inner components. It splits on the first Separator only, so inner
// names may themselves contain the separator character.
func ParseNamespacedName(name string) (plugin, inner string, err error) {
	idx := strings.Index(name, Separator)
	if idx < 0 {
		return "", "", fmt.Errorf("naming: %q has no %q separator", name, Separator)
	}
	return name[:idx], name[idx+len(Separator):], nil
}

// CreateNamespacedURI prepends the plugin name as the first path segment
// of inner, preserving scheme, authority, query, and fragment. A uri with
// no path, or with only a root path, namespaces to "/{plugin}/".
func CreateNamespacedURI(plugin string, inner string) (string, error) {
	u, err := url.Parse(inner)
	if err != nil {
		return "", fmt.Errorf("naming: parse inner uri %q: %w", inner, err)
	}
	trimmed := strings.TrimLeft(u.Path, "/")
	u.Path = "/" + plugin + "/" + trimmed
	return u.String(), nil
}

// ParseNamespacedURI consumes the first path segment of a namespaced URI
// as the plugin name; the remaining path segments, rejoined with "/",
// become the inner URI. Scheme, authority, query, and fragment are
// preserved on the inner URI.
func ParseNamespacedURI(uri string) (plugin string, inner string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("naming: parse namespaced uri %q: %w", uri, err)
	}

	trimmed := strings.TrimLeft(u.Path, "/")
	segments := strings.Split(trimmed, "/")
	if len(segments) == 0 || segments[0] == "" {
		return "", "", fmt.Errorf("naming: uri %q has no path segments", uri)
	}

	plugin = segments[0]
	rest := strings.Join(segments[1:], "/")

	innerURL := *u
	innerURL.Path = "/" + rest
	return plugin, innerURL.String(), nil
}
