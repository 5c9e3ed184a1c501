package wasmsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/tuananh/hyper-mcp/internal/config"
)

// loadHTTP fetches a plugin's Wasm bytes over HTTP or HTTPS. auths is nil
// for plain HTTP fetches (which are never authenticated); for HTTPS it is
// the configured URL-prefix keyed credential set.
func loadHTTP(ctx context.Context, pluginURL *url.URL, auths map[string]config.AuthConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pluginURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if cred, ok := matchAuth(pluginURL.String(), auths); ok {
		applyAuth(req, cred)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pluginURL.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", pluginURL.Redacted(), resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body from %s: %w", pluginURL.Redacted(), err)
	}
	return data, nil
}

// matchAuth finds the longest key in auths that is a prefix of target,
// case-sensitive. Config.Auths keys are URL prefixes, not hostnames, so
// "https://example.com/private/" and "https://example.com/" can both
// match the same host with different credentials.
func matchAuth(target string, auths map[string]config.AuthConfig) (config.AuthConfig, bool) {
	var (
		best      config.AuthConfig
		bestLen   = -1
		bestFound bool
	)
	keys := make([]string, 0, len(auths))
	for k := range auths {
		keys = append(keys, k)
	}
	// Sorting longest-first isn't strictly necessary given we track
	// bestLen, but it keeps the match deterministic to read and debug.
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, prefix := range keys {
		if strings.HasPrefix(target, prefix) && len(prefix) > bestLen {
			best = auths[prefix]
			bestLen = len(prefix)
			bestFound = true
		}
	}
	return best, bestFound
}

func applyAuth(req *http.Request, cred config.AuthConfig) {
	switch cred.Kind {
	case config.AuthKindBasic:
		req.SetBasicAuth(cred.Username, cred.Password)
	case config.AuthKindToken:
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
}
