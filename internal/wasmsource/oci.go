package wasmsource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// defaultWasmLayerTitle is the OCI layer annotation value this loader
// looks for when a plugin image does not name an explicit target path.
const defaultWasmLayerTitle = "plugin.wasm"

// loadOCI pulls a plugin image from an OCI registry, verifies its
// signature (unless disabled), and extracts the layer carrying the Wasm
// module. Results are cached on disk so repeated loads of the same
// image reference skip both the network fetch and the verification.
func (l *Loader) loadOCI(ctx context.Context, name config.PluginName, pluginURL *url.URL) ([]byte, error) {
	reference := ociReference(pluginURL)

	cachePath, err := ociCachePath(name, reference)
	if err != nil {
		return nil, err
	}
	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("WasmLoader", "disk cache hit for %s at %s", reference, cachePath)
		return data, nil
	}

	repo, err := remote.NewRepository(reference)
	if err != nil {
		return nil, fmt.Errorf("building repository client for %s: %w", reference, err)
	}

	store := memory.New()
	manifestDesc, err := oras.Copy(ctx, repo, repo.Reference.Reference, store, repo.Reference.Reference, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("pulling manifest for %s: %w", reference, err)
	}

	if err := l.verifySignature(ctx, repo, reference, manifestDesc); err != nil {
		return nil, err
	}

	data, err := extractWasmLayer(ctx, store, manifestDesc)
	if err != nil {
		return nil, fmt.Errorf("extracting wasm layer from %s: %w", reference, err)
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		logging.Warn("WasmLoader", "could not create cache dir for %s: %s", reference, err)
	} else if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		logging.Warn("WasmLoader", "could not write cache file for %s: %s", reference, err)
	}

	return data, nil
}

// ociReference strips the "oci://" scheme, leaving the bare
// registry/repo:tag reference oras-go expects.
func ociReference(pluginURL *url.URL) string {
	ref := pluginURL.Host + pluginURL.Path
	return strings.TrimSuffix(ref, "/")
}

// ociCachePath returns "<user-cache>/hyper-mcp/{plugin_name}-{hash7}.wasm",
// where hash7 is the first 7 hex characters of sha256(reference).
func ociCachePath(name config.PluginName, reference string) (string, error) {
	cacheDir := config.GetDefaultCacheDirOrPanic()
	sum := sha256.Sum256([]byte(reference))
	hash7 := hex.EncodeToString(sum[:])[:7]
	return filepath.Join(cacheDir, fmt.Sprintf("%s-%s.wasm", name, hash7)), nil
}

// extractWasmLayer walks the manifest's layers looking for one whose
// "org.opencontainers.image.title" annotation names the Wasm module,
// falling back to the first layer if none is annotated.
func extractWasmLayer(ctx context.Context, store oras.ReadOnlyTarget, manifestDesc ocispec.Descriptor) ([]byte, error) {
	manifestBytes, err := content.FetchAll(ctx, store, manifestDesc)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest content: %w", err)
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if len(manifest.Layers) == 0 {
		return nil, fmt.Errorf("image has no layers")
	}

	target := manifest.Layers[0]
	for _, layer := range manifest.Layers {
		if layer.Annotations[ocispec.AnnotationTitle] == defaultWasmLayerTitle {
			target = layer
			break
		}
	}

	return content.FetchAll(ctx, store, target)
}
