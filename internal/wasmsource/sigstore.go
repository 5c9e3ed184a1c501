package wasmsource

import (
	"context"
	"fmt"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sigstore/sigstore-go/pkg/bundle"
	"github.com/sigstore/sigstore-go/pkg/root"
	"github.com/sigstore/sigstore-go/pkg/tuf"
	"github.com/sigstore/sigstore-go/pkg/verify"
	"oras.land/oras-go/v2/registry/remote"

	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// verifySignature triangulates the cosign signature image co-located
// with manifestDesc in the same repository and checks it against the
// configured trust material. It is a no-op when InsecureSkipSignature
// is set.
func (l *Loader) verifySignature(ctx context.Context, repo *remote.Repository, reference string, manifestDesc ocispec.Descriptor) error {
	if l.OCI != nil && l.OCI.InsecureSkipSignature {
		logging.Warn("WasmLoader", "signature verification disabled for %s (insecure_skip_signature)", reference)
		return nil
	}

	trustedRoot, err := l.buildTrustedRoot()
	if err != nil {
		return &ErrSignatureVerification{Reference: reference, Err: fmt.Errorf("building trust material: %w", err)}
	}

	sigBytes, err := fetchSignatureBundle(ctx, repo, manifestDesc)
	if err != nil {
		return &ErrSignatureVerification{Reference: reference, Err: fmt.Errorf("locating signature image: %w", err)}
	}

	sev, err := verify.NewVerifier(trustedRoot, verify.WithSignedCertificateTimestamps(1), verify.WithObserverTimestamps(1))
	if err != nil {
		return &ErrSignatureVerification{Reference: reference, Err: fmt.Errorf("constructing verifier: %w", err)}
	}

	b := &bundle.Bundle{}
	if err := b.UnmarshalJSON(sigBytes); err != nil {
		return &ErrSignatureVerification{Reference: reference, Err: fmt.Errorf("parsing signature bundle: %w", err)}
	}

	identity := verify.CertificateIdentity{}
	if l.OCI != nil {
		san := l.OCI.CertEmail
		if san == "" {
			san = l.OCI.CertURL
		}
		identity.SubjectAlternativeName = verify.SubjectAlternativeNameMatcher{Value: san}
		identity.Issuer = verify.IssuerMatcher{Value: l.OCI.CertIssuer}
	}
	policy := verify.NewPolicy(
		verify.WithArtifactDigest(manifestDesc.Digest.Algorithm().String(), manifestDesc.Digest.Encoded()),
		verify.WithCertificateIdentity(identity),
	)

	if _, err := sev.Verify(b, policy); err != nil {
		return &ErrSignatureVerification{Reference: reference, Err: err}
	}

	logging.Info("WasmLoader", "signature verified for %s", reference)
	return nil
}

// buildTrustedRoot constructs Sigstore trust material either from the
// public Sigstore TUF root or from manually configured Rekor/Fulcio
// material, per UseSigstoreTUFData.
func (l *Loader) buildTrustedRoot() (*root.TrustedRoot, error) {
	if l.OCI == nil || l.OCI.UseSigstoreTUFData {
		client, err := tuf.New(tuf.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("initializing sigstore tuf client: %w", err)
		}
		return root.GetTrustedRoot(client)
	}
	return root.NewTrustedRootFromPaths(l.OCI.RekorPublicKeysPath, l.OCI.FulcioCertsPath)
}

// fetchSignatureBundle locates the cosign signature artifact attached to
// manifestDesc and returns its raw Sigstore bundle JSON. Cosign publishes
// signatures as a sibling manifest tagged "{digest-alg}-{digest-hex}.sig".
func fetchSignatureBundle(ctx context.Context, repo *remote.Repository, manifestDesc ocispec.Descriptor) ([]byte, error) {
	sigTag := fmt.Sprintf("%s-%s.sig", manifestDesc.Digest.Algorithm(), manifestDesc.Digest.Encoded())
	_, rc, err := repo.FetchReference(ctx, sigTag)
	if err != nil {
		return nil, fmt.Errorf("fetching signature tag %s: %w", sigTag, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
