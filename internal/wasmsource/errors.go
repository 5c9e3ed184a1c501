package wasmsource

import "fmt"

// ErrUnsupportedScheme is returned when a plugin URL names a scheme this
// loader has no fetcher for.
type ErrUnsupportedScheme struct {
	Scheme string
}

func (e *ErrUnsupportedScheme) Error() string {
	return fmt.Sprintf("wasmsource: unsupported plugin url scheme %q", e.Scheme)
}

// ErrSignatureVerification is returned when an OCI-sourced plugin image
// fails Sigstore signature verification.
type ErrSignatureVerification struct {
	Reference string
	Err       error
}

func (e *ErrSignatureVerification) Error() string {
	return fmt.Sprintf("wasmsource: signature verification failed for %s: %v", e.Reference, e.Err)
}

func (e *ErrSignatureVerification) Unwrap() error { return e.Err }
