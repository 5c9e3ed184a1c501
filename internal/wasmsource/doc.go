// Package wasmsource loads the raw bytes of a plugin's Wasm module from
// whichever source scheme its configured URL names: a local file, an
// HTTP(S) endpoint, an OCI registry (with optional Sigstore signature
// verification), or an S3-compatible object store. Fetched bytes are
// cached for the lifetime of the process, keyed by plugin name.
package wasmsource
