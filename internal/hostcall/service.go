package hostcall

import "context"

// Service is the subset of the request router's Service that the
// host-call gateway needs. It is declared here, not imported from
// package router, so that this package stays a leaf dependency of
// router instead of the other way around; router.Service implements
// this interface.
type Service interface {
	// LoggingLevel reports the minimum mcp logging level the connected
	// peer currently wants forwarded.
	LoggingLevel() string

	// IsSubscribed reports whether uri is in the resource subscription
	// set, gating notify_resource_updated.
	IsSubscribed(uri string) bool

	PeerSupportsElicitation() bool
	PeerSupportsSampling() bool
	PeerSupportsRoots() bool

	CreateElicitation(ctx context.Context, payload []byte) ([]byte, error)
	CreateMessage(ctx context.Context, payload []byte) ([]byte, error)
	ListRoots(ctx context.Context) ([]byte, error)

	NotifyLoggingMessage(ctx context.Context, payload []byte) error
	NotifyProgress(ctx context.Context, payload []byte) error
	NotifyPromptListChanged(ctx context.Context) error
	NotifyResourceListChanged(ctx context.Context) error
	NotifyResourceUpdated(ctx context.Context, uri string) error

	// NotifyToolListChanged re-collects and re-registers plugin's tools
	// against the aggregated MCP server before forwarding the
	// notification to the peer, so a subsequent tools/list reflects the
	// plugin's new tool set rather than the one captured at AddPlugin
	// time.
	NotifyToolListChanged(ctx context.Context, plugin string) error
}

// Resolver recovers the Service owning a given plugin instance. It
// returns ErrServiceGone once the service has been torn down.
type Resolver func() (Service, error)
