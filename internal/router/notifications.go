package router

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/hostcall"
)

// Service implements hostcall.Service so host-call closures built in
// package hostcall can be handed a Service resolved from the weak
// registry without this package's Service type ever being imported by
// hostcall.
var _ hostcall.Service = (*Service)(nil)

func (s *Service) LoggingLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggingLevel
}

func (s *Service) IsSubscribed(uri string) bool {
	_, ok := s.subscriptions.Load(uri)
	return ok
}

// PeerSupportsElicitation, PeerSupportsSampling, and PeerSupportsRoots
// report the client capabilities negotiated at initialize. mcp-go does
// not expose the raw ClientCapabilities on the server side outside the
// initialize handler, so a connected session is treated as supporting
// all three; host-calls that reach a peer without the capability get
// an ordinary JSON-RPC MethodNotFound back, which CreateElicitation et
// al. surface as an UpstreamError.
func (s *Service) PeerSupportsElicitation() bool { _, ok := s.currentSessionID(); return ok }
func (s *Service) PeerSupportsSampling() bool    { _, ok := s.currentSessionID(); return ok }
func (s *Service) PeerSupportsRoots() bool       { _, ok := s.currentSessionID(); return ok }

func (s *Service) CreateElicitation(ctx context.Context, payload []byte) ([]byte, error) {
	sessionID, ok := s.currentSessionID()
	if !ok {
		return nil, hostcall.ErrNoPeer
	}
	params := map[string]any{}
	if err := json.Unmarshal(payload, &params); err != nil {
		return nil, err
	}
	var result map[string]any
	if err := s.mcpServer.SendRequestToSpecificClient(ctx, sessionID, "elicitation/create", params, &result); err != nil {
		return nil, &hostcall.UpstreamError{Err: err}
	}
	return json.Marshal(result)
}

func (s *Service) CreateMessage(ctx context.Context, payload []byte) ([]byte, error) {
	sessionID, ok := s.currentSessionID()
	if !ok {
		return nil, hostcall.ErrNoPeer
	}
	params := map[string]any{}
	if err := json.Unmarshal(payload, &params); err != nil {
		return nil, err
	}
	var result map[string]any
	if err := s.mcpServer.SendRequestToSpecificClient(ctx, sessionID, "sampling/createMessage", params, &result); err != nil {
		return nil, &hostcall.UpstreamError{Err: err}
	}
	return json.Marshal(result)
}

func (s *Service) ListRoots(ctx context.Context) ([]byte, error) {
	sessionID, ok := s.currentSessionID()
	if !ok {
		return nil, hostcall.ErrNoPeer
	}
	var result map[string]any
	if err := s.mcpServer.SendRequestToSpecificClient(ctx, sessionID, "roots/list", nil, &result); err != nil {
		return nil, &hostcall.UpstreamError{Err: err}
	}
	return json.Marshal(result)
}

func (s *Service) NotifyLoggingMessage(ctx context.Context, payload []byte) error {
	return s.notify(ctx, "notifications/message", payload)
}

func (s *Service) NotifyProgress(ctx context.Context, payload []byte) error {
	return s.notify(ctx, "notifications/progress", payload)
}

func (s *Service) NotifyPromptListChanged(ctx context.Context) error {
	return s.notify(ctx, "notifications/prompts/list_changed", nil)
}

func (s *Service) NotifyResourceListChanged(ctx context.Context) error {
	return s.notify(ctx, "notifications/resources/list_changed", nil)
}

func (s *Service) NotifyResourceUpdated(ctx context.Context, uri string) error {
	payload, err := json.Marshal(map[string]string{"uri": uri})
	if err != nil {
		return err
	}
	return s.notify(ctx, "notifications/resources/updated", payload)
}

// NotifyToolListChanged re-lists and re-registers plugin's tools against
// the aggregated MCP server, then best-effort notifies the connected
// peer. The re-registration happens regardless of whether a peer is
// currently connected, so a plugin's new tools are live for the next
// tools/list even absent a push notification.
func (s *Service) NotifyToolListChanged(ctx context.Context, plugin string) error {
	name := config.PluginName(plugin)
	entry, ok := s.entry(name)
	if !ok {
		return &ErrMethodNotFound{Name: plugin}
	}

	exposed, err := s.refreshTools(ctx, name, entry.exposedToolNames())
	if err != nil {
		return err
	}
	entry.setExposedToolNames(exposed)

	if err := s.notify(ctx, "notifications/tools/list_changed", nil); err != nil && !errors.Is(err, hostcall.ErrNoPeer) {
		return err
	}
	return nil
}

func (s *Service) notify(ctx context.Context, method string, payload []byte) error {
	sessionID, ok := s.currentSessionID()
	if !ok {
		return hostcall.ErrNoPeer
	}

	var params map[string]any
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &params); err != nil {
			return err
		}
	}
	return s.mcpServer.SendNotificationToSpecificClient(sessionID, method, params)
}
