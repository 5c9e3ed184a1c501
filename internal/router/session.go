package router

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// registerHooks wires the session lifecycle and logging-level mcp-go
// notifies the application about into Service state. Host-calls that
// need the peer (create_message, create_elicitation, list_roots) fail
// with ErrNoPeer until OnRegisterSession has fired once.
func (s *Service) registerHooks() *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		s.mu.Lock()
		s.sessionID = session.SessionID()
		s.hasSession = true
		s.mu.Unlock()
		logging.Info("Router", "peer session %s connected", session.SessionID())
	})

	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		s.mu.Lock()
		if s.sessionID == session.SessionID() {
			s.hasSession = false
		}
		s.mu.Unlock()
		logging.Info("Router", "peer session %s disconnected", session.SessionID())
	})

	hooks.AddAfterSetLevel(func(ctx context.Context, id any, message *mcp.SetLevelRequest, result *mcp.EmptyResult) {
		s.SetLoggingLevel(string(message.Params.Level))
	})

	hooks.AddAfterSubscribe(func(ctx context.Context, id any, message *mcp.SubscribeRequest, result *mcp.EmptyResult) {
		s.Subscribe(message.Params.URI)
	})

	hooks.AddAfterUnsubscribe(func(ctx context.Context, id any, message *mcp.UnsubscribeRequest, result *mcp.EmptyResult) {
		s.Unsubscribe(message.Params.URI)
	})

	return hooks
}

// SetLoggingLevel stores the peer's requested minimum logging level.
// Called from the logging/setLevel hook wired in registerHooks.
func (s *Service) SetLoggingLevel(level string) {
	s.mu.Lock()
	s.loggingLevel = level
	s.mu.Unlock()
}

// Subscribe adds uri to the resource-update subscription set.
func (s *Service) Subscribe(uri string) {
	s.subscriptions.Store(uri, struct{}{})
}

// Unsubscribe removes uri from the resource-update subscription set.
func (s *Service) Unsubscribe(uri string) {
	s.subscriptions.Delete(uri)
}

func (s *Service) currentSessionID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID, s.hasSession
}
