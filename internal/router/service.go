package router

import (
	"context"
	"sync"

	extism "github.com/extism/go-sdk"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/hostcall"
	"github.com/tuananh/hyper-mcp/internal/hostplugin"
	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// pluginEntry bundles a loaded plugin with the config the router needs
// for namespacing and skip-list decisions.
type pluginEntry struct {
	plugin hostplugin.Plugin
	rc     *config.RuntimeConfig

	mu           sync.Mutex
	exposedTools []string // namespaced tool names last registered with mcpServer
}

func (e *pluginEntry) exposedToolNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.exposedTools))
	copy(out, e.exposedTools)
	return out
}

func (e *pluginEntry) setExposedToolNames(names []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exposedTools = names
}

// Service is the request router: one per running process, owning every
// loaded plugin and the single MCP server that exposes their aggregated
// surface. Its id lets host-call closures recover it through a weak
// reference without the plugin package importing this one.
type Service struct {
	id uuid.UUID

	order   []config.PluginName
	plugins map[config.PluginName]*pluginEntry

	mcpServer *server.MCPServer

	mu           sync.RWMutex
	loggingLevel string
	sessionID    string
	hasSession   bool

	subscriptions sync.Map // uri (string) -> struct{}
}

// NewService constructs an empty router bound to an MCP server with the
// capability set this host always advertises. Plugins are attached
// afterward via AddPlugin, once each one's host functions have been
// built against this Service's id. version is surfaced to the peer
// during initialize.
func NewService(version string) *Service {
	s := &Service{
		id:           uuid.New(),
		plugins:      make(map[config.PluginName]*pluginEntry),
		loggingLevel: "info",
	}

	s.mcpServer = server.NewMCPServer(
		"hyper-mcp", version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
		server.WithCompletionHandler(s.Complete),
		server.WithHooks(s.registerHooks()),
	)

	registerService(s)
	return s
}

// ID identifies this Service in the weak service registry.
func (s *Service) ID() uuid.UUID { return s.id }

// MCPServer returns the underlying mcp-go server for transport wiring
// in cmd/serve.go.
func (s *Service) MCPServer() *server.MCPServer { return s.mcpServer }

// AddPlugin registers a loaded plugin and its aggregated capabilities
// with the MCP server. Call once per configured plugin, in config
// order, before serving any requests.
func (s *Service) AddPlugin(ctx context.Context, name config.PluginName, p hostplugin.Plugin, rc *config.RuntimeConfig) error {
	entry := &pluginEntry{plugin: p, rc: rc}

	s.mu.Lock()
	s.order = append(s.order, name)
	s.plugins[name] = entry
	s.mu.Unlock()

	tools, err := s.collectTools(ctx, name, entry)
	if err != nil {
		return err
	}
	prompts, err := s.collectPrompts(ctx, name, entry)
	if err != nil {
		return err
	}
	resources, err := s.collectResources(ctx, name, entry)
	if err != nil {
		return err
	}
	templates, err := s.collectResourceTemplates(ctx, name, entry)
	if err != nil {
		return err
	}

	if len(tools) > 0 {
		s.mcpServer.AddTools(tools...)
	}
	if len(prompts) > 0 {
		s.mcpServer.AddPrompts(prompts...)
	}
	if len(resources) > 0 {
		s.mcpServer.AddResources(resources...)
	}
	if len(templates) > 0 {
		s.mcpServer.AddResourceTemplates(templates...)
	}

	toolNames := make([]string, 0, len(tools))
	for _, t := range tools {
		toolNames = append(toolNames, t.Tool.Name)
	}
	entry.setExposedToolNames(toolNames)

	logging.Info("Router", "plugin %s: registered %d tools, %d prompts, %d resources, %d resource templates", name, len(tools), len(prompts), len(resources), len(templates))
	return nil
}

// pluginNames returns the configured plugin order, snapshotted under
// the read lock.
func (s *Service) pluginNames() []config.PluginName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]config.PluginName, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Service) entry(name config.PluginName) (*pluginEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.plugins[name]
	return e, ok
}

// Close tears down every loaded plugin's Wasm instance.
func (s *Service) Close() error {
	defer unregisterService(s.id)

	s.mu.RLock()
	entries := make([]*pluginEntry, 0, len(s.plugins))
	for _, e := range s.plugins {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	var firstErr error
	for _, e := range entries {
		if err := e.plugin.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// HostFunctions builds the host-call gateway surface a plugin named
// name should be sandboxed with, bound to this Service through the
// weak registry rather than a direct closure over s.
func (s *Service) HostFunctions(name config.PluginName) []extism.HostFunction {
	return hostcall.NewHostFunctions(resolver(s.id), name)
}
