package router

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/naming"
	"github.com/tuananh/hyper-mcp/pkg/logging"
	pstrings "github.com/tuananh/hyper-mcp/pkg/strings"
)

// collectTools aggregates one plugin's tools into their namespaced
// mcp-go ServerTool form, eliding anything the plugin's skip list
// covers. A plugin error here is fatal to AddPlugin: aggregation is
// fail-fast.
func (s *Service) collectTools(ctx context.Context, name config.PluginName, entry *pluginEntry) ([]server.ServerTool, error) {
	tools, err := entry.plugin.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("router: %s: listing tools: %w", name, err)
	}

	out := make([]server.ServerTool, 0, len(tools))
	for _, tool := range tools {
		if entry.skipsTool(tool.Name) {
			continue
		}
		inner := tool.Name
		tool.Name = naming.CreateNamespacedName(string(name), inner)
		logging.Debug("Router", "%s: tool %s: %s", name, tool.Name,
			pstrings.TruncateDescription(tool.Description, pstrings.DefaultDescriptionMaxLen))
		out = append(out, server.ServerTool{
			Tool:    tool,
			Handler: s.toolHandler(name, entry, inner),
		})
	}
	return out, nil
}

// toolHandler returns the mcp-go handler for one already-resolved
// (plugin, inner tool name) pair. It still has to re-check the skip
// list because the router is called by namespaced name, not by the
// ServerTool this handler was minted for: a later config reload or a
// second plugin sharing the same inner name must not let a stale
// closure bypass the current policy.
func (s *Service) toolHandler(name config.PluginName, entry *pluginEntry, inner string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if entry.skipsTool(inner) {
			return nil, &ErrMethodNotFound{Name: req.Params.Name}
		}
		req.Params.Name = inner
		return entry.plugin.CallTool(ctx, req)
	}
}

// CallTool dispatches a namespaced tools/call request: parse, look up,
// skip-list, rewrite, dispatch. Exposed directly (in addition to the
// per-tool handlers registered at AddPlugin time) so a plugin's
// dynamic tool list change can be served before the router gets a
// chance to re-register it.
func (s *Service) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pluginName, inner, err := naming.ParseNamespacedName(req.Params.Name)
	if err != nil {
		return nil, &ErrInvalidRequest{Reason: err.Error()}
	}
	entry, ok := s.entry(config.PluginName(pluginName))
	if !ok {
		return nil, &ErrMethodNotFound{Name: req.Params.Name}
	}
	if entry.skipsTool(inner) {
		return nil, &ErrMethodNotFound{Name: req.Params.Name}
	}
	req.Params.Name = inner
	return entry.plugin.CallTool(ctx, req)
}

// refreshTools re-lists name's tools and diffs them against what the
// MCP server currently advertises for that plugin, issuing AddTools/
// DeleteTools so the aggregated surface tracks a plugin's dynamic tool
// set (SPEC scenario: a plugin that grows its tool list at runtime).
func (s *Service) refreshTools(ctx context.Context, name config.PluginName, previouslyExposed []string) ([]string, error) {
	entry, ok := s.entry(name)
	if !ok {
		return nil, &ErrMethodNotFound{Name: string(name)}
	}

	fresh, err := s.collectTools(ctx, name, entry)
	if err != nil {
		return nil, err
	}

	freshNames := make(map[string]struct{}, len(fresh))
	for _, t := range fresh {
		freshNames[t.Tool.Name] = struct{}{}
	}

	var stale []string
	for _, old := range previouslyExposed {
		if _, ok := freshNames[old]; !ok {
			stale = append(stale, old)
		}
	}
	if len(stale) > 0 {
		s.mcpServer.DeleteTools(stale...)
	}

	var added []string
	exposed := make([]string, 0, len(fresh))
	for _, t := range fresh {
		exposed = append(exposed, t.Tool.Name)
		isNew := true
		for _, old := range previouslyExposed {
			if old == t.Tool.Name {
				isNew = false
				break
			}
		}
		if isNew {
			added = append(added, t.Tool.Name)
		}
	}
	if len(added) > 0 {
		addTools := make([]server.ServerTool, 0, len(added))
		for _, t := range fresh {
			for _, name := range added {
				if t.Tool.Name == name {
					addTools = append(addTools, t)
				}
			}
		}
		s.mcpServer.AddTools(addTools...)
	}

	return exposed, nil
}
