package router

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/naming"
)

func (s *Service) collectPrompts(ctx context.Context, name config.PluginName, entry *pluginEntry) ([]server.ServerPrompt, error) {
	prompts, err := entry.plugin.ListPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("router: %s: listing prompts: %w", name, err)
	}

	out := make([]server.ServerPrompt, 0, len(prompts))
	for _, prompt := range prompts {
		if entry.skipsPrompt(prompt.Name) {
			continue
		}
		inner := prompt.Name
		prompt.Name = naming.CreateNamespacedName(string(name), inner)
		out = append(out, server.ServerPrompt{
			Prompt:  prompt,
			Handler: s.promptHandler(entry, inner),
		})
	}
	return out, nil
}

func (s *Service) promptHandler(entry *pluginEntry, inner string) server.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		if entry.skipsPrompt(inner) {
			return nil, &ErrMethodNotFound{Name: req.Params.Name}
		}
		req.Params.Name = inner
		return entry.plugin.GetPrompt(ctx, req)
	}
}
