package hostplugin

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tuananh/hyper-mcp/internal/config"
)

// Plugin is the capability surface a loaded Wasm module exposes to the
// router, independent of which ABI generation it implements.
type Plugin interface {
	Name() config.PluginName

	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	ListTools(ctx context.Context) ([]mcp.Tool, error)

	ListPrompts(ctx context.Context) ([]mcp.Prompt, error)
	GetPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

	ListResources(ctx context.Context) ([]mcp.Resource, error)
	ReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)
	ListResourceTemplates(ctx context.Context) ([]mcp.ResourceTemplate, error)

	Complete(ctx context.Context, req mcp.CompleteRequest) (*mcp.CompleteResult, error)

	// OnRootsListChanged notifies the plugin that the peer's roots list
	// changed. It is fire-and-forget: errors are logged, not returned.
	OnRootsListChanged(ctx context.Context)

	Close() error
}
