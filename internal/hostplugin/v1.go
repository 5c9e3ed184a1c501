package hostplugin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// pluginV1 wraps a legacy Wasm module exporting only "call" and
// "describe". Only tools are supported: the other list methods return
// an empty result, GetPrompt, ReadResource and Complete return
// ErrFunctionNotExported, and OnRootsListChanged is a no-op.
type pluginV1 struct {
	base
}

type v1CallToolPayload struct {
	Params mcp.CallToolRequest `json:"params"`
}

type v1DescribeResult struct {
	Tools []mcp.Tool `json:"tools"`
}

func (p *pluginV1) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(v1CallToolPayload{Params: req})
	if err != nil {
		return nil, fmt.Errorf("hostplugin: marshaling v1 call payload: %w", err)
	}

	out, err := p.invoke(ctx, "call", payload)
	if err != nil {
		return nil, err
	}

	var result mcp.CallToolResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("hostplugin: decoding v1 call result: %w", err)
	}
	return &result, nil
}

func (p *pluginV1) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	out, err := p.invoke(ctx, "describe", []byte("{}"))
	if err != nil {
		return nil, err
	}

	var result v1DescribeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("hostplugin: decoding v1 describe result: %w", err)
	}
	return result.Tools, nil
}

func (p *pluginV1) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	return nil, nil
}

func (p *pluginV1) GetPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return nil, &ErrFunctionNotExported{Plugin: string(p.name), Function: "get_prompt"}
}

func (p *pluginV1) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	return nil, nil
}

func (p *pluginV1) ReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return nil, &ErrFunctionNotExported{Plugin: string(p.name), Function: "read_resource"}
}

func (p *pluginV1) ListResourceTemplates(ctx context.Context) ([]mcp.ResourceTemplate, error) {
	return nil, nil
}

func (p *pluginV1) Complete(ctx context.Context, req mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return nil, &ErrFunctionNotExported{Plugin: string(p.name), Function: "complete"}
}

func (p *pluginV1) OnRootsListChanged(ctx context.Context) {}
