package hostplugin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// pluginV2 wraps the current Wasm ABI: a required "call_tool"/"list_tools"
// pair plus an open set of optional exports. Missing optional exports
// are "feature absent": an empty result for list methods, a
// not-exported error for item methods.
type pluginV2 struct {
	base
}

type v2Envelope struct {
	Request any `json:"request,omitempty"`
	Context any `json:"context,omitempty"`
}

func (p *pluginV2) call(ctx context.Context, funcName string, req any, out any) error {
	payload, err := json.Marshal(v2Envelope{Request: req, Context: requestContext(ctx)})
	if err != nil {
		return fmt.Errorf("hostplugin: marshaling v2 %s payload: %w", funcName, err)
	}

	data, err := p.invoke(ctx, funcName, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("hostplugin: decoding v2 %s result: %w", funcName, err)
	}
	return nil
}

// requestContext builds the context object sent to the plugin with each
// request. It is always an empty object: neither the request id nor the
// _meta map is forwarded, and neither is the peer handle (plugins reach
// the peer only through the host-call gateway).
func requestContext(ctx context.Context) any {
	return map[string]any{}
}

func (p *pluginV2) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result mcp.CallToolResult
	if err := p.call(ctx, "call_tool", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *pluginV2) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	var result struct {
		Tools []mcp.Tool `json:"tools"`
	}
	if err := p.call(ctx, "list_tools", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

func (p *pluginV2) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	if !p.functionExists("list_prompts") {
		return nil, nil
	}
	var result struct {
		Prompts []mcp.Prompt `json:"prompts"`
	}
	if err := p.call(ctx, "list_prompts", nil, &result); err != nil {
		return nil, err
	}
	return result.Prompts, nil
}

func (p *pluginV2) GetPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	if !p.functionExists("get_prompt") {
		return nil, &ErrFunctionNotExported{Plugin: string(p.name), Function: "get_prompt"}
	}
	var result mcp.GetPromptResult
	if err := p.call(ctx, "get_prompt", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *pluginV2) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	if !p.functionExists("list_resources") {
		return nil, nil
	}
	var result struct {
		Resources []mcp.Resource `json:"resources"`
	}
	if err := p.call(ctx, "list_resources", nil, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

func (p *pluginV2) ReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if !p.functionExists("read_resource") {
		return nil, &ErrFunctionNotExported{Plugin: string(p.name), Function: "read_resource"}
	}
	var result struct {
		Contents []mcp.ResourceContents `json:"contents"`
	}
	if err := p.call(ctx, "read_resource", req, &result); err != nil {
		return nil, err
	}
	return result.Contents, nil
}

func (p *pluginV2) ListResourceTemplates(ctx context.Context) ([]mcp.ResourceTemplate, error) {
	if !p.functionExists("list_resource_templates") {
		return nil, nil
	}
	var result struct {
		ResourceTemplates []mcp.ResourceTemplate `json:"resourceTemplates"`
	}
	if err := p.call(ctx, "list_resource_templates", nil, &result); err != nil {
		return nil, err
	}
	return result.ResourceTemplates, nil
}

// Complete forwards a completion request, rewriting the polymorphic
// ref discriminator from its wire form ("ref/prompt", "ref/resource")
// to the bare enum variant the plugin's JSON schema expects.
func (p *pluginV2) Complete(ctx context.Context, req mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	if !p.functionExists("complete") {
		return nil, &ErrFunctionNotExported{Plugin: string(p.name), Function: "complete"}
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("hostplugin: marshaling complete request: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("hostplugin: re-decoding complete request: %w", err)
	}
	rewriteCompleteRefType(payload)

	envelopePayload, err := json.Marshal(v2Envelope{Request: payload, Context: requestContext(ctx)})
	if err != nil {
		return nil, fmt.Errorf("hostplugin: marshaling complete payload: %w", err)
	}

	out, err := p.invoke(ctx, "complete", envelopePayload)
	if err != nil {
		return nil, err
	}

	var result mcp.CompleteResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("hostplugin: decoding complete result: %w", err)
	}
	return &result, nil
}

// rewriteCompleteRefType strips the "ref/" prefix from payload["ref"]'s
// "type" discriminator in place. The reverse rewrite is unnecessary on
// the response path.
func rewriteCompleteRefType(payload map[string]any) {
	ref, ok := payload["ref"].(map[string]any)
	if !ok {
		return
	}
	t, ok := ref["type"].(string)
	if !ok {
		return
	}
	ref["type"] = strings.TrimPrefix(t, "ref/")
}

func (p *pluginV2) OnRootsListChanged(ctx context.Context) {
	if !p.functionExists("on_roots_list_changed") {
		return
	}
	go func() {
		if err := p.call(context.Background(), "on_roots_list_changed", nil, nil); err != nil {
			logging.Warn("HostPlugin", "%s: on_roots_list_changed failed: %s", p.name, err)
		}
	}()
}
