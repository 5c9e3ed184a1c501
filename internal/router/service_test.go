package router

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tuananh/hyper-mcp/internal/config"
)

type fakePlugin struct {
	name  config.PluginName
	tools []mcp.Tool
	calls []string
}

func (f *fakePlugin) Name() config.PluginName { return f.name }

func (f *fakePlugin) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.calls = append(f.calls, req.Params.Name)
	return &mcp.CallToolResult{}, nil
}

func (f *fakePlugin) ListTools(ctx context.Context) ([]mcp.Tool, error) { return f.tools, nil }

func (f *fakePlugin) ListPrompts(ctx context.Context) ([]mcp.Prompt, error)   { return nil, nil }
func (f *fakePlugin) ListResources(ctx context.Context) ([]mcp.Resource, error) { return nil, nil }
func (f *fakePlugin) ListResourceTemplates(ctx context.Context) ([]mcp.ResourceTemplate, error) {
	return nil, nil
}
func (f *fakePlugin) GetPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return nil, nil
}
func (f *fakePlugin) ReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return nil, nil
}
func (f *fakePlugin) Complete(ctx context.Context, req mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return nil, nil
}
func (f *fakePlugin) OnRootsListChanged(ctx context.Context) {}
func (f *fakePlugin) Close() error                            { return nil }

func TestAddPluginNamespacesTools(t *testing.T) {
	s := NewService("test")
	defer s.Close()

	p := &fakePlugin{name: "time", tools: []mcp.Tool{{Name: "get_time"}}}
	if err := s.AddPlugin(context.Background(), "time", p, nil); err != nil {
		t.Fatalf("AddPlugin: %v", err)
	}

	entry, ok := s.entry("time")
	if !ok {
		t.Fatal("expected plugin entry to be registered")
	}
	if entry.plugin != p {
		t.Fatal("expected registered plugin to be the one passed in")
	}
	if names := entry.exposedToolNames(); len(names) != 1 || names[0] != "time-get_time" {
		t.Fatalf("exposed tools = %v, want [time-get_time]", names)
	}
}

func TestCallToolDispatchesToInnerName(t *testing.T) {
	s := NewService("test")
	defer s.Close()

	p := &fakePlugin{name: "time", tools: []mcp.Tool{{Name: "get_time"}}}
	if err := s.AddPlugin(context.Background(), "time", p, nil); err != nil {
		t.Fatalf("AddPlugin: %v", err)
	}

	_, err := s.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "time-get_time"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if len(p.calls) != 1 || p.calls[0] != "get_time" {
		t.Fatalf("calls = %v, want [get_time]", p.calls)
	}
}

func TestCallToolUnknownPluginIsMethodNotFound(t *testing.T) {
	s := NewService("test")
	defer s.Close()

	_, err := s.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "ghost-get_time"},
	})
	if _, ok := err.(*ErrMethodNotFound); !ok {
		t.Fatalf("err = %v (%T), want *ErrMethodNotFound", err, err)
	}
}

func TestCallToolRejectsSkippedTool(t *testing.T) {
	s := NewService("test")
	defer s.Close()

	p := &fakePlugin{name: "time", tools: []mcp.Tool{{Name: "get_time"}, {Name: "danger_reset"}}}
	rc := &config.RuntimeConfig{SkipTools: []string{"danger_*"}}
	if err := s.AddPlugin(context.Background(), "time", p, rc); err != nil {
		t.Fatalf("AddPlugin: %v", err)
	}

	_, err := s.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "time-danger_reset"},
	})
	if _, ok := err.(*ErrMethodNotFound); !ok {
		t.Fatalf("err = %v, want *ErrMethodNotFound", err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("expected no call to reach the plugin, got %v", p.calls)
	}
}
