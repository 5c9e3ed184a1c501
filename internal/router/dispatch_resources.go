package router

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/naming"
)

func (s *Service) collectResources(ctx context.Context, name config.PluginName, entry *pluginEntry) ([]server.ServerResource, error) {
	resources, err := entry.plugin.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("router: %s: listing resources: %w", name, err)
	}

	out := make([]server.ServerResource, 0, len(resources))
	for _, resource := range resources {
		if entry.skipsResource(resource.URI) {
			continue
		}
		inner := resource.URI
		namespaced, err := naming.CreateNamespacedURI(string(name), inner)
		if err != nil {
			return nil, fmt.Errorf("router: %s: namespacing resource %q: %w", name, inner, err)
		}
		resource.URI = namespaced
		out = append(out, server.ServerResource{
			Resource: resource,
			Handler:  s.resourceHandler(entry, inner),
		})
	}
	return out, nil
}

func (s *Service) resourceHandler(entry *pluginEntry, inner string) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if entry.skipsResource(inner) {
			return nil, &ErrMethodNotFound{Name: req.Params.URI}
		}
		req.Params.URI = inner
		return entry.plugin.ReadResource(ctx, req)
	}
}

// collectResourceTemplates aggregates one plugin's resource templates
// into their namespaced mcp-go ServerResourceTemplate form, the same
// way collectResources does for concrete resources. A template has no
// fixed inner URI to capture in its handler's closure: the concrete
// URI a read request carries only matches the pattern once the peer
// fills in its variables, so the handler recovers the plugin's share
// of that concrete URI at call time instead.
func (s *Service) collectResourceTemplates(ctx context.Context, name config.PluginName, entry *pluginEntry) ([]server.ServerResourceTemplate, error) {
	templates, err := entry.plugin.ListResourceTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("router: %s: listing resource templates: %w", name, err)
	}

	out := make([]server.ServerResourceTemplate, 0, len(templates))
	for _, tmpl := range templates {
		if entry.skipsResourceTemplate(tmpl.URITemplate) {
			continue
		}
		namespaced, err := naming.CreateNamespacedURI(string(name), tmpl.URITemplate)
		if err != nil {
			return nil, fmt.Errorf("router: %s: namespacing resource template %q: %w", name, tmpl.URITemplate, err)
		}
		tmpl.URITemplate = namespaced
		out = append(out, server.ServerResourceTemplate{
			Template: tmpl,
			Handler:  s.resourceTemplateHandler(entry),
		})
	}
	return out, nil
}

// resourceTemplateHandler serves a resources/read request whose URI
// matched one of entry's templates. Unlike resourceHandler, it has no
// single inner URI baked in: it strips the plugin's namespace segment
// from whatever concrete URI the peer requested and forwards the rest.
func (s *Service) resourceTemplateHandler(entry *pluginEntry) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		_, inner, err := naming.ParseNamespacedURI(req.Params.URI)
		if err != nil {
			return nil, &ErrInvalidRequest{Reason: err.Error()}
		}
		req.Params.URI = inner
		return entry.plugin.ReadResource(ctx, req)
	}
}
