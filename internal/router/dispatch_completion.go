package router

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/naming"
)

// Complete dispatches a completion/complete request. The ref carries
// either a namespaced prompt name or a namespaced resource URI; the
// owning plugin is parsed out of whichever one is present, the
// discriminator rewrite for the plugin's wire format happens inside
// pluginV2.Complete, not here.
func (s *Service) Complete(ctx context.Context, req mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	pluginName, inner, err := s.parseCompleteRef(req.Params.Ref)
	if err != nil {
		return nil, &ErrInvalidRequest{Reason: err.Error()}
	}

	entry, ok := s.entry(config.PluginName(pluginName))
	if !ok {
		return nil, &ErrMethodNotFound{Name: pluginName}
	}

	switch ref := req.Params.Ref.(type) {
	case mcp.PromptReference:
		ref.Name = inner
		req.Params.Ref = ref
	case mcp.ResourceTemplateReference:
		ref.URI = inner
		req.Params.Ref = ref
	}

	return entry.plugin.Complete(ctx, req)
}

func (s *Service) parseCompleteRef(ref any) (plugin, inner string, err error) {
	switch r := ref.(type) {
	case mcp.PromptReference:
		return naming.ParseNamespacedName(r.Name)
	case mcp.ResourceTemplateReference:
		return naming.ParseNamespacedURI(r.URI)
	default:
		return "", "", &ErrInvalidRequest{Reason: "completion/complete: unrecognized ref type"}
	}
}
