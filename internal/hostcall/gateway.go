package hostcall

import (
	"context"
	"encoding/json"

	extism "github.com/extism/go-sdk"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/naming"
	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// progressPayload mirrors the wire shape of a notify_progress call.
type progressPayload struct {
	Token    any      `json:"token"`
	Progress float64  `json:"progress"`
	Total    *float64 `json:"total,omitempty"`
	Message  string   `json:"message,omitempty"`
}

type loggingPayload struct {
	Level  string `json:"level"`
	Logger string `json:"logger,omitempty"`
	Data   any    `json:"data"`
}

type resourceUpdatedPayload struct {
	URI string `json:"uri"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// NewHostFunctions builds the nine host-call gateway functions for one
// plugin instance. resolve recovers the owning service on every
// invocation; pluginName tags log lines and defaults the logger field of
// forwarded log messages.
func NewHostFunctions(resolve Resolver, pluginName config.PluginName) []extism.HostFunction {
	return []extism.HostFunction{
		jsonHostFunction("create_elicitation", pluginName, resolve, func(ctx context.Context, svc Service, payload []byte) ([]byte, error) {
			if !svc.PeerSupportsElicitation() {
				return json.Marshal(map[string]any{"action": "decline", "content": nil})
			}

			var tree map[string]any
			if err := json.Unmarshal(payload, &tree); err == nil {
				rewriteDateTimeFormat(tree)
				if rewritten, err := json.Marshal(tree); err == nil {
					payload = rewritten
				}
			}
			return svc.CreateElicitation(ctx, payload)
		}),

		jsonHostFunction("create_message", pluginName, resolve, func(ctx context.Context, svc Service, payload []byte) ([]byte, error) {
			if !svc.PeerSupportsSampling() {
				return nil, ErrUnsupportedByPeer
			}
			return svc.CreateMessage(ctx, payload)
		}),

		jsonHostFunction("list_roots", pluginName, resolve, func(ctx context.Context, svc Service, _ []byte) ([]byte, error) {
			if !svc.PeerSupportsRoots() {
				return json.Marshal(map[string]any{"roots": []any{}})
			}
			return svc.ListRoots(ctx)
		}),

		jsonHostFunction("notify_logging_message", pluginName, resolve, func(ctx context.Context, svc Service, payload []byte) ([]byte, error) {
			var msg loggingPayload
			if err := json.Unmarshal(payload, &msg); err != nil {
				return nil, err
			}
			if msg.Logger == "" {
				msg.Logger = string(pluginName)
			}
			if !logLevelAtLeast(msg.Level, svc.LoggingLevel()) {
				return nil, nil
			}
			rewritten, err := json.Marshal(msg)
			if err != nil {
				return nil, err
			}
			return nil, svc.NotifyLoggingMessage(ctx, rewritten)
		}),

		jsonHostFunction("notify_progress", pluginName, resolve, func(ctx context.Context, svc Service, payload []byte) ([]byte, error) {
			var body progressPayload
			if err := json.Unmarshal(payload, &body); err != nil {
				return nil, err
			}
			return nil, svc.NotifyProgress(ctx, payload)
		}),

		jsonHostFunction("notify_prompt_list_changed", pluginName, resolve, func(ctx context.Context, svc Service, _ []byte) ([]byte, error) {
			return nil, svc.NotifyPromptListChanged(ctx)
		}),

		jsonHostFunction("notify_resource_list_changed", pluginName, resolve, func(ctx context.Context, svc Service, _ []byte) ([]byte, error) {
			return nil, svc.NotifyResourceListChanged(ctx)
		}),

		jsonHostFunction("notify_resource_updated", pluginName, resolve, func(ctx context.Context, svc Service, payload []byte) ([]byte, error) {
			var body resourceUpdatedPayload
			if err := json.Unmarshal(payload, &body); err != nil {
				return nil, err
			}
			namespaced, err := naming.CreateNamespacedURI(string(pluginName), body.URI)
			if err != nil {
				return nil, err
			}
			if !svc.IsSubscribed(namespaced) {
				return nil, nil
			}
			return nil, svc.NotifyResourceUpdated(ctx, namespaced)
		}),

		jsonHostFunction("notify_tool_list_changed", pluginName, resolve, func(ctx context.Context, svc Service, _ []byte) ([]byte, error) {
			return nil, svc.NotifyToolListChanged(ctx, string(pluginName))
		}),
	}
}

// jsonHostFunction adapts a (Service, payload) -> (payload, error) Go
// function into the extism stack-based host function calling
// convention: a single PTR parameter carrying the request JSON, a
// single PTR return carrying either the response JSON or a
// {"error": "..."} envelope.
func jsonHostFunction(name string, pluginName config.PluginName, resolve Resolver, handler func(ctx context.Context, svc Service, payload []byte) ([]byte, error)) extism.HostFunction {
	fn := extism.NewHostFunctionWithStack(
		name,
		func(ctx context.Context, p *extism.CurrentPlugin, stack []uint64) {
			input := p.ReadBytes(stack[0])

			out, err := invoke(ctx, pluginName, name, resolve, input, handler)
			if err != nil {
				out, _ = json.Marshal(errorEnvelope{Error: err.Error()})
			}
			if out == nil {
				out = []byte("{}")
			}
			stack[0] = p.WriteBytes(out)
		},
		[]extism.ValueType{extism.ValueTypePTR},
		[]extism.ValueType{extism.ValueTypePTR},
	)
	fn.SetNamespace("extism:host/user")
	return fn
}

// invoke resolves the owning service and runs handler against it. Split
// out from the extism closure so the resolve-and-dispatch step can be
// unit tested without an extism.CurrentPlugin.
func invoke(ctx context.Context, pluginName config.PluginName, fnName string, resolve Resolver, input []byte, handler func(ctx context.Context, svc Service, payload []byte) ([]byte, error)) ([]byte, error) {
	svc, err := resolve()
	if err != nil {
		logging.Warn("HostCall", "%s: %s: %s", pluginName, fnName, err)
		return nil, err
	}
	return handler(ctx, svc, input)
}
