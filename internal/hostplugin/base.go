package hostplugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	extism "github.com/extism/go-sdk"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/pkg/logging"
)

// cancelWindow bounds how long invoke waits for a cancelled call's
// goroutine to unwind before giving up and reporting ErrCancelled
// anyway. The extism runtime's own cancellation (via ext.Cancel) is
// asynchronous from the caller's point of view.
const cancelWindow = 250 * time.Millisecond

// base holds the state and invocation machinery shared by pluginV1 and
// pluginV2. The underlying extism runtime is synchronous and
// single-threaded per instance, so calls are serialized by mu.
type base struct {
	name config.PluginName
	ext  *extism.Plugin
	mu   sync.Mutex
}

func (b *base) Name() config.PluginName { return b.name }

func (b *base) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ext.Close(context.Background())
}

// invoke calls funcName on the Wasm instance with payload, offloading
// the blocking extism call to a goroutine so ctx cancellation can be
// honored. If ctx is cancelled before the call finishes, invoke asks
// extism to cancel the in-flight call and waits at most cancelWindow for
// the goroutine to actually return before surfacing ErrCancelled. If the
// call has not returned by then, mu stays held until it does, so the
// next call never overlaps it. A panic in the call is returned as an
// error.
func (b *base) invoke(ctx context.Context, funcName string, payload []byte) ([]byte, error) {
	b.mu.Lock()
	release := true
	defer func() {
		if release {
			b.mu.Unlock()
		}
	}()

	type result struct {
		out  []byte
		code uint32
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		code, out, err := b.ext.Call(funcName, payload)
		done <- result{out: out, code: code, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("hostplugin: %s.%s: %w", b.name, funcName, r.err)
		}
		if r.code != 0 {
			return nil, fmt.Errorf("hostplugin: %s.%s: exit code %d", b.name, funcName, r.code)
		}
		return r.out, nil
	case <-ctx.Done():
		b.ext.Cancel()
		select {
		case <-done:
			return nil, ErrCancelled
		case <-time.After(cancelWindow):
			logging.Warn("HostPlugin", "%s.%s did not unwind within %s of cancellation", b.name, funcName, cancelWindow)
			release = false
			go func() {
				<-done
				b.mu.Unlock()
			}()
			return nil, ErrCancelled
		}
	}
}

// functionExists reports whether the Wasm module exports funcName,
// without acquiring mu (safe to call between invocations; extism's
// FunctionExists does not touch instance memory).
func (b *base) functionExists(funcName string) bool {
	return b.ext.FunctionExists(funcName)
}
