// Package observability lets an application watch circuit loads, renders,
// viewer redraws, cache traffic, and backend requests.
//
// Each event category has a hook interface and a no-op implementation.
// The application registers a [Hooks] set once at startup; library packages
// only call the getters.
//
//	observability.Register(observability.Hooks{
//	    Pipeline: myPipelineHooks{},
//	    Viewer:   myViewerHooks{},
//	})
//
// Libraries emit events:
//
//	observability.Pipeline().OnLoadStart(ctx, "linear", 2)
//	// ... fetch or generate ...
//	observability.Pipeline().OnLoadComplete(ctx, "remote", gateCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load -> layout -> render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, topology string, reps int)
	OnLoadComplete(ctx context.Context, origin string, gateCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutComplete(ctx context.Context, gateCount int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Viewer Hooks
// =============================================================================

// ViewerHooks receives events from interactive viewer controllers.
type ViewerHooks interface {
	// OnRedraw records a full-frame redraw and why it happened
	// ("load", "resize", "hover", "leave").
	OnRedraw(reason string, duration time.Duration)

	// OnStaleResponse records a load response discarded because a newer
	// request had been issued.
	OnStaleResponse(seq, latest uint64)

	// OnHover records a change of the hovered gate. index is -1 and gate
	// empty when the pointer left every gate.
	OnHover(index int, gate string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// No-op hook implementations, installed by default and by [Reset].
type (
	NoopPipelineHooks struct{}
	NoopViewerHooks   struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopPipelineHooks) OnLoadStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration)              {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

func (NoopViewerHooks) OnRedraw(string, time.Duration) {}
func (NoopViewerHooks) OnStaleResponse(uint64, uint64) {}
func (NoopViewerHooks) OnHover(int, string)            {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// Hooks is a set of hook implementations. Nil fields keep whatever is
// currently registered for that category.
type Hooks struct {
	Pipeline PipelineHooks
	Viewer   ViewerHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func noopHooks() Hooks {
	return Hooks{
		Pipeline: NoopPipelineHooks{},
		Viewer:   NoopViewerHooks{},
		Cache:    NoopCacheHooks{},
		HTTP:     NoopHTTPHooks{},
	}
}

var (
	hooksMu sync.RWMutex
	current = noopHooks()
)

// Register installs the non-nil hooks of h. Call it at startup, before
// loads or renders begin.
func Register(h Hooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h.Pipeline != nil {
		current.Pipeline = h.Pipeline
	}
	if h.Viewer != nil {
		current.Viewer = h.Viewer
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
	if h.HTTP != nil {
		current.HTTP = h.HTTP
	}
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	current = noopHooks()
}

func registered() Hooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return current
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return registered().Pipeline }

// Viewer returns the registered viewer hooks.
func Viewer() ViewerHooks { return registered().Viewer }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return registered().Cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return registered().HTTP }
