package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	h := noopHooks()

	h.Pipeline.OnLoadStart(ctx, "linear", 2)
	h.Pipeline.OnLoadComplete(ctx, "synthetic", 30, time.Second, nil)
	h.Pipeline.OnLayoutComplete(ctx, 30, time.Millisecond)
	h.Pipeline.OnRenderStart(ctx, []string{"svg"})
	h.Pipeline.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	h.Viewer.OnRedraw("hover", time.Millisecond)
	h.Viewer.OnStaleResponse(1, 2)
	h.Viewer.OnHover(3, "cx")

	h.Cache.OnCacheHit(ctx, "artifact")
	h.Cache.OnCacheMiss(ctx, "artifact")
	h.Cache.OnCacheSet(ctx, "artifact", 1024)

	h.HTTP.OnRequest(ctx, "GET", "localhost:8001", "/circuit-interactive")
	h.HTTP.OnResponse(ctx, "GET", "localhost:8001", "/circuit-interactive", 200, time.Second)
	h.HTTP.OnError(ctx, "GET", "localhost:8001", "/circuit-interactive", nil)
}

type recordingViewer struct {
	NoopViewerHooks
	hovers []int
}

func (r *recordingViewer) OnHover(index int, _ string) { r.hovers = append(r.hovers, index) }

type countingCache struct {
	NoopCacheHooks
	hits int
}

func (c *countingCache) OnCacheHit(context.Context, string) { c.hits++ }

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	viewer := &recordingViewer{}
	Register(Hooks{Viewer: viewer})

	if Viewer() != viewer {
		t.Fatal("Viewer() did not return the registered hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("unregistered category should stay no-op")
	}

	Viewer().OnHover(2, "h")
	Viewer().OnHover(-1, "")
	if len(viewer.hovers) != 2 || viewer.hovers[0] != 2 || viewer.hovers[1] != -1 {
		t.Errorf("hovers = %v", viewer.hovers)
	}

	// A later Register with other categories keeps the viewer hooks.
	cache := &countingCache{}
	Register(Hooks{Cache: cache})
	Cache().OnCacheHit(context.Background(), "artifact")
	if cache.hits != 1 {
		t.Errorf("hits = %d, want 1", cache.hits)
	}
	if Viewer() != viewer {
		t.Error("Register with nil Viewer replaced the viewer hooks")
	}
}

func TestReset(t *testing.T) {
	Register(Hooks{
		Pipeline: NoopPipelineHooks{},
		Viewer:   &recordingViewer{},
		HTTP:     NoopHTTPHooks{},
	})
	Reset()

	if _, ok := Viewer().(NoopViewerHooks); !ok {
		t.Errorf("Viewer() after Reset = %T", Viewer())
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() after Reset = %T", Pipeline())
	}
}
