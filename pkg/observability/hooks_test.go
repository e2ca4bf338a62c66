package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, 1, 5)
	p.OnGenerateComplete(ctx, 1, 5, time.Second, nil)
	p.OnEnumerateStart(ctx, 5)
	p.OnEnumerateComplete(ctx, 5, 420, time.Second, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tiles")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/tiling.{format}")
	h.OnResponse(ctx, "GET", "/tiling.{format}", 200, time.Second)
	h.OnError(ctx, "GET", "/tiling.{format}", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnCacheHit(ctx, "tiles")
	h.OnCacheHit(ctx, "tiles")
	h.OnCacheMiss(ctx, "artifact")
	h.OnCacheSet(ctx, "artifact", 512)

	if got := testutil.ToFloat64(h.cacheOps.WithLabelValues("tiles", "hit")); got != 2 {
		t.Errorf("tiles hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.cacheOps.WithLabelValues("artifact", "miss")); got != 1 {
		t.Errorf("artifact misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.cacheBytes.WithLabelValues("artifact")); got != 512 {
		t.Errorf("written bytes = %v, want 512", got)
	}

	h.OnRenderComplete(ctx, "png", 100, time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(h.stageErrors.WithLabelValues("render")); got != 1 {
		t.Errorf("render errors = %v, want 1", got)
	}

	h.OnRequest(ctx, "GET", "/healthz")
	if got := testutil.ToFloat64(h.httpInflight); got != 1 {
		t.Errorf("inflight = %v, want 1", got)
	}
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(h.httpInflight); got != 0 {
		t.Errorf("inflight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(h.httpRequests.WithLabelValues("GET", "/healthz", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestPrometheusHooksDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice should panic")
		}
	}()
	NewPrometheusHooks(reg)
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
