package observability

import (
	"context"
	"testing"
	"time"
)

type countingPipelineHooks struct {
	NoopPipelineHooks
	parses int
}

func (h *countingPipelineHooks) OnParseStart(context.Context, string) { h.parses++ }

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestDefaultsAreNoops(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic without any registration.
	Pipeline().OnParseStart(ctx, "native")
	Pipeline().OnParseComplete(ctx, "native", 3, time.Millisecond, nil)
	Pipeline().OnLayoutStart(ctx, "flow", 3)
	Pipeline().OnLayoutComplete(ctx, "flow", time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, "svg")
	Pipeline().OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "doc")
	Cache().OnCacheMiss(ctx, "doc")
	Cache().OnCacheSet(ctx, "doc", 128)
}

func TestSetAndResetHooks(t *testing.T) {
	defer Reset()

	ph := &countingPipelineHooks{}
	ch := &countingCacheHooks{}
	SetPipelineHooks(ph)
	SetCacheHooks(ch)

	ctx := context.Background()
	Pipeline().OnParseStart(ctx, "native")
	Pipeline().OnParseStart(ctx, "mermaid")
	Cache().OnCacheHit(ctx, "layout")

	if ph.parses != 2 {
		t.Errorf("parse events = %d, want 2", ph.parses)
	}
	if ch.hits != 1 {
		t.Errorf("cache hits = %d, want 1", ch.hits)
	}

	Reset()
	Pipeline().OnParseStart(ctx, "native")
	if ph.parses != 2 {
		t.Error("reset should detach custom hooks")
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()
	Reset()

	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("nil registration should keep the no-op hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("nil registration should keep the no-op hooks")
	}
}
