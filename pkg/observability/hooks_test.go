package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Bundle hooks
	b := NoopBundleHooks{}
	b.OnBundleStart(ctx, 100)
	b.OnCycleComplete(ctx, 0, 90, time.Second)
	b.OnBundleComplete(ctx, 100, 3300, time.Second, nil)
	b.OnMatrixStart(ctx, 100)
	b.OnMatrixComplete(ctx, 100, 420, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "bundle")
	c.OnCacheMiss(ctx, "matrix")
	c.OnCacheSet(ctx, "bundle", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/bundle")
	h.OnResponse(ctx, "POST", "/v1/bundle", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/bundle", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Bundle().(NoopBundleHooks); !ok {
		t.Error("Bundle() should return NoopBundleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customBundle := &testBundleHooks{}
	SetBundleHooks(customBundle)
	if Bundle() != customBundle {
		t.Error("SetBundleHooks should set custom hooks")
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

	// Reset and verify
	Reset()
	if _, ok := Bundle().(NoopBundleHooks); !ok {
		t.Error("Reset() should restore NoopBundleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBundleHooks{}
	SetBundleHooks(custom)

	// Setting nil should be ignored
	SetBundleHooks(nil)

	if Bundle() != custom {
		t.Error("SetBundleHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testBundleHooks struct{ NoopBundleHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
