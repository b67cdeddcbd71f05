package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	// Miss on empty cache
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("empty cache should miss")
	}

	// Round-trip
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want %q", data, "value")
	}

	// Stored data is a copy
	original := []byte("mutate")
	if err := c.Set(ctx, "copy", original, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	original[0] = 'X'
	data, _, _ = c.Get(ctx, "copy")
	if string(data) != "mutate" {
		t.Errorf("cache should store a copy, got %q", data)
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("expected miss after Delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}

	// Zero TTL means no expiry
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "forever")
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss on empty cache
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("empty cache should miss")
	}

	// Round-trip
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want %q", data, "value")
	}

	// Delete, including a missing key
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key should not error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("expected miss after Delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Corrupt the entry on disk
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("key"), []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should be treated as miss")
	}
	if _, statErr := os.Stat(fc.path("key")); !os.IsNotExist(statErr) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheSharding(t *testing.T) {
	fc := &FileCache{dir: "/cache"}
	path := fc.path("some-key")

	rel, err := filepath.Rel("/cache", path)
	if err != nil {
		t.Fatalf("Rel error: %v", err)
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 {
		t.Fatalf("path should have one subdirectory level, got %q", rel)
	}
	if len(parts[0]) != 2 {
		t.Errorf("subdirectory should be 2 chars, got %q", parts[0])
	}
	if !strings.HasSuffix(parts[1], ".json") {
		t.Errorf("entry filename should end in .json, got %q", parts[1])
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := BundleKeyOpts{K: 0.1, Electrostatic: 1.0, Cycles: 6, Threshold: 0.6,
		Iterations: 90, StepSize: 0.1, InitialPoints: 1, IterationDecay: 2.0 / 3.0}

	// Deterministic
	k1 := k.BundleKey("abc", opts)
	k2 := k.BundleKey("abc", opts)
	if k1 != k2 {
		t.Error("BundleKey should be deterministic")
	}

	// Input hash matters
	if k.BundleKey("abc", opts) == k.BundleKey("def", opts) {
		t.Error("different edge hashes should produce different keys")
	}

	// Options matter
	changed := opts
	changed.Threshold = 0.9
	if k.BundleKey("abc", opts) == k.BundleKey("abc", changed) {
		t.Error("different options should produce different keys")
	}

	// Prefixes separate key kinds
	if !strings.HasPrefix(k1, "bundle:") {
		t.Errorf("BundleKey should have bundle: prefix, got %q", k1)
	}
	mk := k.MatrixKey("abc", 0.6)
	if !strings.HasPrefix(mk, "matrix:") {
		t.Errorf("MatrixKey should have matrix: prefix, got %q", mk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:42:")

	opts := BundleKeyOpts{Cycles: 6}
	if got, want := scoped.BundleKey("abc", opts), "tenant:42:"+inner.BundleKey("abc", opts); got != want {
		t.Errorf("BundleKey = %q, want %q", got, want)
	}
	if got, want := scoped.MatrixKey("abc", 0.6), "tenant:42:"+inner.MatrixKey("abc", 0.6); got != want {
		t.Errorf("MatrixKey = %q, want %q", got, want)
	}

	// Nil inner falls back to the default keyer
	fallback := NewScopedKeyer(nil, "p:")
	if got, want := fallback.MatrixKey("abc", 0.6), "p:"+inner.MatrixKey("abc", 0.6); got != want {
		t.Errorf("MatrixKey = %q, want %q", got, want)
	}
}
