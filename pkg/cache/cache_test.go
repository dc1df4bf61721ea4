package cache

import (
	"context"
	"errors"
	"fmt"
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

	// DatasetKey should include options in hash
	dk1 := k.DatasetKey("hash123", DatasetKeyOpts{Format: "json"})
	dk2 := k.DatasetKey("hash123", DatasetKeyOpts{Format: "bson"})
	if dk1 == dk2 {
		t.Error("Different DatasetKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(dk1, "dataset:v1:") {
		t.Errorf("DatasetKey unexpected prefix: %s", dk1)
	}

	// LayoutKey
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Engine: "layered", Direction: "LR"})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Engine: "layered", Direction: "TB"})
	lk3 := k.LayoutKey("hash456", LayoutKeyOpts{Engine: "layered", Direction: "LR"})
	if lk1 == lk2 || lk1 == lk3 {
		t.Error("Different layout inputs should produce different keys")
	}
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{Engine: "layered", Direction: "LR"}) {
		t.Error("LayoutKey should be deterministic")
	}
	if lk1 == dk1 {
		t.Error("Layout and dataset keys should not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	tests := []struct {
		name      string
		namespace string
		prefix    string
	}{
		{"plain", "billing", "billing:"},
		{"separator kept", "billing:", "billing:"},
		{"nested", "acme:billing", "acme:billing:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scoped := NewScopedKeyer(inner, tt.namespace)
			want := tt.prefix + inner.LayoutKey("h", LayoutKeyOpts{Engine: "dot"})
			if got := scoped.LayoutKey("h", LayoutKeyOpts{Engine: "dot"}); got != want {
				t.Errorf("LayoutKey = %s, want %s", got, want)
			}
			if got := scoped.DatasetKey("h", DatasetKeyOpts{}); !strings.HasPrefix(got, tt.prefix+"dataset:") {
				t.Errorf("DatasetKey = %s, want prefix %sdataset:", got, tt.prefix)
			}
		})
	}
}

func TestScopedKeyerDefaults(t *testing.T) {
	if _, ok := NewScopedKeyer(nil, "").(DefaultKeyer); !ok {
		t.Error("empty namespace should return the inner keyer")
	}
	scoped := NewScopedKeyer(nil, "billing")
	if key := scoped.DatasetKey("h", DatasetKeyOpts{}); key != "billing:"+NewDefaultKeyer().DatasetKey("h", DatasetKeyOpts{}) {
		t.Errorf("unexpected key with nil inner: %s", key)
	}
	if ns := scoped.(*ScopedKeyer).Namespace(); ns != "billing:" {
		t.Errorf("Namespace() = %q", ns)
	}
}

func TestScopedKeyerSeparatesNamespaces(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()

	billing := NewScopedKeyer(nil, "billing")
	shop := NewScopedKeyer(nil, "shop")
	opts := DatasetKeyOpts{Format: "json"}

	if err := c.Set(ctx, billing.DatasetKey("same", opts), []byte("billing"), time.Hour); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, shop.DatasetKey("same", opts)); ok {
		t.Error("entry leaked across namespaces")
	}
	got, ok, err := c.Get(ctx, billing.DatasetKey("same", opts))
	if err != nil || !ok || string(got) != "billing" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
}

// exerciseCache runs the behavior every backend shares.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get(key) = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "key", []byte("newer"), 0); err != nil {
		t.Fatalf("Set overwrite error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "key"); string(data) != "newer" {
		t.Errorf("Get after overwrite = %q, want newer", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}

	if cl, ok := c.(Clearer); ok {
		_ = c.Set(ctx, "a", []byte("1"), 0)
		_ = c.Set(ctx, "b", []byte("2"), 0)
		if err := cl.Clear(ctx); err != nil {
			t.Fatalf("Clear error: %v", err)
		}
		for _, k := range []string{"a", "b"} {
			if _, hit, _ := c.Get(ctx, k); hit {
				t.Errorf("Get(%s) after Clear should miss", k)
			}
		}
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheExpired(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	if err := c.Set(ctx, "key", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	path := c.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestSQLiteCache(t *testing.T) {
	c, err := NewSQLiteCache(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestSQLiteCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(ctx, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCache error: %v", err)
	}
	defer c.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "short", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}

	_ = c.Set(ctx, "short2", []byte("z"), time.Second)
	now = now.Add(time.Hour)
	if err := c.Prune(ctx); err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n, err := c.Len(ctx); err != nil || n != 1 {
		t.Errorf("Len after Prune = %d, %v, want 1", n, err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("NewRedisCache should reject an invalid url")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("SCHEMAGRAPH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SCHEMAGRAPH_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	c.prefix = "schemagraph-test:" + t.Name() + ":"
	exerciseCache(t, c)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Backend: BackendFile, Dir: t.TempDir()}, "*cache.FileCache"},
		{Config{Dir: t.TempDir()}, "*cache.FileCache"},
		{Config{Backend: BackendSQLite, SQLitePath: ":memory:"}, "*cache.SQLiteCache"},
		{Config{Backend: BackendNone}, "*cache.NullCache"},
	}
	for _, tt := range tests {
		c, err := Open(ctx, tt.cfg)
		if err != nil {
			t.Errorf("Open(%+v) error: %v", tt.cfg, err)
			continue
		}
		if got := fmt.Sprintf("%T", c); got != tt.want {
			t.Errorf("Open(%+v) = %s, want %s", tt.cfg, got, tt.want)
		}
		c.Close()
	}

	if _, err := Open(ctx, Config{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(memcached) error = %v, want ErrUnknownBackend", err)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrUnknownBackend) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrUnknownBackend
	})
	if err != ErrUnknownBackend {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
