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

	"github.com/redis/go-redis/v9"

	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	data := []byte("report")
	if err := c.Set(ctx, "k", data, 0); err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'

	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v", hit, err)
	}
	if string(got) != "report" {
		t.Errorf("Get = %q, stored value should be a copy", got)
	}

	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(WithSweepInterval(0))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, expired entry should be evicted", c.Len())
	}
}

func TestMemoryCacheSweep(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(WithSweepInterval(0))
	defer c.Close()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		_ = c.Set(ctx, fmt.Sprintf("short-%d", i), []byte("v"), time.Minute)
	}
	_ = c.Set(ctx, "long", []byte("v"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("v"), 0)

	now = now.Add(2 * time.Minute)
	if n := c.Sweep(); n != 5 {
		t.Errorf("Sweep() = %d, want 5", n)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestMemoryCacheMaxEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		advance time.Duration
		evicted string
	}{
		{"evicts soonest expiry", 0, "soon"},
		{"sweeps expired first", 2 * time.Minute, "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMemoryCache(WithMaxEntries(3), WithSweepInterval(0))
			defer c.Close()
			clock := now
			c.now = func() time.Time { return clock }

			_ = c.Set(ctx, "forever", []byte("v"), 0)
			_ = c.Set(ctx, "soon", []byte("v"), time.Minute)
			_ = c.Set(ctx, "later", []byte("v"), time.Hour)
			clock = clock.Add(tt.advance)

			_ = c.Set(ctx, "later", []byte("v2"), time.Hour)
			if c.Len() != 3 {
				t.Fatalf("overwrite changed Len to %d", c.Len())
			}

			_ = c.Set(ctx, "new", []byte("v"), time.Hour)
			if c.Len() != 3 {
				t.Errorf("Len = %d, want cap 3", c.Len())
			}
			if _, hit, _ := c.Get(ctx, tt.evicted); hit {
				t.Errorf("%q should have been evicted", tt.evicted)
			}
			for _, key := range []string{"forever", "later", "new"} {
				if _, hit, _ := c.Get(ctx, key); !hit {
					t.Errorf("%q should be kept", key)
				}
			}
		})
	}
}

func TestMemoryCacheSweepLoop(t *testing.T) {
	c := NewMemoryCache(WithSweepInterval(10 * time.Millisecond))
	defer c.Close()

	_ = c.Set(context.Background(), "k", []byte("v"), time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("background sweep did not purge the expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := c.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("missing key: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "a", []byte("alpha"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "b", []byte("beta"), 0); err != nil {
		t.Fatal(err)
	}

	got, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(got) != "alpha" {
		t.Errorf("Get(a) = %q, %v, %v", got, hit, err)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d, want 2", n)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("cleared entry should miss")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear should keep the root: %v", err)
	}
}

func TestFileCacheExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := os.MkdirAll(filepath.Dir(c.path("bad")), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("bad"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	r1 := k.ReportKey("study-1", ReportKeyOpts{Format: "pdf", SlotsPerPage: 2})
	r2 := k.ReportKey("study-1", ReportKeyOpts{Format: "svg", SlotsPerPage: 2})
	r3 := k.ReportKey("study-2", ReportKeyOpts{Format: "pdf", SlotsPerPage: 2})
	if r1 == r2 || r1 == r3 {
		t.Error("different studies or options should produce different keys")
	}
	if !strings.HasPrefix(r1, "report:study-1:") {
		t.Errorf("ReportKey = %s", r1)
	}
	if r1 != k.ReportKey("study-1", ReportKeyOpts{Format: "pdf", SlotsPerPage: 2}) {
		t.Error("ReportKey should be deterministic")
	}

	a := k.RecommendationKey("cat", 3, 1.2, 2.8)
	b := k.RecommendationKey("cat", 3, 1.2, 2.7)
	if a == b {
		t.Error("different ceilings should produce different keys")
	}
	if a == k.RecommendationKey("other", 3, 1.2, 2.8) {
		t.Error("different catalogs should produce different keys")
	}
	if !strings.HasPrefix(a, "recommendation:") {
		t.Errorf("RecommendationKey = %s", a)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "acme:")
	inner := NewDefaultKeyer()

	opts := ReportKeyOpts{Format: "pdf"}
	if got, want := scoped.ReportKey("s", opts), "acme:"+inner.ReportKey("s", opts); got != want {
		t.Errorf("ReportKey = %s, want %s", got, want)
	}
	if got := scoped.RecommendationKey("cat", 2, 1, 3); !strings.HasPrefix(got, "acme:recommendation:") {
		t.Errorf("RecommendationKey = %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.RecommendationKey("cat", 2, 1, 3); !strings.HasPrefix(got, "prefix:recommendation:") {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestFetch(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)

	ctx := context.Background()
	c := NewMemoryCache()
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("pdf-bytes"), nil
	}

	data, hit, err := Fetch(ctx, c, KeyTypeReport, "k", time.Hour, compute)
	if err != nil || hit || string(data) != "pdf-bytes" {
		t.Fatalf("first Fetch = %q, %v, %v", data, hit, err)
	}
	data, hit, err = Fetch(ctx, c, KeyTypeReport, "k", time.Hour, compute)
	if err != nil || !hit || string(data) != "pdf-bytes" {
		t.Fatalf("second Fetch = %q, %v, %v", data, hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestFetchComputeError(t *testing.T) {
	boom := errors.New("boom")
	c := NewMemoryCache()
	_, _, err := Fetch(context.Background(), c, KeyTypeReport, "k", 0, func() ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Error("failed compute should not be stored")
	}
}

type countingHooks struct {
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	ctx := context.Background()
	permanent := errors.New("permanent")

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return permanent })
	if err != permanent || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("NewRedisCache error = %v, want ErrUnavailable", err)
	}
}

func TestRedisCacheGetError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client)
	defer c.Close()

	_, hit, err := c.Get(context.Background(), "key")
	if err == nil {
		t.Fatal("Get on an unreachable server should fail")
	}
	if hit {
		t.Error("failed Get should not report a hit")
	}
}

func TestCatalogHash(t *testing.T) {
	entries := []catalog.SizeEntry{
		{SizeInches: 55, DiagonalInches: 55, Distance4H: 2.7, Distance6H: 4.1, Distance8H: 5.5},
		{SizeInches: 65, DiagonalInches: 65, Distance4H: 3.2, Distance6H: 4.9, Distance8H: 6.5},
	}
	a, err := catalog.New(entries)
	if err != nil {
		t.Fatal(err)
	}
	same, _ := catalog.New(entries)
	edited := append([]catalog.SizeEntry(nil), entries...)
	edited[1].Distance4H = 3.3
	b, _ := catalog.New(edited)

	if CatalogHash(a) != CatalogHash(same) {
		t.Error("equal catalogs should hash the same")
	}
	if CatalogHash(a) == CatalogHash(b) {
		t.Error("edited catalog should change the hash")
	}
	if len(CatalogHash(a)) != 64 {
		t.Errorf("hash length = %d, want 64", len(CatalogHash(a)))
	}
}
