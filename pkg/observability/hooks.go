// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about report
// generation, cache operations and HTTP requests without the libraries
// depending on a specific metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetReportHooks(&myReportHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Report().OnRecommend(ctx, distance, sizes)
//	observability.Report().OnRenderComplete(ctx, "pdf", len(data), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Report Hooks
// =============================================================================

// ReportHooks receives events from report assembly.
type ReportHooks interface {
	// OnRecommend records the recommended sizes for a viewing distance,
	// in regime order 4H, 6H, 8H.
	OnRecommend(ctx context.Context, distanceM float64, sizes []int)

	// OnLayout records one laid-out elevation diagram.
	OnLayout(ctx context.Context, regime string, fitsCeiling, clipped bool)

	// OnRenderComplete records a finished render in the given format.
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
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

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnRateLimited records a request rejected by the rate limiter.
	OnRateLimited(ctx context.Context, client string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopReportHooks is a no-op implementation of ReportHooks.
type NoopReportHooks struct{}

func (NoopReportHooks) OnRecommend(context.Context, float64, []int)                         {}
func (NoopReportHooks) OnLayout(context.Context, string, bool, bool)                        {}
func (NoopReportHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnRateLimited(context.Context, string)                          {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	reportHooks ReportHooks = NoopReportHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetReportHooks registers custom report hooks.
// This should be called once at application startup.
func SetReportHooks(h ReportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reportHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Report returns the registered report hooks.
func Report() ReportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reportHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	reportHooks = NoopReportHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
