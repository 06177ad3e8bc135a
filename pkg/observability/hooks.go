// Package observability provides hooks for metrics and tracing.
//
// The pipeline, the cache paths of the runner and the HTTP server report
// events through the registered hooks without knowing the backend. Nothing is
// recorded until a binary registers an implementation:
//
//	stats := observability.NewCounters()
//	observability.Register(observability.Hooks{
//	    Pipeline: stats,
//	    Cache:    stats,
//	    Server:   stats,
//	})
//
// Emitting an event:
//
//	observability.Pipeline().OnPlacementStart(ctx, test, seed)
//	set, err := placement.Generate(ctx, sampler, opts)
//	observability.Pipeline().OnPlacementComplete(ctx, test, set.Attempts, time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from scene generation.
type PipelineHooks interface {
	// Placement events, one pair per test scene.
	OnPlacementStart(ctx context.Context, test int, seed uint64)
	OnPlacementComplete(ctx context.Context, test int, attempts int, duration time.Duration, err error)

	// Render events, one pair per camera angle.
	OnRenderStart(ctx context.Context, test, angle int)
	OnRenderComplete(ctx context.Context, test, angle int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. kind names the cached
// artifact ("placement", "preview").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// ServerHooks receives events from the HTTP API. route is the chi route
// pattern when one matched, the raw path otherwise.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPlacementStart(context.Context, int, uint64)                       {}
func (NoopPipelineHooks) OnPlacementComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, int, int)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, int, int, time.Duration, error)    {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores every server event.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// Hooks bundles one implementation per event family. Nil fields keep the
// currently registered implementation.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	Server   ServerHooks
}

func noopHooks() *Hooks {
	return &Hooks{Pipeline: NoopPipelineHooks{}, Cache: NoopCacheHooks{}, Server: NoopServerHooks{}}
}

// registry holds an immutable *Hooks; registration swaps in a modified copy.
var registry atomic.Pointer[Hooks]

func init() { registry.Store(noopHooks()) }

// Register installs the non-nil fields of h.
func Register(h Hooks) {
	for {
		old := registry.Load()
		next := *old
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.Server != nil {
			next.Server = h.Server
		}
		if registry.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { Register(Hooks{Pipeline: h}) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { Register(Hooks{Cache: h}) }

// SetServerHooks registers server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) { Register(Hooks{Server: h}) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return registry.Load().Pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return registry.Load().Cache }

// Server returns the registered server hooks.
func Server() ServerHooks { return registry.Load().Server }

// Reset restores the no-op hooks.
func Reset() { registry.Store(noopHooks()) }
