package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters is an in-process implementation of every hook interface. It keeps
// running totals that a caller can read with Snapshot.
type Counters struct {
	placements       atomic.Int64
	placementsFailed atomic.Int64
	attempts         atomic.Int64
	placementNanos   atomic.Int64
	renders          atomic.Int64
	rendersFailed    atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
	cacheBytes       atomic.Int64
	requests         atomic.Int64
	serverErrors     atomic.Int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters { return &Counters{} }

// Stats is a point-in-time copy of Counters.
type Stats struct {
	Placements       int64         `json:"placements"`
	PlacementsFailed int64         `json:"placements_failed"`
	Attempts         int64         `json:"attempts"`
	PlacementTime    time.Duration `json:"placement_time_ns"`
	Renders          int64         `json:"renders"`
	RendersFailed    int64         `json:"renders_failed"`
	CacheHits        int64         `json:"cache_hits"`
	CacheMisses      int64         `json:"cache_misses"`
	CacheBytes       int64         `json:"cache_bytes"`
	Requests         int64         `json:"requests"`
	ServerErrors     int64         `json:"server_errors"`
}

// HitRate returns the fraction of cache lookups that hit, or 0 before any.
func (s Stats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// Snapshot reads the current totals. Fields are loaded one at a time, so a
// snapshot taken under load may mix events from neighbouring instants.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Placements:       c.placements.Load(),
		PlacementsFailed: c.placementsFailed.Load(),
		Attempts:         c.attempts.Load(),
		PlacementTime:    time.Duration(c.placementNanos.Load()),
		Renders:          c.renders.Load(),
		RendersFailed:    c.rendersFailed.Load(),
		CacheHits:        c.cacheHits.Load(),
		CacheMisses:      c.cacheMisses.Load(),
		CacheBytes:       c.cacheBytes.Load(),
		Requests:         c.requests.Load(),
		ServerErrors:     c.serverErrors.Load(),
	}
}

func (c *Counters) OnPlacementStart(context.Context, int, uint64) {}

func (c *Counters) OnPlacementComplete(_ context.Context, _ int, attempts int, d time.Duration, err error) {
	c.placements.Add(1)
	c.attempts.Add(int64(attempts))
	c.placementNanos.Add(int64(d))
	if err != nil {
		c.placementsFailed.Add(1)
	}
}

func (c *Counters) OnRenderStart(context.Context, int, int) {}

func (c *Counters) OnRenderComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.rendersFailed.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) { c.cacheBytes.Add(int64(size)) }

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.serverErrors.Add(1)
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ ServerHooks   = (*Counters)(nil)
)
