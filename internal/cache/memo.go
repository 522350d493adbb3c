package cache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"worksearch.app/aggregator/internal/metrics"
)

// DefaultTTL matches how long a search result stays reusable.
const DefaultTTL = 30 * time.Minute

// Memo reuses entries from a Store and collapses concurrent recomputations
// of the same key into one call.
type Memo struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func NewMemo(store Store, ttl time.Duration, logger *slog.Logger) *Memo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Memo{store: store, ttl: ttl, logger: logger}
}

// Do returns the stored entry for key, or computes, stores and returns a new
// one. hit reports whether the entry came from the store. Store failures
// degrade to a recompute and are only logged.
//
// Concurrent callers for one key share a single compute. The compute runs
// detached from any caller's cancellation; a caller whose ctx ends stops
// waiting and gets ctx.Err() while the others still receive the result.
func (m *Memo) Do(ctx context.Context, key string, compute func(ctx context.Context) (Entry, error)) (entry Entry, hit bool, err error) {
	if cached, ok := m.lookup(ctx, key); ok {
		metrics.CacheLookup(metrics.CacheHit)
		return cached, true, nil
	}
	metrics.CacheLookup(metrics.CacheMiss)

	computeCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		fresh, err := compute(computeCtx)
		if err != nil {
			return Entry{}, err
		}
		if fresh.Degraded {
			m.logger.InfoContext(computeCtx, "not caching degraded search result", "key", key)
			return fresh, nil
		}
		if err := m.store.Set(computeCtx, key, fresh, m.ttl); err != nil {
			m.logger.WarnContext(computeCtx, "failed to store search result", "key", key, "error", err)
		}
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return Entry{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Entry{}, false, res.Err
		}
		return res.Val.(Entry), false, nil
	}
}

func (m *Memo) lookup(ctx context.Context, key string) (Entry, bool) {
	entry, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.WarnContext(ctx, "cache lookup failed, recomputing", "key", key, "error", err)
		return Entry{}, false
	}
	return entry, ok
}

// Forget drops one key.
func (m *Memo) Forget(ctx context.Context, key string) error {
	m.group.Forget(key)
	return m.store.Delete(ctx, key)
}

// Clear drops every stored entry.
func (m *Memo) Clear(ctx context.Context) error {
	return m.store.Clear(ctx)
}
