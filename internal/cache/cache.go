package cache

import (
	"context"
	"time"

	"worksearch.app/aggregator/internal/model"
)

// Entry is one memoized search result.
type Entry struct {
	Records   []model.Record `json:"records"`
	Warnings  []string       `json:"warnings,omitempty"`
	FetchedAt time.Time      `json:"fetched_at"`

	// Degraded entries were produced while an upstream was failing and are
	// returned to the caller but never stored.
	Degraded bool `json:"-"`
}

// Store persists entries under opaque keys until their TTL elapses.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Key identifies a search by its exact term and scope.
func Key(term string, scope model.Scope) string {
	return string(scope) + ":" + term
}
