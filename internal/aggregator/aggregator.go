package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"worksearch.app/aggregator/common/id"
	"worksearch.app/aggregator/common/logger"
	"worksearch.app/aggregator/internal/cache"
	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/retriever"
	"worksearch.app/aggregator/internal/retriever/messaging"
)

// ErrPlatformNotConfigured is returned when a search is scoped to a platform
// that has no retriever.
var ErrPlatformNotConfigured = errors.New("platform is not configured")

// Result is one aggregated search. Records hold tracker records first, then
// messaging records, each in upstream order.
type Result struct {
	Records   []model.Record
	Warnings  []string
	FromCache bool
	FetchedAt time.Time
}

type Engine struct {
	tracker   retriever.Retriever
	messaging retriever.Retriever
	memo      *cache.Memo
	logger    *slog.Logger
	now       func() time.Time
}

// New builds an Engine. Either retriever may be nil when its platform is not
// configured; searches in "all" scope then carry a warning instead.
func New(trackerSource, messagingSource retriever.Retriever, memo *cache.Memo, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if memo == nil {
		memo = cache.NewMemo(cache.NewMemoryStore(), cache.DefaultTTL, log)
	}
	return &Engine{
		tracker:   trackerSource,
		messaging: messagingSource,
		memo:      memo,
		logger:    log,
		now:       time.Now,
	}
}

// Get returns the records matching term on the platforms in scope, reusing
// a memoized result for the same (term, scope) while it is fresh.
//
// Upstream failures are reported as warnings. The only errors are a
// non-hashtag term in messaging scope (messaging.ErrHashtagRequired) and a
// scope naming an unconfigured platform, plus ctx.Err() when ctx ends first.
func (e *Engine) Get(ctx context.Context, term string, scope model.Scope) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SearchID:   logger.Ptr(id.New()),
		SearchTerm: logger.Ptr(term),
		Scope:      logger.Ptr(string(scope)),
		Component:  "worksearch.aggregator",
	})
	sc := logger.StartSpan(ctx, "aggregator.get",
		attribute.String("search.term", term),
		attribute.String("search.scope", string(scope)))
	defer sc.End()
	ctx = sc.Context()

	entry, hit, err := e.memo.Do(ctx, cache.Key(term, scope), func(ctx context.Context) (cache.Entry, error) {
		return e.collect(ctx, term, scope)
	})
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}

	sc.SetAttributes(
		attribute.Bool("search.from_cache", hit),
		attribute.Int("search.records", len(entry.Records)),
	)
	e.logger.InfoContext(ctx, "search completed",
		"records", len(entry.Records), "warnings", len(entry.Warnings), "from_cache", hit)

	return &Result{
		Records:   entry.Records,
		Warnings:  entry.Warnings,
		FromCache: hit,
		FetchedAt: entry.FetchedAt,
	}, nil
}

// Invalidate drops every memoized result.
func (e *Engine) Invalidate(ctx context.Context) error {
	if err := e.memo.Clear(ctx); err != nil {
		return fmt.Errorf("clearing search cache: %w", err)
	}
	e.logger.InfoContext(ctx, "search cache cleared")
	return nil
}

// InvalidateKey drops the memoized result of one (term, scope) pair.
func (e *Engine) InvalidateKey(ctx context.Context, term string, scope model.Scope) error {
	if err := e.memo.Forget(ctx, cache.Key(term, scope)); err != nil {
		return fmt.Errorf("clearing cached search %q: %w", term, err)
	}
	return nil
}

type fetchOutcome struct {
	records []model.Record
	err     error
}

func (e *Engine) collect(ctx context.Context, term string, scope model.Scope) (cache.Entry, error) {
	sources := []retriever.Retriever{e.tracker, e.messaging}
	platforms := []model.Platform{model.PlatformTracker, model.PlatformMessaging}
	outcomes := make([]fetchOutcome, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		if !scope.Includes(platforms[i]) {
			continue
		}
		if src == nil {
			outcomes[i].err = fmt.Errorf("%s: %w", platforms[i], ErrPlatformNotConfigured)
			continue
		}
		g.Go(func() error {
			records, err := src.Fetch(ctx, term)
			outcomes[i] = fetchOutcome{records: records, err: err}
			return nil
		})
	}
	_ = g.Wait()

	entry := cache.Entry{FetchedAt: e.now()}
	for i, out := range outcomes {
		entry.Records = append(entry.Records, out.records...)
		if out.err == nil {
			continue
		}

		switch {
		case errors.Is(out.err, messaging.ErrHashtagRequired):
			if scope == model.ScopeMessaging {
				return cache.Entry{}, out.err
			}
			entry.Warnings = append(entry.Warnings, "messaging search skipped: terms must start with "+messaging.HashtagSigil)
		case errors.Is(out.err, ErrPlatformNotConfigured):
			if scope.Platform() == platforms[i] {
				return cache.Entry{}, out.err
			}
			entry.Warnings = append(entry.Warnings, fmt.Sprintf("%s search skipped: not configured", platforms[i]))
		default:
			entry.Degraded = true
			entry.Warnings = append(entry.Warnings, fmt.Sprintf("%s search unavailable: %v", platforms[i], out.err))
		}
	}

	return entry, nil
}
