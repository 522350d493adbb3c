package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"worksearch.app/aggregator/internal/aggregator"
	"worksearch.app/aggregator/internal/filter"
	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/query"
	"worksearch.app/aggregator/internal/report"
)

// Engine is the aggregation surface the search service depends on.
// *aggregator.Engine implements it.
type Engine interface {
	Get(ctx context.Context, term string, scope model.Scope) (*aggregator.Result, error)
	Invalidate(ctx context.Context) error
}

type SearchRequest struct {
	Term   string
	Scope  model.Scope
	Filter filter.Options
}

type SearchResult struct {
	Records   []model.Record
	Summary   report.Summary
	Warnings  []string
	FromCache bool
	FetchedAt time.Time
}

type SearchService interface {
	// Search aggregates term over scope, narrows the result with the
	// request filter and orders it newest first.
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	// Query interprets a free-text question and runs the search it
	// describes. It fails with query.ErrNoHashtag before fetching anything
	// when the text has no hashtag.
	Query(ctx context.Context, text string) (query.Params, *SearchResult, error)
	ClearCache(ctx context.Context) error
}

type searchService struct {
	engine Engine
	now    func() time.Time
}

func NewSearchService(engine Engine) SearchService {
	return &searchService{engine: engine, now: time.Now}
}

func (s *searchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if req.Scope == "" {
		req.Scope = model.ScopeAll
	}

	res, err := s.engine.Get(ctx, req.Term, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", req.Term, err)
	}

	records := filter.SortByCreationDesc(filter.Apply(res.Records, req.Filter))

	slog.InfoContext(ctx, "search filtered",
		"term", req.Term,
		"scope", req.Scope,
		"fetched", len(res.Records),
		"returned", len(records))

	return &SearchResult{
		Records:   records,
		Summary:   report.Summarize(records),
		Warnings:  res.Warnings,
		FromCache: res.FromCache,
		FetchedAt: res.FetchedAt,
	}, nil
}

func (s *searchService) Query(ctx context.Context, text string) (query.Params, *SearchResult, error) {
	params := query.Parse(text, s.now())
	if err := params.Validate(); err != nil {
		slog.InfoContext(ctx, "query rejected", "error", err)
		return params, nil, err
	}

	result, err := s.Search(ctx, SearchRequest{
		Term:   params.Term(),
		Scope:  params.Scope,
		Filter: params.Filter(),
	})
	if err != nil {
		return params, nil, err
	}
	return params, result, nil
}

func (s *searchService) ClearCache(ctx context.Context) error {
	if err := s.engine.Invalidate(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear search cache", "error", err)
		return err
	}
	return nil
}
