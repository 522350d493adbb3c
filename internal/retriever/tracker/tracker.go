package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"worksearch.app/aggregator/common/logger"
	"worksearch.app/aggregator/internal/mapper"
	"worksearch.app/aggregator/internal/metrics"
	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/retriever"
	issue_tracker "worksearch.app/aggregator/internal/service/issue_tracker"
)

type trackerRetriever struct {
	issues issue_tracker.IssueTrackerService
	mapper *mapper.TrackerMapper
	logger *slog.Logger
}

func New(issues issue_tracker.IssueTrackerService, loc *time.Location, log *slog.Logger) retriever.Retriever {
	if log == nil {
		log = slog.Default()
	}
	return &trackerRetriever{
		issues: issues,
		mapper: mapper.NewTrackerMapper(loc),
		logger: log,
	}
}

func (r *trackerRetriever) Platform() model.Platform {
	return model.PlatformTracker
}

// Fetch scans every tracker issue and keeps those whose subject or
// description contains term. Upstream failures yield no records and an
// error wrapping retriever.ErrUpstreamUnavailable.
func (r *trackerRetriever) Fetch(ctx context.Context, term string) ([]model.Record, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "worksearch.retriever.tracker"})
	sc := logger.StartSpan(ctx, "retriever.tracker.fetch",
		attribute.String("tracker.provider", string(r.issues.Provider())))
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	issues, err := r.issues.ListIssues(ctx)
	if err != nil {
		sc.RecordError(err)
		metrics.ObserveFetch(string(model.PlatformTracker), start, 0, err)
		r.logger.WarnContext(ctx, "tracker fetch failed, continuing without tracker results", "error", err)
		return nil, fmt.Errorf("%w: %w", retriever.ErrUpstreamUnavailable, err)
	}

	r.logger.DebugContext(ctx, "tracker issues fetched, filtering", "issue_count", len(issues))

	var records []model.Record
	for _, issue := range issues {
		if r.mapper.Matches(issue, term) {
			records = append(records, r.mapper.Map(issue))
		}
	}

	sc.SetAttributes(
		attribute.Int("tracker.issues_scanned", len(issues)),
		attribute.Int("tracker.records", len(records)),
	)
	metrics.ObserveFetch(string(model.PlatformTracker), start, len(records), nil)
	r.logger.InfoContext(ctx, "tracker search completed", "issues_scanned", len(issues), "matches", len(records))

	return records, nil
}
