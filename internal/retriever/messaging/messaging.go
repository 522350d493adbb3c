package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"worksearch.app/aggregator/common/logger"
	"worksearch.app/aggregator/internal/mapper"
	"worksearch.app/aggregator/internal/metrics"
	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/retriever"
	messagingsvc "worksearch.app/aggregator/internal/service/messaging"
)

// HashtagSigil must prefix every messaging search term.
const HashtagSigil = "#"

// ErrHashtagRequired is returned, before any network call, for terms that
// don't start with HashtagSigil.
var ErrHashtagRequired = errors.New("messaging search term must start with " + HashtagSigil)

const defaultConcurrency = 4

type Config struct {
	// Channels is the allow-list of channel IDs whose threads are searched.
	Channels []string
	// Concurrency bounds parallel thread fetches.
	Concurrency int
	Location    *time.Location
	Logger      *slog.Logger
}

type messagingRetriever struct {
	svc         messagingsvc.MessagingService
	mapper      *mapper.ThreadMapper
	channels    map[string]struct{}
	concurrency int
	logger      *slog.Logger
}

func New(svc messagingsvc.MessagingService, cfg Config) retriever.Retriever {
	channels := make(map[string]struct{}, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		channels[ch] = struct{}{}
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &messagingRetriever{
		svc:         svc,
		mapper:      mapper.NewThreadMapper(cfg.Location),
		channels:    channels,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}
}

func (r *messagingRetriever) Platform() model.Platform {
	return model.PlatformMessaging
}

// Fetch searches the first team of the identity for term, rebuilds each
// matching thread in an allowed channel, and materializes threads with at
// least one relevant reply. Records follow the order in which their roots
// first appeared in the search results.
func (r *messagingRetriever) Fetch(ctx context.Context, term string) ([]model.Record, error) {
	if !strings.HasPrefix(term, HashtagSigil) {
		r.logger.InfoContext(ctx, "messaging search skipped, term is not a hashtag", "term", term)
		return nil, ErrHashtagRequired
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "worksearch.retriever.messaging"})
	sc := logger.StartSpan(ctx, "retriever.messaging.fetch")
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	records, err := r.fetch(ctx, term)
	if err != nil {
		sc.RecordError(err)
		r.logger.WarnContext(ctx, "messaging fetch failed, continuing with partial results",
			"error", err, "records", len(records))
	}
	sc.SetAttributes(attribute.Int("messaging.records", len(records)))
	metrics.ObserveFetch(string(model.PlatformMessaging), start, len(records), err)

	return records, err
}

func (r *messagingRetriever) fetch(ctx context.Context, term string) ([]model.Record, error) {
	teams, err := r.svc.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", retriever.ErrUpstreamUnavailable, err)
	}
	if len(teams) == 0 {
		r.logger.InfoContext(ctx, "identity belongs to no team, nothing to search")
		return nil, nil
	}

	posts, err := r.svc.SearchPosts(ctx, teams[0].ID, term)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", retriever.ErrUpstreamUnavailable, err)
	}

	roots := r.threadRoots(posts)
	r.logger.InfoContext(ctx, "messaging search hits grouped into threads",
		"team_id", teams[0].ID, "hits", len(posts), "threads", len(roots))

	results := make([]*model.Record, len(roots))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, rootID := range roots {
		g.Go(func() error {
			threadCtx := logger.WithLogFields(ctx, logger.LogFields{ThreadID: logger.Ptr(rootID)})
			record, ok, err := r.buildRecord(threadCtx, rootID, term)
			if err != nil {
				metrics.ThreadFailed()
				r.logger.WarnContext(threadCtx, "skipping thread after fetch failure", "error", err)
				return nil
			}
			if ok {
				results[i] = &record
			}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]model.Record, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// threadRoots returns the distinct root IDs of hits in allowed channels, in
// first-seen order.
func (r *messagingRetriever) threadRoots(posts []model.Post) []string {
	seen := make(map[string]struct{}, len(posts))
	var roots []string
	for _, p := range posts {
		if _, allowed := r.channels[p.ChannelID]; !allowed {
			continue
		}
		rootID := p.ThreadRootID()
		if _, dup := seen[rootID]; dup {
			continue
		}
		seen[rootID] = struct{}{}
		roots = append(roots, rootID)
	}
	return roots
}

func (r *messagingRetriever) buildRecord(ctx context.Context, rootID, term string) (model.Record, bool, error) {
	thread, err := r.svc.GetThread(ctx, rootID)
	if err != nil {
		return model.Record{}, false, err
	}
	record, ok := r.mapper.Map(thread, term)
	return record, ok, nil
}
