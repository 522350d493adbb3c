package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"worksearch.app/aggregator/core/config"
	"worksearch.app/aggregator/internal/aggregator"
	"worksearch.app/aggregator/internal/cache"
	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/retriever"
	messagingretriever "worksearch.app/aggregator/internal/retriever/messaging"
	trackerretriever "worksearch.app/aggregator/internal/retriever/tracker"
	issue_tracker "worksearch.app/aggregator/internal/service/issue_tracker"
	"worksearch.app/aggregator/internal/service/messaging"
)

const upstreamRetryMax = 3

// App holds the long-lived dependencies shared by the server and the chat
// shell.
type App struct {
	Engine *aggregator.Engine
	redis  *redis.Client
}

func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// New wires collaborator clients, retrievers and the result cache from cfg.
// A platform without credentials is left out and reported in the log.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	app := &App{}

	trackerSource, err := newTrackerRetriever(cfg, loc, log)
	if err != nil {
		return nil, err
	}
	messagingSource := newMessagingRetriever(cfg, loc, log)
	if trackerSource == nil && messagingSource == nil {
		log.WarnContext(ctx, "no collaborator is configured, every search will be empty")
	}

	store, err := app.newStore(ctx, cfg.Cache, log)
	if err != nil {
		return nil, err
	}

	memo := cache.NewMemo(store, cfg.Cache.TTL, log)
	app.Engine = aggregator.New(trackerSource, messagingSource, memo, log)
	return app, nil
}

func newTrackerRetriever(cfg config.Config, loc *time.Location, log *slog.Logger) (retriever.Retriever, error) {
	var svc issue_tracker.IssueTrackerService

	switch cfg.Tracker.Provider {
	case model.ProviderGitLab:
		if !cfg.GitLab.Enabled() {
			log.Warn("gitlab tracker selected but GITLAB_TOKEN is empty, tracker search disabled")
			return nil, nil
		}
		gl, err := issue_tracker.NewGitLabIssueTrackerService(cfg.GitLab.URL, cfg.GitLab.Token)
		if err != nil {
			return nil, err
		}
		svc = gl
	default:
		if !cfg.Redmine.Enabled() {
			log.Warn("REDMINE_URL or REDMINE_API_KEY missing, tracker search disabled")
			return nil, nil
		}
		svc = issue_tracker.NewRedmineIssueTrackerService(issue_tracker.RedmineConfig{
			BaseURL:  cfg.Redmine.URL,
			APIKey:   cfg.Redmine.APIKey,
			RetryMax: upstreamRetryMax,
			Logger:   log,
		})
	}

	log.Info("tracker configured", "provider", svc.Provider().DisplayName())
	return trackerretriever.New(svc, loc, log), nil
}

func newMessagingRetriever(cfg config.Config, loc *time.Location, log *slog.Logger) retriever.Retriever {
	if !cfg.Mattermost.Enabled() {
		log.Warn("MATTERMOST_URL or MATTERMOST_TOKEN missing, messaging search disabled")
		return nil
	}

	svc := messaging.NewMattermostService(messaging.MattermostConfig{
		BaseURL:           cfg.Mattermost.URL,
		Token:             cfg.Mattermost.Token,
		RequestsPerSecond: cfg.Mattermost.RequestsPerSecond,
		RetryMax:          upstreamRetryMax,
		Logger:            log,
	})

	log.Info("messaging configured",
		"provider", model.ProviderMattermost.DisplayName(),
		"channels", len(cfg.Mattermost.Channels),
		"thread_concurrency", cfg.Mattermost.ThreadConcurrency)

	return messagingretriever.New(svc, messagingretriever.Config{
		Channels:    cfg.Mattermost.Channels,
		Concurrency: cfg.Mattermost.ThreadConcurrency,
		Location:    loc,
		Logger:      log,
	})
}

func (a *App) newStore(ctx context.Context, cfg config.CacheConfig, log *slog.Logger) (cache.Store, error) {
	if !cfg.UsesRedis() {
		log.InfoContext(ctx, "using in-memory result cache", "ttl", cfg.TTL)
		return cache.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	a.redis = client

	log.InfoContext(ctx, "redis result cache connected", "prefix", cfg.KeyPrefix, "ttl", cfg.TTL)
	return cache.NewRedisStore(client, cfg.KeyPrefix), nil
}
