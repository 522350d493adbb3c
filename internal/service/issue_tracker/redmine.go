package issue_tracker

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"worksearch.app/aggregator/common/httpclient"
	"worksearch.app/aggregator/internal/model"
)

const redminePageSize = 100

type RedmineConfig struct {
	BaseURL  string
	APIKey   string
	RetryMax int
	Logger   *slog.Logger
}

type redmineIssueTrackerService struct {
	client *httpclient.Client
}

func NewRedmineIssueTrackerService(cfg RedmineConfig) IssueTrackerService {
	header := http.Header{}
	header.Set("X-Redmine-API-Key", cfg.APIKey)

	return &redmineIssueTrackerService{
		client: httpclient.New(httpclient.Config{
			BaseURL:  cfg.BaseURL,
			Header:   header,
			RetryMax: cfg.RetryMax,
			Logger:   cfg.Logger,
		}),
	}
}

type redmineNamed struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type redmineIssue struct {
	ID          int64         `json:"id"`
	Subject     string        `json:"subject"`
	Description *string       `json:"description"`
	Tracker     *redmineNamed `json:"tracker"`
	Status      *redmineNamed `json:"status"`
	Author      *redmineNamed `json:"author"`
	CreatedOn   time.Time     `json:"created_on"`
}

type redmineIssuePage struct {
	Issues     []redmineIssue `json:"issues"`
	TotalCount int            `json:"total_count"`
	Offset     int            `json:"offset"`
	Limit      int            `json:"limit"`
}

func (s *redmineIssueTrackerService) Provider() model.Provider {
	return model.ProviderRedmine
}

func (s *redmineIssueTrackerService) ListIssues(ctx context.Context) ([]model.Issue, error) {
	var issues []model.Issue

	for offset := 0; ; {
		query := url.Values{}
		query.Set("status_id", "*")
		query.Set("limit", strconv.Itoa(redminePageSize))
		query.Set("offset", strconv.Itoa(offset))

		var page redmineIssuePage
		if err := s.client.GetJSON(ctx, "/issues.json?"+query.Encode(), &page); err != nil {
			return nil, fmt.Errorf("fetching issues from redmine: %w", err)
		}

		for _, ri := range page.Issues {
			issues = append(issues, s.mapToIssue(ri))
		}

		offset += len(page.Issues)
		if len(page.Issues) == 0 || offset >= page.TotalCount {
			break
		}
	}

	return issues, nil
}

func (s *redmineIssueTrackerService) mapToIssue(ri redmineIssue) model.Issue {
	issue := model.Issue{
		ID:        strconv.FormatInt(ri.ID, 10),
		Provider:  model.ProviderRedmine,
		Subject:   ri.Subject,
		CreatedAt: ri.CreatedOn,
	}
	if ri.Description != nil {
		issue.Description = *ri.Description
	}
	if ri.Tracker != nil {
		issue.TrackerName = ri.Tracker.Name
	}
	if ri.Status != nil {
		issue.StatusName = ri.Status.Name
	}
	if ri.Author != nil {
		issue.AuthorName = ri.Author.Name
	}
	return issue
}
