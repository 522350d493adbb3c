package issue_tracker

import (
	"context"
	"fmt"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"worksearch.app/aggregator/internal/model"
)

const defaultGitLabIssueType = "issue"

type gitLabIssueTrackerService struct {
	client *gitlab.Client
}

// NewGitLabIssueTrackerService builds a tracker backed by GitLab issues.
// An empty baseURL targets gitlab.com.
func NewGitLabIssueTrackerService(baseURL, token string) (IssueTrackerService, error) {
	client, err := newGitLabClient(baseURL, token)
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}
	return &gitLabIssueTrackerService{client: client}, nil
}

func newGitLabClient(baseURL, token string) (*gitlab.Client, error) {
	if baseURL == "" {
		return gitlab.NewClient(token)
	}
	apiURL := strings.TrimSuffix(baseURL, "/") + "/api/v4"
	return gitlab.NewClient(token, gitlab.WithBaseURL(apiURL))
}

func (s *gitLabIssueTrackerService) Provider() model.Provider {
	return model.ProviderGitLab
}

func (s *gitLabIssueTrackerService) ListIssues(ctx context.Context) ([]model.Issue, error) {
	opts := &gitlab.ListIssuesOptions{
		Scope: gitlab.Ptr("all"),
		ListOptions: gitlab.ListOptions{
			Page:    1,
			PerPage: 100,
		},
	}

	var issues []model.Issue

	for {
		page, resp, err := s.client.Issues.ListIssues(opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetching issues from gitlab: %w", err)
		}

		for _, gi := range page {
			if gi == nil {
				continue
			}
			issues = append(issues, s.mapToIssue(gi))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

func (s *gitLabIssueTrackerService) mapToIssue(gi *gitlab.Issue) model.Issue {
	issue := model.Issue{
		ID:          fmt.Sprintf("%d", gi.ID),
		Provider:    model.ProviderGitLab,
		Subject:     gi.Title,
		Description: gi.Description,
		TrackerName: defaultGitLabIssueType,
		StatusName:  gi.State,
	}
	if gi.IssueType != nil && *gi.IssueType != "" {
		issue.TrackerName = *gi.IssueType
	}
	if gi.Author != nil {
		issue.AuthorName = gi.Author.Username
	}
	if gi.CreatedAt != nil {
		issue.CreatedAt = *gi.CreatedAt
	}
	return issue
}
