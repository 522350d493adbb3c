package issue_tracker

import (
	"context"

	"worksearch.app/aggregator/internal/model"
)

// IssueTrackerService reads work items from the tracker collaborator.
type IssueTrackerService interface {
	// ListIssues returns every issue visible to the configured identity,
	// irrespective of status.
	ListIssues(ctx context.Context) ([]model.Issue, error)
	Provider() model.Provider
}
