package tracker_test

import (
	"context"

	"worksearch.app/aggregator/internal/model"
)

type mockIssueTracker struct {
	listIssuesFn func(ctx context.Context) ([]model.Issue, error)
	calls        int
}

func (m *mockIssueTracker) ListIssues(ctx context.Context) ([]model.Issue, error) {
	m.calls++
	if m.listIssuesFn != nil {
		return m.listIssuesFn(ctx)
	}
	return nil, nil
}

func (m *mockIssueTracker) Provider() model.Provider {
	return model.ProviderRedmine
}
