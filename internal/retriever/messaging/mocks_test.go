package messaging_test

import (
	"context"
	"sync"

	"worksearch.app/aggregator/internal/model"
)

type mockMessagingService struct {
	listTeamsFn   func(ctx context.Context) ([]model.Team, error)
	searchPostsFn func(ctx context.Context, teamID, terms string) ([]model.Post, error)
	getThreadFn   func(ctx context.Context, rootID string) (model.Thread, error)

	mu          sync.Mutex
	calls       int
	threadCalls []string
}

func (m *mockMessagingService) ListTeams(ctx context.Context) ([]model.Team, error) {
	m.record("")
	if m.listTeamsFn != nil {
		return m.listTeamsFn(ctx)
	}
	return []model.Team{{ID: "team1"}}, nil
}

func (m *mockMessagingService) SearchPosts(ctx context.Context, teamID, terms string) ([]model.Post, error) {
	m.record("")
	if m.searchPostsFn != nil {
		return m.searchPostsFn(ctx, teamID, terms)
	}
	return nil, nil
}

func (m *mockMessagingService) GetThread(ctx context.Context, rootID string) (model.Thread, error) {
	m.record(rootID)
	if m.getThreadFn != nil {
		return m.getThreadFn(ctx, rootID)
	}
	return model.Thread{}, nil
}

func (m *mockMessagingService) record(rootID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if rootID != "" {
		m.threadCalls = append(m.threadCalls, rootID)
	}
}

func (m *mockMessagingService) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockMessagingService) threads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.threadCalls...)
}
