package messaging

import (
	"context"

	"worksearch.app/aggregator/internal/model"
)

// MessagingService reads teams, search hits and threads from the messaging
// collaborator.
type MessagingService interface {
	ListTeams(ctx context.Context) ([]model.Team, error)
	// SearchPosts runs an OR-semantics full-text search in a team and returns
	// hits in the collaborator's relevance order.
	SearchPosts(ctx context.Context, teamID, terms string) ([]model.Post, error)
	// GetThread returns the root post followed by its replies, oldest first.
	GetThread(ctx context.Context, rootID string) (model.Thread, error)
}
