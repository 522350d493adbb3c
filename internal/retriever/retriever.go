package retriever

import (
	"context"
	"errors"

	"worksearch.app/aggregator/internal/model"
)

// ErrUpstreamUnavailable wraps any failure talking to a collaborator. A
// retriever returning it still returns whatever records it had collected.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Retriever fetches normalized records matching a search term from one platform.
type Retriever interface {
	Fetch(ctx context.Context, term string) ([]model.Record, error)
	Platform() model.Platform
}
