package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"time"

	"worksearch.app/aggregator/common/httpclient"
	"worksearch.app/aggregator/internal/model"
)

type MattermostConfig struct {
	// BaseURL is the API root, e.g. https://chat.example.com/api/v4.
	BaseURL           string
	Token             string
	RequestsPerSecond float64
	RetryMax          int
	Logger            *slog.Logger
}

type mattermostService struct {
	client *httpclient.Client
}

func NewMattermostService(cfg MattermostConfig) MessagingService {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.Token)

	return &mattermostService{
		client: httpclient.New(httpclient.Config{
			BaseURL:           cfg.BaseURL,
			Header:            header,
			RetryMax:          cfg.RetryMax,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Logger:            cfg.Logger,
		}),
	}
}

type mattermostPost struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	RootID    string `json:"root_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	CreateAt  int64  `json:"create_at"` // milliseconds since epoch
}

type mattermostPostList struct {
	Order []string                  `json:"order"`
	Posts map[string]mattermostPost `json:"posts"`
}

type mattermostSearchRequest struct {
	Terms      string `json:"terms"`
	IsOrSearch bool   `json:"is_or_search"`
}

func (s *mattermostService) ListTeams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := s.client.GetJSON(ctx, "/users/me/teams", &teams); err != nil {
		return nil, fmt.Errorf("listing mattermost teams: %w", err)
	}
	return teams, nil
}

func (s *mattermostService) SearchPosts(ctx context.Context, teamID, terms string) ([]model.Post, error) {
	var list mattermostPostList
	path := "/teams/" + url.PathEscape(teamID) + "/posts/search"
	if err := s.client.PostJSON(ctx, path, mattermostSearchRequest{Terms: terms, IsOrSearch: true}, &list); err != nil {
		return nil, fmt.Errorf("searching mattermost posts: %w", err)
	}
	return s.orderedPosts(list), nil
}

func (s *mattermostService) GetThread(ctx context.Context, rootID string) (model.Thread, error) {
	var list mattermostPostList
	if err := s.client.GetJSON(ctx, "/posts/"+url.PathEscape(rootID)+"/thread", &list); err != nil {
		return model.Thread{}, fmt.Errorf("fetching mattermost thread %s: %w", rootID, err)
	}

	posts := s.orderedPosts(list)
	if len(posts) == 0 {
		return model.Thread{}, nil
	}

	// The order array of a thread is not guaranteed to be chronological, so
	// the root is located by id and replies are sorted by creation time.
	rootIdx := slices.IndexFunc(posts, func(p model.Post) bool { return p.ID == rootID })
	if rootIdx < 0 {
		rootIdx = slices.IndexFunc(posts, func(p model.Post) bool { return p.RootID == "" })
	}
	if rootIdx < 0 {
		return model.Thread{}, fmt.Errorf("mattermost thread %s has no root post", rootID)
	}

	replies := make([]model.Post, 0, len(posts)-1)
	for i, p := range posts {
		if i != rootIdx {
			replies = append(replies, p)
		}
	}

	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	return model.Thread{Posts: append([]model.Post{posts[rootIdx]}, replies...)}, nil
}

// orderedPosts follows list.Order and then appends any posts the order omits.
func (s *mattermostService) orderedPosts(list mattermostPostList) []model.Post {
	posts := make([]model.Post, 0, len(list.Posts))
	seen := make(map[string]bool, len(list.Posts))

	for _, id := range list.Order {
		p, ok := list.Posts[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		posts = append(posts, s.mapPost(p))
	}

	var rest []model.Post
	for id, p := range list.Posts {
		if !seen[id] {
			rest = append(rest, s.mapPost(p))
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].CreatedAt.Equal(rest[j].CreatedAt) {
			return rest[i].ID < rest[j].ID
		}
		return rest[i].CreatedAt.Before(rest[j].CreatedAt)
	})

	return append(posts, rest...)
}

func (s *mattermostService) mapPost(p mattermostPost) model.Post {
	return model.Post{
		ID:        p.ID,
		ChannelID: p.ChannelID,
		RootID:    p.RootID,
		UserID:    p.UserID,
		Message:   p.Message,
		CreatedAt: time.UnixMilli(p.CreateAt),
	}
}
