package model

import "time"

// Team is a messaging workspace visible to the authenticated identity.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Post is a single message. RootID is empty for thread roots.
type Post struct {
	ID        string
	ChannelID string
	RootID    string
	UserID    string
	Message   string
	CreatedAt time.Time
}

// ThreadRootID returns the id of the thread the post belongs to.
func (p Post) ThreadRootID() string {
	if p.RootID != "" {
		return p.RootID
	}
	return p.ID
}

// Thread is a root post followed by its replies in thread order.
type Thread struct {
	Posts []Post
}

// Root returns the first post of the thread.
func (t Thread) Root() (Post, bool) {
	if len(t.Posts) == 0 {
		return Post{}, false
	}
	return t.Posts[0], true
}

// Replies returns every post after the root, in thread order.
func (t Thread) Replies() []Post {
	if len(t.Posts) < 2 {
		return nil
	}
	return t.Posts[1:]
}
