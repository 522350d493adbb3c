package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the normalized creation date format shared by every record.
const DateLayout = "2006-01-02 15:04:05"

// NotApplicable is rendered for attributes a platform does not carry.
const NotApplicable = "N/A"

// Platform is the kind of collaborator a record originates from.
type Platform string

const (
	PlatformTracker   Platform = "tracker"
	PlatformMessaging Platform = "messaging"
)

// Status is the completion state inferred for a messaging thread.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusOngoing   Status = "ongoing"
	StatusNA        Status = "n/a"
)

// Scope selects which collaborators a search runs against.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeTracker   Scope = "tracker"
	ScopeMessaging Scope = "messaging"
)

// ParseScope accepts scope names and platform names, case-insensitively.
// An empty value means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "tracker", string(ProviderRedmine), string(ProviderGitLab):
		return ScopeTracker, nil
	case "messaging", string(ProviderMattermost):
		return ScopeMessaging, nil
	}
	return "", fmt.Errorf("unknown platform scope %q", s)
}

// Includes reports whether records of platform p are fetched under this scope.
func (s Scope) Includes(p Platform) bool {
	switch s {
	case ScopeTracker:
		return p == PlatformTracker
	case ScopeMessaging:
		return p == PlatformMessaging
	}
	return true
}

// Platform returns the single platform the scope narrows to, or "" for ScopeAll.
func (s Scope) Platform() Platform {
	switch s {
	case ScopeTracker:
		return PlatformTracker
	case ScopeMessaging:
		return PlatformMessaging
	}
	return ""
}

// StatusFilter narrows messaging records by completion state.
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterCompleted StatusFilter = "completed"
	StatusFilterOngoing   StatusFilter = "ongoing"
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusFilterAll, nil
	case "completed":
		return StatusFilterCompleted, nil
	case "ongoing":
		return StatusFilterOngoing, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

// Matches reports whether a thread status passes the filter.
func (f StatusFilter) Matches(s Status) bool {
	switch f {
	case StatusFilterCompleted:
		return s == StatusCompleted
	case StatusFilterOngoing:
		return s == StatusOngoing
	}
	return true
}

// MessagingDetails holds the attributes only messaging records carry.
type MessagingDetails struct {
	ChannelID string `json:"channel_id"`
	Status    Status `json:"status"`
}

// Record is the normalized, platform-agnostic unit of work merged from all
// collaborators. Platform decides which optional attributes are meaningful:
// Messaging is set if and only if Platform is PlatformMessaging.
type Record struct {
	Platform    Platform          `json:"source_platform"`
	Provider    Provider          `json:"provider"`
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Author      string            `json:"author"`
	CreatedAt   time.Time         `json:"created_at"`
	ContentType string            `json:"content_type"`
	Messaging   *MessagingDetails `json:"messaging,omitempty"`
}

// CreationDate renders CreatedAt in DateLayout.
func (r Record) CreationDate() string {
	return r.CreatedAt.Format(DateLayout)
}

// ChannelID returns the originating channel, or NotApplicable for tracker records.
func (r Record) ChannelID() string {
	if r.Messaging == nil {
		return NotApplicable
	}
	return r.Messaging.ChannelID
}

// StatusOf returns the thread status, or StatusNA for records without one.
func (r Record) StatusOf() Status {
	if r.Messaging == nil {
		return StatusNA
	}
	return r.Messaging.Status
}

// NormalizeTime truncates t to the second in loc.
func NormalizeTime(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Truncate(time.Second)
}
