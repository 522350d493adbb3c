package model

import "time"

// Issue is a work item as read from the tracker, before normalization.
// Optional upstream names are empty strings when the tracker omits them.
type Issue struct {
	ID          string
	Provider    Provider
	Subject     string
	Description string
	TrackerName string
	StatusName  string
	AuthorName  string
	CreatedAt   time.Time
}
