package mapper

import (
	"fmt"
	"time"

	"worksearch.app/aggregator/internal/model"
)

type TrackerMapper struct {
	loc *time.Location
}

func NewTrackerMapper(loc *time.Location) *TrackerMapper {
	return &TrackerMapper{loc: loc}
}

// Map normalizes a tracker issue. Tracker records never carry messaging details.
func (m *TrackerMapper) Map(issue model.Issue) model.Record {
	return model.Record{
		Platform:    model.PlatformTracker,
		Provider:    issue.Provider,
		ID:          issue.ID,
		Title:       issue.Subject,
		Description: issue.Description,
		Author:      issue.AuthorName,
		CreatedAt:   model.NormalizeTime(issue.CreatedAt, m.loc),
		ContentType: fmt.Sprintf("Tracker: %s (Status: %s)", issue.TrackerName, issue.StatusName),
	}
}

// Matches reports whether term occurs in the issue subject or description.
func (m *TrackerMapper) Matches(issue model.Issue, term string) bool {
	return ContainsFold(issue.Subject, term) || ContainsFold(issue.Description, term)
}
