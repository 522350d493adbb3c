package query

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"worksearch.app/aggregator/internal/filter"
	"worksearch.app/aggregator/internal/model"
)

// ErrNoHashtag is returned by Validate for queries without a hashtag term.
var ErrNoHashtag = errors.New("query has no hashtag term, add a word starting with #")

var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Keyword vocabularies, matched as substrings of the lowercased query in
// both supported locales. Hashtag tokens are removed before matching, so
// "#tracker" is a term and never a scope keyword.
var (
	TrackerKeywords   = []string{"redmine", "tracker", "gitlab"}
	MessagingKeywords = []string{"mattermost", "messaging"}

	CompletedKeywords = []string{"tamamlanan", "tamamlandı", "completed", "finished"}
	OngoingKeywords   = []string{"devam eden", "ongoing", "continuing"}
)

type dateRule struct {
	keywords []string
	daysAgo  int
}

// dateRules are tried in order; the first match sets the floor.
var dateRules = []dateRule{
	{keywords: []string{"bugün", "today"}, daysAgo: 0},
	{keywords: []string{"dün", "yesterday"}, daysAgo: 1},
	{keywords: []string{"bu hafta", "this week"}, daysAgo: 7},
}

// Params is the structured form of a free-text query.
type Params struct {
	SearchTerm *string            `json:"search_term"`
	Scope      model.Scope        `json:"scope"`
	Status     model.StatusFilter `json:"status"`
	// DateFloor is the earliest calendar day of interest. There is never a
	// ceiling.
	DateFloor *time.Time `json:"date_floor,omitempty"`
}

// Parse interprets text relative to now. It never fails; use Validate to
// enforce the hashtag requirement.
func Parse(text string, now time.Time) Params {
	q := strings.ToLower(text)

	p := Params{
		Scope:  model.ScopeAll,
		Status: model.StatusFilterAll,
	}

	if tag := hashtagPattern.FindString(q); tag != "" {
		p.SearchTerm = &tag
	}
	words := hashtagPattern.ReplaceAllString(q, " ")

	switch {
	case containsAny(words, TrackerKeywords):
		p.Scope = model.ScopeTracker
	case containsAny(words, MessagingKeywords):
		p.Scope = model.ScopeMessaging
	}

	switch {
	case containsAny(words, CompletedKeywords):
		p.Status = model.StatusFilterCompleted
	case containsAny(words, OngoingKeywords):
		p.Status = model.StatusFilterOngoing
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, rule := range dateRules {
		if containsAny(words, rule.keywords) {
			floor := today.AddDate(0, 0, -rule.daysAgo)
			p.DateFloor = &floor
			break
		}
	}

	return p
}

func (p Params) Validate() error {
	if p.SearchTerm == nil {
		return ErrNoHashtag
	}
	return nil
}

// Term returns the hashtag term, or "" when absent.
func (p Params) Term() string {
	if p.SearchTerm == nil {
		return ""
	}
	return *p.SearchTerm
}

// Filter converts the parsed criteria into result filter options.
func (p Params) Filter() filter.Options {
	return filter.Options{
		Platform: p.Scope.Platform(),
		Status:   p.Status,
		From:     p.DateFloor,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
