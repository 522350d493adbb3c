package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"worksearch.app/aggregator/internal/model"
)

// Options narrow an aggregated result. Zero values disable a criterion.
type Options struct {
	Platform model.Platform
	Text     string
	Status   model.StatusFilter
	// From and To are calendar dates; only their year, month and day are
	// used. Both ends are inclusive.
	From *time.Time
	To   *time.Time
}

// Apply returns the records that satisfy every criterion in opts, in their
// original order. records is never modified.
func Apply(records []model.Record, opts Options) []model.Record {
	text := strings.ToLower(opts.Text)
	lower, upper, bounded := opts.dateBounds()

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if opts.Platform != "" && r.Platform != opts.Platform {
			continue
		}
		if text != "" && !containsLower(r.Title, text) && !containsLower(r.Description, text) {
			continue
		}
		// Tracker records carry no status and always pass.
		if r.Messaging != nil && !opts.Status.Matches(r.Messaging.Status) {
			continue
		}
		if bounded && !withinDates(r, lower, upper) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByCreationDesc returns a copy of records ordered newest first. Records
// created in the same second keep their relative order.
func SortByCreationDesc(records []model.Record) []model.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.Record) int {
		return cmp.Compare(b.CreationDate(), a.CreationDate())
	})
	return sorted
}

// dateBounds converts the inclusive calendar range to [lower, upper) in
// civil time. A missing end is unbounded.
func (o Options) dateBounds() (lower, upper *time.Time, bounded bool) {
	if o.From != nil {
		l := civilDay(*o.From)
		lower = &l
	}
	if o.To != nil {
		u := civilDay(*o.To).AddDate(0, 0, 1)
		upper = &u
	}
	return lower, upper, lower != nil || upper != nil
}

func withinDates(r model.Record, lower, upper *time.Time) bool {
	created, err := time.Parse(model.DateLayout, r.CreationDate())
	if err != nil {
		return false
	}
	if lower != nil && created.Before(*lower) {
		return false
	}
	if upper != nil && !created.Before(*upper) {
		return false
	}
	return true
}

func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsLower(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
