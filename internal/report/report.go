package report

import "worksearch.app/aggregator/internal/model"

// Summary counts a result set the way the result header presents it.
// Completed and Ongoing count messaging records only.
type Summary struct {
	Total     int `json:"total"`
	Tracker   int `json:"tracker"`
	Messaging int `json:"messaging"`
	Completed int `json:"completed"`
	Ongoing   int `json:"ongoing"`
}

func Summarize(records []model.Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Platform {
		case model.PlatformTracker:
			s.Tracker++
		case model.PlatformMessaging:
			s.Messaging++
		}
		switch r.StatusOf() {
		case model.StatusCompleted:
			s.Completed++
		case model.StatusOngoing:
			s.Ongoing++
		}
	}
	return s
}
