package query

import (
	"slices"
	"time"
)

// HistoryEntry records one answered query.
type HistoryEntry struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

// Session is the conversation state of one chat user. It is owned by the
// caller and is not safe for concurrent use.
type Session struct {
	history []HistoryEntry
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Record(query string, resultCount int, at time.Time) {
	s.history = append(s.history, HistoryEntry{Query: query, ResultCount: resultCount, At: at})
}

// History returns past queries, most recent first.
func (s *Session) History() []HistoryEntry {
	out := slices.Clone(s.history)
	slices.Reverse(out)
	return out
}

func (s *Session) Len() int {
	return len(s.history)
}

func (s *Session) Clear() {
	s.history = nil
}
