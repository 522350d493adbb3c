package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"worksearch.app/aggregator/common/logger"
	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/query"
	"worksearch.app/aggregator/internal/service"
)

const previewLen = 400

// shell answers one line of chat input at a time. Answers go to out,
// diagnostics to errOut.
type shell struct {
	search  service.SearchService
	session *query.Session
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
}

func newShell(search service.SearchService, out, errOut io.Writer) *shell {
	return &shell{
		search:  search,
		session: query.NewSession(),
		out:     out,
		errOut:  errOut,
		now:     time.Now,
	}
}

// handle runs one input line and reports whether the user asked to leave.
func (s *shell) handle(ctx context.Context, text string) (quit bool) {
	switch text {
	case "":
		return false
	case "quit", "exit", "q":
		fmt.Fprintln(s.errOut, "Goodbye!")
		return true
	case "history":
		s.printHistory()
		return false
	case "clear":
		s.session.Clear()
		if err := s.search.ClearCache(ctx); err != nil {
			fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(s.out, "History and cache cleared.")
		return false
	}

	params, result, err := s.search.Query(ctx, text)
	if errors.Is(err, query.ErrNoHashtag) {
		fmt.Fprintln(s.out, "No hashtag found in your question. Add a term starting with #.")
		return false
	}
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return false
	}

	s.session.Record(text, len(result.Records), s.now())
	s.printResult(params, result)
	return false
}

func (s *shell) printResult(params query.Params, result *service.SearchResult) {
	for _, w := range result.Warnings {
		fmt.Fprintf(s.out, "warning: %s\n", w)
	}

	if len(result.Records) == 0 {
		fmt.Fprintf(s.out, "No results for %s.\n\n", params.Term())
		return
	}

	sum := result.Summary
	fmt.Fprintf(s.out, "%d results (tracker %d, messaging %d, completed %d, ongoing %d)",
		sum.Total, sum.Tracker, sum.Messaging, sum.Completed, sum.Ongoing)
	if result.FromCache {
		fmt.Fprint(s.out, " [cached]")
	}
	fmt.Fprintln(s.out)

	for _, r := range result.Records {
		label := r.Provider.DisplayName()
		if r.Messaging != nil {
			label += " " + string(r.Messaging.Status)
		}
		fmt.Fprintf(s.out, "\n[%s] %s  %s  by %s\n", label, r.Title, r.CreationDate(), r.Author)
		if r.Platform == model.PlatformTracker {
			fmt.Fprintln(s.out, r.ContentType)
		}
		fmt.Fprintln(s.out, logger.Truncate(r.Description, previewLen))
	}
	fmt.Fprintln(s.out)
}

func (s *shell) printHistory() {
	if s.session.Len() == 0 {
		fmt.Fprintln(s.out, "No queries yet.")
		return
	}
	for _, h := range s.session.History() {
		fmt.Fprintf(s.out, "%s  %-60s %d results\n", h.At.Format(model.DateLayout), logger.Truncate(h.Query, 57), h.ResultCount)
	}
}
