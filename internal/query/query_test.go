package query_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/query"
)

var now = time.Date(2024, 3, 10, 15, 42, 0, 0, time.UTC)

func midnight(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Parse", func() {
	It("extracts the first hashtag, lowercased", func() {
		p := query.Parse("Show #ATP and #billing work", now)
		Expect(p.Validate()).To(Succeed())
		Expect(p.Term()).To(Equal("#atp"))
	})

	It("accepts non-ASCII letters in hashtags", func() {
		p := query.Parse("#ödeme işleri", now)
		Expect(p.Term()).To(Equal("#ödeme"))
	})

	It("reports a missing hashtag", func() {
		p := query.Parse("show me completed work", now)
		Expect(p.SearchTerm).To(BeNil())
		Expect(p.Term()).To(BeEmpty())
		Expect(p.Validate()).To(MatchError(query.ErrNoHashtag))
	})

	DescribeTable("scope",
		func(text string, expected model.Scope) {
			Expect(query.Parse(text, now).Scope).To(Equal(expected))
		},
		Entry("tracker keyword", "#atp in redmine", model.ScopeTracker),
		Entry("gitlab keyword", "#atp on GitLab", model.ScopeTracker),
		Entry("messaging keyword", "#atp in mattermost", model.ScopeMessaging),
		Entry("tracker wins over messaging", "#atp redmine or mattermost", model.ScopeTracker),
		Entry("no keyword", "#atp", model.ScopeAll),
		Entry("keyword inside the hashtag", "#tracker-fix status", model.ScopeAll),
		Entry("keyword inside the hashtag with a real one", "#mattermost_migration in redmine", model.ScopeTracker),
	)

	DescribeTable("status",
		func(text string, expected model.StatusFilter) {
			Expect(query.Parse(text, now).Status).To(Equal(expected))
		},
		Entry("turkish completed", "#atp tamamlanan işler", model.StatusFilterCompleted),
		Entry("english finished", "#atp finished", model.StatusFilterCompleted),
		Entry("turkish ongoing", "#atp devam eden işler", model.StatusFilterOngoing),
		Entry("english ongoing", "#atp ongoing", model.StatusFilterOngoing),
		Entry("completed wins", "#atp completed and ongoing", model.StatusFilterCompleted),
		Entry("none", "#atp", model.StatusFilterAll),
		Entry("keyword inside the hashtag", "#completed_items", model.StatusFilterAll),
	)

	DescribeTable("date floor",
		func(text string, expected *time.Time) {
			p := query.Parse(text, now)
			if expected == nil {
				Expect(p.DateFloor).To(BeNil())
				return
			}
			Expect(p.DateFloor).NotTo(BeNil())
			Expect(*p.DateFloor).To(BeTemporally("==", *expected))
		},
		Entry("today", "#atp today", ptr(midnight(2024, 3, 10))),
		Entry("bugün", "#atp bugün", ptr(midnight(2024, 3, 10))),
		Entry("yesterday", "#atp yesterday", ptr(midnight(2024, 3, 9))),
		Entry("this week", "#atp bu hafta", ptr(midnight(2024, 3, 3))),
		Entry("first rule wins", "#atp this week or today", ptr(midnight(2024, 3, 10))),
		Entry("none", "#atp", nil),
		Entry("keyword inside the hashtag", "#today_standup", nil),
	)

	It("converts to filter options", func() {
		opts := query.Parse("#atp mattermost tamamlanan dün", now).Filter()
		Expect(opts.Platform).To(Equal(model.PlatformMessaging))
		Expect(opts.Status).To(Equal(model.StatusFilterCompleted))
		Expect(opts.From).NotTo(BeNil())
		Expect(*opts.From).To(BeTemporally("==", midnight(2024, 3, 9)))
		Expect(opts.To).To(BeNil())
	})
})

var _ = Describe("Session", func() {
	It("lists history most recent first", func() {
		s := query.NewSession()
		s.Record("#atp", 3, now)
		s.Record("#billing done", 0, now.Add(time.Minute))

		history := s.History()
		Expect(history).To(HaveLen(2))
		Expect(history[0].Query).To(Equal("#billing done"))
		Expect(history[1].ResultCount).To(Equal(3))

		s.Clear()
		Expect(s.Len()).To(Equal(0))
	})
})

func ptr[T any](v T) *T {
	return &v
}
