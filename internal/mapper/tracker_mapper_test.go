package mapper_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"worksearch.app/aggregator/internal/mapper"
	"worksearch.app/aggregator/internal/model"
)

var _ = Describe("TrackerMapper", func() {
	var m *mapper.TrackerMapper

	BeforeEach(func() {
		m = mapper.NewTrackerMapper(time.UTC)
	})

	It("builds the content type from tracker and status names", func() {
		record := m.Map(model.Issue{
			ID:          "42",
			Provider:    model.ProviderRedmine,
			Subject:     "Quarterly export",
			Description: "pharmacircle feed",
			TrackerName: "Feature",
			StatusName:  "New",
			AuthorName:  "alice",
			CreatedAt:   time.Date(2024, 3, 10, 9, 15, 0, 999_000_000, time.UTC),
		})

		Expect(record.Platform).To(Equal(model.PlatformTracker))
		Expect(record.ID).To(Equal("42"))
		Expect(record.ContentType).To(Equal("Tracker: Feature (Status: New)"))
		Expect(record.CreationDate()).To(Equal("2024-03-10 09:15:00"))
		Expect(record.ChannelID()).To(Equal(model.NotApplicable))
		Expect(record.StatusOf()).To(Equal(model.StatusNA))
		Expect(record.Messaging).To(BeNil())
	})

	It("degrades missing names to empty strings", func() {
		record := m.Map(model.Issue{ID: "1", Subject: "s"})
		Expect(record.ContentType).To(Equal("Tracker:  (Status: )"))
		Expect(record.Author).To(BeEmpty())
	})

	Describe("Matches", func() {
		issue := model.Issue{Subject: "Release notes", Description: "Ship the PharmaCircle integration"}

		It("matches the description case-insensitively", func() {
			Expect(m.Matches(issue, "pharmacircle")).To(BeTrue())
		})

		It("matches the subject", func() {
			Expect(m.Matches(issue, "release")).To(BeTrue())
		})

		It("ignores terms found nowhere", func() {
			Expect(m.Matches(issue, "atp")).To(BeFalse())
		})
	})
})
