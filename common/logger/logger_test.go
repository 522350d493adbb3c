package logger_test

import (
	"bytes"
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"worksearch.app/aggregator/common/logger"
)

var _ = Describe("LogFields", func() {
	It("merges newer values over older ones", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			SearchID:   logger.Ptr(int64(7)),
			SearchTerm: logger.Ptr("#atp"),
			Component:  "worksearch.aggregator",
		})
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			ThreadID:  logger.Ptr("root1"),
			Component: "worksearch.retriever.messaging",
		})

		fields := logger.GetLogFields(ctx)
		Expect(*fields.SearchID).To(Equal(int64(7)))
		Expect(*fields.SearchTerm).To(Equal("#atp"))
		Expect(*fields.ThreadID).To(Equal("root1"))
		Expect(fields.Scope).To(BeNil())
		Expect(fields.Component).To(Equal("worksearch.retriever.messaging"))
	})

	It("returns empty fields for a bare context", func() {
		Expect(logger.GetLogFields(context.Background())).To(Equal(logger.LogFields{}))
	})
})

var _ = Describe("TraceHandler", func() {
	It("adds context fields to every record", func() {
		var buf bytes.Buffer
		log := slog.New(logger.NewTraceHandler(slog.NewTextHandler(&buf, nil)))

		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			SearchID: logger.Ptr(int64(42)),
			Scope:    logger.Ptr("messaging"),
		})
		log.InfoContext(ctx, "fetched")

		Expect(buf.String()).To(ContainSubstring("search_id=42"))
		Expect(buf.String()).To(ContainSubstring("scope=messaging"))
		Expect(buf.String()).NotTo(ContainSubstring("trace_id"))
	})
})

var _ = Describe("Truncate", func() {
	It("leaves short strings alone", func() {
		Expect(logger.Truncate("abc", 5)).To(Equal("abc"))
	})

	It("cuts long strings and marks them", func() {
		Expect(logger.Truncate("abcdefgh", 3)).To(Equal("abc..."))
	})
})
