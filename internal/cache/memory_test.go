package cache_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"worksearch.app/aggregator/internal/cache"
	"worksearch.app/aggregator/internal/model"
)

var _ = Describe("MemoryStore", func() {
	var (
		ctx   context.Context
		store *cache.MemoryStore
		clock time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
		store = cache.NewMemoryStore()
		store.SetClock(func() time.Time { return clock })
	})

	It("returns stored entries until the TTL elapses", func() {
		entry := cache.Entry{Records: []model.Record{{ID: "1"}}, FetchedAt: clock}
		Expect(store.Set(ctx, "all:#atp", entry, 30*time.Minute)).To(Succeed())

		clock = clock.Add(29 * time.Minute)
		got, ok, err := store.Get(ctx, "all:#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(got.Records).To(HaveLen(1))

		clock = clock.Add(time.Minute)
		_, ok, err = store.Get(ctx, "all:#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(store.Len()).To(Equal(0))
	})

	It("evicts expired items when writing", func() {
		Expect(store.Set(ctx, "a", cache.Entry{}, time.Minute)).To(Succeed())
		clock = clock.Add(2 * time.Minute)
		Expect(store.Set(ctx, "b", cache.Entry{}, time.Minute)).To(Succeed())
		Expect(store.Len()).To(Equal(1))
	})

	It("deletes single keys and clears everything", func() {
		Expect(store.Set(ctx, "a", cache.Entry{}, time.Minute)).To(Succeed())
		Expect(store.Set(ctx, "b", cache.Entry{}, time.Minute)).To(Succeed())

		Expect(store.Delete(ctx, "a")).To(Succeed())
		_, ok, _ := store.Get(ctx, "a")
		Expect(ok).To(BeFalse())
		_, ok, _ = store.Get(ctx, "b")
		Expect(ok).To(BeTrue())

		Expect(store.Clear(ctx)).To(Succeed())
		Expect(store.Len()).To(Equal(0))
	})
})

var _ = Describe("Key", func() {
	It("distinguishes scopes and keeps the exact term", func() {
		Expect(cache.Key("#atp", model.ScopeAll)).To(Equal("all:#atp"))
		Expect(cache.Key("#atp", model.ScopeMessaging)).NotTo(Equal(cache.Key("#atp", model.ScopeAll)))
		Expect(cache.Key("#ATP", model.ScopeAll)).NotTo(Equal(cache.Key("#atp", model.ScopeAll)))
	})
})
