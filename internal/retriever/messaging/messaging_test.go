package messaging_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/retriever"
	"worksearch.app/aggregator/internal/retriever/messaging"
)

var base = time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC)

func hit(id, channel, root string) model.Post {
	return model.Post{ID: id, ChannelID: channel, RootID: root, Message: "#atp"}
}

func threadOf(rootID string, messages ...string) model.Thread {
	posts := []model.Post{{ID: rootID, ChannelID: "allowed", UserID: "u0", Message: messages[0], CreatedAt: base}}
	for i, msg := range messages[1:] {
		posts = append(posts, model.Post{
			ID:        fmt.Sprintf("%s-r%d", rootID, i+1),
			ChannelID: "allowed",
			RootID:    rootID,
			UserID:    fmt.Sprintf("u%d", i+1),
			Message:   msg,
			CreatedAt: base.Add(time.Duration(i+1) * time.Minute),
		})
	}
	return model.Thread{Posts: posts}
}

var _ = Describe("Messaging retriever", func() {
	var (
		ctx context.Context
		svc *mockMessagingService
		r   retriever.Retriever
	)

	BeforeEach(func() {
		ctx = context.Background()
		svc = &mockMessagingService{}
		r = messaging.New(svc, messaging.Config{
			Channels:    []string{"allowed"},
			Concurrency: 2,
			Location:    time.UTC,
		})
	})

	It("rejects terms without a hashtag before any network call", func() {
		for _, term := range []string{"atp", "", " #atp", "atp#"} {
			records, err := r.Fetch(ctx, term)
			Expect(records).To(BeEmpty())
			Expect(err).To(MatchError(messaging.ErrHashtagRequired))
		}
		Expect(svc.totalCalls()).To(Equal(0))
	})

	It("returns nothing when the identity has no team", func() {
		svc.listTeamsFn = func(context.Context) ([]model.Team, error) { return nil, nil }

		records, err := r.Fetch(ctx, "#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})

	It("searches the first team only", func() {
		var searchedTeam string
		svc.listTeamsFn = func(context.Context) ([]model.Team, error) {
			return []model.Team{{ID: "first"}, {ID: "second"}}, nil
		}
		svc.searchPostsFn = func(_ context.Context, teamID, _ string) ([]model.Post, error) {
			searchedTeam = teamID
			return nil, nil
		}

		_, err := r.Fetch(ctx, "#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(searchedTeam).To(Equal("first"))
	})

	It("produces a completed record for the killed-a-prey scenario", func() {
		svc.searchPostsFn = func(context.Context, string, string) ([]model.Post, error) {
			return []model.Post{hit("root", "allowed", "")}, nil
		}
		svc.getThreadFn = func(_ context.Context, rootID string) (model.Thread, error) {
			return threadOf(rootID, "starting atp task", "killed a prey: atp done"), nil
		}

		records, err := r.Fetch(ctx, "#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].StatusOf()).To(Equal(model.StatusCompleted))
		Expect(records[0].Description).To(MatchRegexp(`(?s)starting atp task.*killed a prey: atp done`))
	})

	It("collapses hits from one thread into a single record", func() {
		svc.searchPostsFn = func(context.Context, string, string) ([]model.Post, error) {
			return []model.Post{
				hit("reply1", "allowed", "root"),
				hit("root", "allowed", ""),
				hit("reply2", "allowed", "root"),
			}, nil
		}
		svc.getThreadFn = func(_ context.Context, rootID string) (model.Thread, error) {
			return threadOf(rootID, "kickoff", "#atp one", "#atp two"), nil
		}

		records, err := r.Fetch(ctx, "#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].ID).To(Equal("root"))
		Expect(svc.threads()).To(Equal([]string{"root"}))
	})

	It("ignores hits outside the channel allow-list", func() {
		svc.searchPostsFn = func(context.Context, string, string) ([]model.Post, error) {
			return []model.Post{hit("x", "elsewhere", "")}, nil
		}

		records, err := r.Fetch(ctx, "#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
		Expect(svc.threads()).To(BeEmpty())
	})

	It("discards threads without a relevant reply and keeps ongoing ones", func() {
		svc.searchPostsFn = func(context.Context, string, string) ([]model.Post, error) {
			return []model.Post{hit("lonely", "allowed", ""), hit("busy", "allowed", "")}, nil
		}
		svc.getThreadFn = func(_ context.Context, rootID string) (model.Thread, error) {
			if rootID == "lonely" {
				return threadOf(rootID, "#atp kickoff", "unrelated chatter"), nil
			}
			return threadOf(rootID, "kickoff", "#atp progress"), nil
		}

		records, err := r.Fetch(ctx, "#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].ID).To(Equal("busy"))
		Expect(records[0].StatusOf()).To(Equal(model.StatusOngoing))
	})

	It("isolates per-thread failures and keeps first-seen order", func() {
		svc.searchPostsFn = func(context.Context, string, string) ([]model.Post, error) {
			return []model.Post{
				hit("t1", "allowed", ""),
				hit("t2", "allowed", ""),
				hit("t3", "allowed", ""),
				hit("t4", "allowed", ""),
			}, nil
		}
		svc.getThreadFn = func(_ context.Context, rootID string) (model.Thread, error) {
			if rootID == "t2" {
				return model.Thread{}, errors.New("thread timeout")
			}
			if rootID == "t1" {
				time.Sleep(20 * time.Millisecond)
			}
			return threadOf(rootID, "kickoff", "#atp update"), nil
		}

		records, err := r.Fetch(ctx, "#atp")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(3))
		Expect([]string{records[0].ID, records[1].ID, records[2].ID}).To(Equal([]string{"t1", "t3", "t4"}))
	})

	It("fails soft when search is unavailable", func() {
		svc.searchPostsFn = func(context.Context, string, string) ([]model.Post, error) {
			return nil, errors.New("401 unauthorized")
		}

		records, err := r.Fetch(ctx, "#atp")
		Expect(records).To(BeEmpty())
		Expect(err).To(MatchError(retriever.ErrUpstreamUnavailable))
	})

	It("fails soft when teams cannot be listed", func() {
		svc.listTeamsFn = func(context.Context) ([]model.Team, error) {
			return nil, errors.New("dial tcp: refused")
		}

		records, err := r.Fetch(ctx, "#atp")
		Expect(records).To(BeEmpty())
		Expect(errors.Is(err, retriever.ErrUpstreamUnavailable)).To(BeTrue())
	})
})
