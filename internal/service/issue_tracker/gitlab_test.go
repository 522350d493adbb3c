package issue_tracker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"worksearch.app/aggregator/internal/model"
	issue_tracker "worksearch.app/aggregator/internal/service/issue_tracker"
)

var _ = Describe("GitLab IssueTrackerService", func() {
	var server *httptest.Server

	AfterEach(func() {
		server.Close()
	})

	It("lists issues across pages with scope all", func() {
		var scopes, paths []string
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			scopes = append(scopes, r.URL.Query().Get("scope"))

			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("page") == "2" {
				_ = json.NewEncoder(w).Encode([]map[string]any{
					{"id": 2, "iid": 2, "title": "second", "state": "closed", "created_at": "2024-03-11T10:00:00Z"},
				})
				return
			}
			w.Header().Set("X-Next-Page", "2")
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{
					"id": 1, "iid": 1, "title": "first", "description": "pharmacircle",
					"state": "opened", "issue_type": "incident",
					"author":     map[string]any{"id": 9, "username": "bob"},
					"created_at": "2024-03-10T09:15:00Z",
				},
			})
		}))

		svc, err := issue_tracker.NewGitLabIssueTrackerService(server.URL, "token")
		Expect(err).NotTo(HaveOccurred())
		Expect(svc.Provider()).To(Equal(model.ProviderGitLab))

		issues, err := svc.ListIssues(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(issues).To(HaveLen(2))
		Expect(scopes).To(HaveEach("all"))
		Expect(paths).To(HaveEach("/api/v4/issues"))

		Expect(issues[0].ID).To(Equal("1"))
		Expect(issues[0].TrackerName).To(Equal("incident"))
		Expect(issues[0].StatusName).To(Equal("opened"))
		Expect(issues[0].AuthorName).To(Equal("bob"))
		Expect(issues[1].TrackerName).To(Equal("issue"))
		Expect(issues[1].AuthorName).To(BeEmpty())
	})
})
