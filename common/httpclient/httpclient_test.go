package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"worksearch.app/aggregator/common/httpclient"
)

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		server *httptest.Server
		hits   atomic.Int32
		status atomic.Int32
	)

	BeforeEach(func() {
		ctx = context.Background()
		hits.Store(0)
		status.Store(http.StatusOK)

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := hits.Add(1)
			if code := int(status.Load()); code != http.StatusOK {
				// Fail the first attempt only, so retries can recover.
				if code != http.StatusServiceUnavailable || n == 1 {
					w.WriteHeader(code)
					_, _ = w.Write([]byte("nope"))
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"path":   r.URL.Path,
				"method": r.Method,
				"token":  r.Header.Get("X-Token"),
				"accept": r.Header.Get("Accept"),
			})
		}))
		DeferCleanup(server.Close)
	})

	newClient := func(retryMax int) *httpclient.Client {
		header := http.Header{}
		header.Set("X-Token", "secret")
		return httpclient.New(httpclient.Config{
			BaseURL:           server.URL + "/api/",
			Header:            header,
			RetryMax:          retryMax,
			RequestsPerSecond: 100,
		})
	}

	It("joins the base URL and sends configured headers", func() {
		var out map[string]string
		Expect(newClient(0).GetJSON(ctx, "/things", &out)).To(Succeed())
		Expect(out["path"]).To(Equal("/api/things"))
		Expect(out["method"]).To(Equal(http.MethodGet))
		Expect(out["token"]).To(Equal("secret"))
		Expect(out["accept"]).To(Equal("application/json"))
	})

	It("posts JSON bodies", func() {
		var out map[string]string
		Expect(newClient(0).PostJSON(ctx, "/search", map[string]string{"terms": "#atp"}, &out)).To(Succeed())
		Expect(out["method"]).To(Equal(http.MethodPost))
	})

	It("returns a StatusError for client errors without retrying", func() {
		status.Store(http.StatusNotFound)

		err := newClient(3).GetJSON(ctx, "/missing", nil)

		var statusErr *httpclient.StatusError
		Expect(errors.As(err, &statusErr)).To(BeTrue())
		Expect(statusErr.StatusCode).To(Equal(http.StatusNotFound))
		Expect(statusErr.Body).To(Equal("nope"))
		Expect(hits.Load()).To(Equal(int32(1)))
	})

	It("retries server errors", func() {
		status.Store(http.StatusServiceUnavailable)

		var out map[string]string
		Expect(newClient(2).GetJSON(ctx, "/flaky", &out)).To(Succeed())
		Expect(hits.Load()).To(Equal(int32(2)))
	})

	It("stops when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		Expect(newClient(0).GetJSON(cancelled, "/things", nil)).To(MatchError(context.Canceled))
	})
})
