package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	upstreamFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worksearch_upstream_fetch_total",
		Help: "Upstream fetches by platform and outcome",
	}, []string{"platform", "outcome"})

	upstreamFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worksearch_upstream_fetch_duration_seconds",
		Help:    "Time spent fetching and normalizing records from one platform",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"platform"})

	threadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worksearch_thread_failures_total",
		Help: "Messaging threads skipped because fetching them failed",
	})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worksearch_cache_lookups_total",
		Help: "Result cache lookups by result",
	}, []string{"result"})

	handlerPanicsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worksearch_http_panics_total",
		Help: "HTTP handler panics recovered, by route",
	}, []string{"route"})

	recordsReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worksearch_records_returned",
		Help:    "Records produced per platform per search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	}, []string{"platform"})
)

// ObserveFetch records one platform fetch that started at start.
func ObserveFetch(platform string, start time.Time, records int, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	upstreamFetchTotal.WithLabelValues(platform, outcome).Inc()
	upstreamFetchDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())
	recordsReturned.WithLabelValues(platform).Observe(float64(records))
}

func ThreadFailed() {
	threadFailuresTotal.Inc()
}

func CacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

func HandlerPanic(route string) {
	handlerPanicsTotal.WithLabelValues(route).Inc()
}
