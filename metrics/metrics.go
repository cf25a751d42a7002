package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movieapp",
		Name:      "upstream_requests_total",
		Help:      "Total requests to the TMDB API by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "movieapp",
		Name:      "upstream_request_duration_seconds",
		Help:      "TMDB request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	MovieCacheWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movieapp",
		Name:      "movie_cache_writes_total",
		Help:      "Total background movie cache writes by outcome.",
	}, []string{"outcome"})

	SearchMetricUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movieapp",
		Name:      "search_metric_updates_total",
		Help:      "Total search metric writes, split into created and incremented rows.",
	}, []string{"outcome"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		MovieCacheWritesTotal,
		SearchMetricUpdatesTotal,
	)
}
