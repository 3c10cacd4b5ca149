package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OWMAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdash_owm_api_calls_total",
			Help: "Total OpenWeatherMap API calls",
		},
		[]string{"endpoint", "status"},
	)

	OWMAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherdash_owm_api_latency_seconds",
			Help:    "OpenWeatherMap API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdash_lookups_total",
			Help: "Total city lookups by outcome",
		},
		[]string{"outcome"},
	)

	FavoritesSaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherdash_favorites_save_errors_total",
			Help: "Failed writes of the favorites file",
		},
	)
)
