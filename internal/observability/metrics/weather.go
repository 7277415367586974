package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathermate_weather_lookups_total",
			Help: "Total number of weather lookups by outcome",
		},
		[]string{"outcome"},
	)

	WeatherProviderDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weathermate_weather_provider_duration_seconds",
			Help:    "Duration of weather provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	HistoryRecordsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weathermate_history_records_written_total",
			Help: "Total number of search history records written",
		},
	)
)
