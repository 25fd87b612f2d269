// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommendation outcomes.
const (
	OutcomeServed       = "served"
	OutcomePartial      = "partial"
	OutcomeUserNotFound = "user_not_found"
	OutcomeError        = "error"
)

var (
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roamify_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roamify_rating_submissions_total",
			Help: "Rating submissions by result",
		},
		[]string{"result"},
	)

	TableLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roamify_table_load_duration_seconds",
			Help:    "Time spent loading a tabular file from its backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "table"},
	)

	TableLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roamify_table_load_errors_total",
			Help: "Failed tabular file loads",
		},
		[]string{"backend", "table"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roamify_events_published_total",
			Help: "Rating events handed to the message broker by result",
		},
		[]string{"result"},
	)
)

// ObserveTableLoad records the duration of a load started at start, and an
// error count when err is not nil.
func ObserveTableLoad(backend, table string, start time.Time, err error) {
	TableLoadDuration.WithLabelValues(backend, table).Observe(time.Since(start).Seconds())
	if err != nil {
		TableLoadErrors.WithLabelValues(backend, table).Inc()
	}
}

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
