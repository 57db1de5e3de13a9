// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
)

var (
	// HTTP
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// LLM providers
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_provider_call_duration_seconds",
			Help:    "Duration of LLM provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	ProviderCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_provider_errors_total",
			Help: "Total number of failed LLM provider calls",
		},
		[]string{"provider", "kind"},
	)

	// Content sources
	ArticleFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "article_fetch_duration_seconds",
			Help:    "Duration of article fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// Quiz answer keys
	QuizKeysStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_answer_keys_stored_total",
			Help: "Total number of quiz answer keys cached for scoring",
		},
	)

	QuizKeyMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_answer_key_misses_total",
			Help: "Total number of attempts submitted for an unknown or expired quiz",
		},
	)
)

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordProviderCall(provider string, duration time.Duration, err error) {
	ProviderCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		ProviderCallErrors.WithLabelValues(provider, string(apperr.KindOf(err))).Inc()
	}
}

func RecordArticleFetch(duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	ArticleFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
