// Package metrics holds the process-wide prometheus collectors and the /metrics handler
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var moderationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustrank_moderation_decisions_total",
	Help: "Moderation decisions by outcome",
}, []string{"approved"})

var fraudFlagged = promauto.NewCounter(prometheus.CounterOpts{
	Name: "trustrank_fraud_flagged_total",
	Help: "Fraud checks that crossed the fraudulent threshold",
})

var failOpen = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustrank_fail_open_total",
	Help: "Analyses that fell back to their neutral default",
}, []string{"component"})

var rankCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "trustrank_rank_candidates",
	Help:    "Candidate count per rank request",
	Buckets: prometheus.ExponentialBuckets(1, 2, 12),
})

var sweepProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustrank_sweep_posts_total",
	Help: "Posts moderated by the sweep runner",
}, []string{"approved"})

var pgQuery = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "trustrank_pg_query_seconds",
	Help:    "Postgres statement latency by operation and outcome",
	Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
}, []string{"op", "ok"})

var httpRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "trustrank_http_request_seconds",
	Help:    "HTTP request latency by method, route pattern and status",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// ModerationDecision counts one decision
func ModerationDecision(approved bool) {
	moderationDecisions.WithLabelValues(strconv.FormatBool(approved)).Inc()
}

// FraudFlagged counts one fraudulent signal
func FraudFlagged() { fraudFlagged.Inc() }

// FailOpen counts a fallback in component
func FailOpen(component string) { failOpen.WithLabelValues(component).Inc() }

// FailOpenHook adapts FailOpen to the core packages' failure hooks
func FailOpenHook(component string) func(error) {
	return func(error) { FailOpen(component) }
}

// RankCandidates observes a rank request size
func RankCandidates(n int) { rankCandidates.Observe(float64(n)) }

// SweepProcessed counts one post handled by the sweep
func SweepProcessed(approved bool) {
	sweepProcessed.WithLabelValues(strconv.FormatBool(approved)).Inc()
}

// PGQuery observes one postgres statement
func PGQuery(op string, d time.Duration, err error) {
	pgQuery.WithLabelValues(op, strconv.FormatBool(err == nil)).Observe(d.Seconds())
}

// HTTPRequest observes one served request
func HTTPRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }
