// Package metrics provides Prometheus instrumentation for the matchmaker:
// counters for likes, matches and notifications, histograms for candidate
// search and gRPC latency.
//
// Collectors are registered on the Registerer handed to New so tests can use
// a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matchmaker"

// Metrics holds every collector of the service.
type Metrics struct {
	// LikesTotal counts like calls by outcome: "created", "repeated", "failed".
	LikesTotal *prometheus.CounterVec

	// MatchesCreated counts match rows inserted.
	MatchesCreated prometheus.Counter

	// NotificationsTotal counts per-participant deliveries: "sent", "failed".
	NotificationsTotal *prometheus.CounterVec

	// PriorityRecomputes counts coefficient recomputations.
	PriorityRecomputes prometheus.Counter

	// EntitlementsExpired counts owners touched by the expiry sweep.
	EntitlementsExpired prometheus.Counter

	// CandidateSearchDuration records FindCompatible latency in seconds.
	CandidateSearchDuration prometheus.Histogram

	// CandidatesReturned records tier sizes: tier = "high", "low".
	CandidatesReturned *prometheus.HistogramVec

	// GRPCDuration records unary RPC latency by method and status code.
	GRPCDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg. A nil reg gets a
// fresh private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		LikesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "likes_total",
			Help:      "Total number of like calls by outcome",
		}, []string{"outcome"}),

		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Total number of matches created",
		}),

		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Match notifications per participant by outcome",
		}, []string{"outcome"}),

		PriorityRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "priority_recomputes_total",
			Help:      "Total number of priority coefficient recomputations",
		}),

		EntitlementsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_expiry_users_total",
			Help:      "Users whose entitlements were deactivated by the sweep",
		}),

		CandidateSearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_search_duration_seconds",
			Help:      "Compatible candidate search latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),

		CandidatesReturned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_returned",
			Help:      "Number of candidates returned per tier",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}, []string{"tier"}),

		GRPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "Unary gRPC request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}

	reg.MustRegister(
		m.LikesTotal,
		m.MatchesCreated,
		m.NotificationsTotal,
		m.PriorityRecomputes,
		m.EntitlementsExpired,
		m.CandidateSearchDuration,
		m.CandidatesReturned,
		m.GRPCDuration,
	)

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m
}

// NewNop returns metrics bound to a throwaway registry.
func NewNop() *Metrics {
	return New(nil)
}

// Handler returns the Prometheus HTTP handler for the registry the metrics
// were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
