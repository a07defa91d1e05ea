// Package metrics exposes prometheus instruments for reconciliation runs and
// the HTTP facade.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/match"
)

// Reconcile outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeNoMatches      = "no_matches"
	OutcomeColumnNotFound = "column_not_found"
	OutcomeError          = "error"
)

// Metrics holds every instrument. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	// Reconciliation runs by outcome
	ReconcileRuns *prometheus.CounterVec

	// Distinct district names resolved, by match kind
	MatchResults *prometheus.CounterVec

	// Similarity scores of accepted fuzzy matches
	FuzzyScore prometheus.Histogram

	ReconcileLatency prometheus.Histogram

	// Locate and distance lookups by operation and whether a district was found
	Lookups *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New registers all instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ReconcileRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "districtviz_reconcile_runs_total",
			Help: "Reconciliation runs by outcome",
		}, []string{"outcome"}),

		MatchResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "districtviz_match_results_total",
			Help: "Distinct district names resolved, by match kind",
		}, []string{"kind"}),

		FuzzyScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "districtviz_fuzzy_match_score",
			Help:    "Similarity score of accepted fuzzy matches",
			Buckets: []float64{82, 85, 88, 91, 94, 97, 100},
		}),

		ReconcileLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "districtviz_reconcile_duration_seconds",
			Help:    "Duration of one reconciliation run",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "districtviz_lookups_total",
			Help: "Point and distance lookups by operation and result",
		}, []string{"op", "found"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "districtviz_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status"}),

		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "districtviz_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}
}

// ObserveReconcile records one run and the match report it produced.
func (m *Metrics) ObserveReconcile(outcome string, report []match.Result, d time.Duration) {
	if m == nil {
		return
	}
	m.ReconcileRuns.WithLabelValues(outcome).Inc()
	m.ReconcileLatency.Observe(d.Seconds())
	for _, r := range report {
		m.MatchResults.WithLabelValues(string(r.Kind)).Inc()
		if r.Kind == match.KindFuzzy && r.Score != nil {
			m.FuzzyScore.Observe(float64(*r.Score))
		}
	}
}

// ObserveLookup records a locate or distance lookup.
func (m *Metrics) ObserveLookup(op string, found bool) {
	if m == nil {
		return
	}
	label := "false"
	if found {
		label = "true"
	}
	m.Lookups.WithLabelValues(op, label).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, status).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
