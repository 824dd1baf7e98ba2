// Package metrics holds the Prometheus instruments for report builds.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the report pipeline. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Report builds by outcome: ok, invalid_input, error
	Reports *prometheus.CounterVec

	// Pages by kind and outcome: ok, placeholder
	Pages *prometheus.CounterVec

	// Density estimates by entity (team, actor, zone) and status
	DensityResults *prometheus.CounterVec

	ComposeDuration prometheus.Histogram

	registry *prometheus.Registry
}

// New registers all instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Reports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attackmetrics_reports_total",
			Help: "Report builds by outcome",
		}, []string{"outcome"}),

		Pages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attackmetrics_pages_total",
			Help: "Composed pages by kind and outcome",
		}, []string{"kind", "outcome"}),

		DensityResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attackmetrics_density_results_total",
			Help: "Density estimates by entity and status",
		}, []string{"entity", "status"}),

		ComposeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "attackmetrics_compose_duration_seconds",
			Help:    "Duration of report composition",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		registry: reg,
	}
}

// Registry exposes the underlying registry for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncReport records one report build outcome.
func (m *Metrics) IncReport(outcome string) {
	if m != nil {
		m.Reports.WithLabelValues(outcome).Inc()
	}
}

// IncPage records one composed page.
func (m *Metrics) IncPage(kind, outcome string) {
	if m != nil {
		m.Pages.WithLabelValues(kind, outcome).Inc()
	}
}

// IncDensity records one density estimate.
func (m *Metrics) IncDensity(entity, status string) {
	if m != nil {
		m.DensityResults.WithLabelValues(entity, status).Inc()
	}
}

// ObserveCompose records the wall time of one composition.
func (m *Metrics) ObserveCompose(d time.Duration) {
	if m != nil {
		m.ComposeDuration.Observe(d.Seconds())
	}
}
