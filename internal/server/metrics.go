package server

import (
	"github.com/leapstack-labs/emlquality/internal/engine"
	"github.com/leapstack-labs/emlquality/pkg/quality"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assessment outcome labels.
const (
	resultClean        = "clean"
	resultQualityError = "quality_error"
	resultError        = "error"
)

// Metrics holds the Prometheus metrics for the API.
type Metrics struct {
	Assessments   *prometheus.CounterVec
	CheckFailures *prometheus.CounterVec
	Duration      prometheus.Histogram
}

// NewMetrics creates the API metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Assessments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emlquality_assessments_total",
			Help: "Total number of package assessments by outcome",
		}, []string{"result"}),
		CheckFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emlquality_check_failures_total",
			Help: "Total number of failed quality checks by check identifier",
		}, []string{"check"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "emlquality_assessment_duration_seconds",
			Help:    "Time spent assessing a package",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveResult records the outcome of one assessment.
func (m *Metrics) ObserveResult(res *engine.Result) {
	if res.HasQualityError() {
		m.Assessments.WithLabelValues(resultQualityError).Inc()
	} else {
		m.Assessments.WithLabelValues(resultClean).Inc()
	}

	countFailures := func(checks []quality.CheckResult) {
		for _, c := range checks {
			if c.Status == quality.StatusFailed {
				m.CheckFailures.WithLabelValues(c.Identifier).Inc()
			}
		}
	}
	countFailures(res.Snapshot.DatasetChecks)
	for _, e := range res.Snapshot.Entities {
		countFailures(e.Checks)
	}
}

// ObserveError records an assessment that could not complete.
func (m *Metrics) ObserveError() {
	m.Assessments.WithLabelValues(resultError).Inc()
}
