package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ssd-validator/internal/suite"
	"ssd-validator/pkg/types"
)

// Metrics holds all Prometheus metrics for a validation run
type Metrics struct {
	Registry *prometheus.Registry

	CheckDuration    *prometheus.HistogramVec
	CheckResults     *prometheus.CounterVec
	CheckStatus      *prometheus.GaugeVec
	SuiteDuration    *prometheus.GaugeVec
	RunInfo          *prometheus.GaugeVec
	LastRunTimestamp prometheus.Gauge
}

// New creates and registers all metrics on a private registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ssd_validation_check_duration_seconds",
				Help:    "Wall time of each validation check",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 900},
			},
			[]string{"suite", "check"},
		),
		CheckResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ssd_validation_check_results_total",
				Help: "Validation checks by outcome (ok, failed, skipped)",
			},
			[]string{"suite", "outcome"},
		),
		CheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ssd_validation_check_status",
				Help: "Last check status (0=unknown, 1=ok, 2=failed, 3=skipped)",
			},
			[]string{"suite", "check"},
		),
		SuiteDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ssd_validation_suite_duration_seconds",
				Help: "Wall time of each suite run",
			},
			[]string{"suite"},
		),
		RunInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ssd_validation_run_info",
				Help: "Information about the validation run",
			},
			[]string{"run_id", "device", "model"},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ssd_validation_last_run_timestamp_seconds",
				Help: "Unix time the last validation run finished",
			},
		),
	}

	m.Registry.MustRegister(
		m.CheckDuration,
		m.CheckResults,
		m.CheckStatus,
		m.SuiteDuration,
		m.RunInfo,
		m.LastRunTimestamp,
	)

	return m
}

// ObserveCheck records one check outcome
func (m *Metrics) ObserveCheck(suiteName string, r suite.CheckResult) {
	status := r.Status()
	m.CheckResults.WithLabelValues(suiteName, status.String()).Inc()
	m.CheckStatus.WithLabelValues(suiteName, r.Name).Set(float64(status))
	if status != types.CheckStatusSkipped {
		m.CheckDuration.WithLabelValues(suiteName, r.Name).Observe(r.Duration.Seconds())
	}
}

// ObserveSuite records how long a suite took
func (m *Metrics) ObserveSuite(suiteName string, d time.Duration) {
	m.SuiteDuration.WithLabelValues(suiteName).Set(d.Seconds())
}

// SetRunInfo labels the run
func (m *Metrics) SetRunInfo(runID string, dev types.Device) {
	m.RunInfo.Reset()
	m.RunInfo.WithLabelValues(runID, dev.Path, dev.Model).Set(1)
}

// Finish stamps the end of the run
func (m *Metrics) Finish(t time.Time) {
	m.LastRunTimestamp.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics in the node_exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
