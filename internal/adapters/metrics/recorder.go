// Package metrics records deployment outcomes as Prometheus metrics and
// exports them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements usecase.MetricsRecorder on a private registry
type Recorder struct {
	registry    *prometheus.Registry
	path        string
	deployments *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	gasUsed     *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// NewRecorder creates a recorder. Metrics are written on Flush only when a
// metrics file is configured.
func NewRecorder(cfg *config.RuntimeConfig) *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		path:     cfg.MetricsFile,
		deployments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pid_deployments_total",
				Help: "Total number of deployment runs by outcome",
			},
			[]string{"contract", "network", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pid_deployment_duration_seconds",
				Help:    "Time from connecting to the confirmed deployment",
				Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"contract", "network"},
		),
		gasUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pid_deployment_gas_used",
				Help: "Gas used by the last successful contract creation",
			},
			[]string{"contract", "network"},
		),
		lastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pid_deployment_last_success_timestamp_seconds",
				Help: "Unix time of the last successful deployment",
			},
			[]string{"contract", "network"},
		),
	}
}

// ObserveDeployment records one finished run
func (r *Recorder) ObserveDeployment(contract, network string, outcome usecase.DeploymentOutcome, duration time.Duration, gasUsed uint64) {
	r.deployments.WithLabelValues(contract, network, string(outcome)).Inc()
	r.duration.WithLabelValues(contract, network).Observe(duration.Seconds())

	if outcome == usecase.OutcomeSuccess {
		r.gasUsed.WithLabelValues(contract, network).Set(float64(gasUsed))
		r.lastSuccess.WithLabelValues(contract, network).SetToCurrentTime()
	}
}

// Flush writes the registry to the metrics file, if configured
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", r.path, err)
	}
	return nil
}

// Ensure Recorder implements MetricsRecorder
var _ usecase.MetricsRecorder = (*Recorder)(nil)
