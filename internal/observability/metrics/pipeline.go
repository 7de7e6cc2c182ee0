package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/kirillkom/textcat/internal/core/domain"
)

// PipelineMetrics keeps run metrics in a private registry. A batch process is
// not scraped, so Push hands them to a Pushgateway when one is configured.
type PipelineMetrics struct {
	registry *prometheus.Registry
	pusher   *push.Pusher

	phaseDuration    *prometheus.GaugeVec
	documentsTotal   *prometheus.CounterVec
	outcomesTotal    *prometheus.CounterVec
	accuracy         prometheus.Gauge
	signatureFailure *prometheus.CounterVec
	sinkFailure      *prometheus.CounterVec
}

func NewPipelineMetrics(service, pushgatewayURL, job string) *PipelineMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	phaseDuration := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   "textcat",
			Subsystem:   "pipeline",
			Name:        "phase_duration_seconds",
			Help:        "Wall time of the last run of each pipeline phase.",
			ConstLabels: constLabels,
		},
		[]string{"phase", "mode"},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "textcat",
			Subsystem:   "pipeline",
			Name:        "documents_total",
			Help:        "Documents loaded per corpus.",
			ConstLabels: constLabels,
		},
		[]string{"corpus"},
	)
	outcomesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "textcat",
			Subsystem:   "classification",
			Name:        "total",
			Help:        "Classified unknown documents by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"},
	)
	accuracy := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "textcat",
			Subsystem:   "classification",
			Name:        "accuracy_percent",
			Help:        "Accuracy of the last classification run.",
			ConstLabels: constLabels,
		},
	)
	signatureFailure := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "textcat",
			Subsystem:   "category",
			Name:        "signature_failures_total",
			Help:        "Categories left without a signature.",
			ConstLabels: constLabels,
		},
		[]string{"category", "reason"},
	)

	sinkFailure := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "textcat",
			Subsystem:   "run",
			Name:        "sink_failures_total",
			Help:        "Run reports a sink failed to record.",
			ConstLabels: constLabels,
		},
		[]string{"sink"},
	)

	registry.MustRegister(phaseDuration, documentsTotal, outcomesTotal, accuracy, signatureFailure, sinkFailure)

	m := &PipelineMetrics{
		registry:         registry,
		phaseDuration:    phaseDuration,
		documentsTotal:   documentsTotal,
		outcomesTotal:    outcomesTotal,
		accuracy:         accuracy,
		signatureFailure: signatureFailure,
		sinkFailure:      sinkFailure,
	}
	if pushgatewayURL != "" {
		if job == "" {
			job = "textcat"
		}
		m.pusher = push.New(pushgatewayURL, job).Gatherer(registry)
	}
	return m
}

func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PipelineMetrics) ObservePhase(phase domain.Phase, mode domain.RunMode, elapsed time.Duration) {
	m.phaseDuration.WithLabelValues(string(phase), string(mode)).Set(elapsed.Seconds())
}

func (m *PipelineMetrics) AddDocuments(corpus string, n int) {
	if n <= 0 {
		return
	}
	m.documentsTotal.WithLabelValues(corpus).Add(float64(n))
}

func (m *PipelineMetrics) ObserveClassification(summary *domain.ClassificationSummary) {
	if summary == nil {
		return
	}
	unclassified := summary.Unclassified()
	m.outcomesTotal.WithLabelValues("correct").Add(float64(summary.Correct))
	m.outcomesTotal.WithLabelValues("incorrect").Add(float64(summary.Total - summary.Correct - unclassified))
	m.outcomesTotal.WithLabelValues("unclassified").Add(float64(unclassified))
	if acc, err := summary.Accuracy(); err == nil {
		m.accuracy.Set(acc)
	}
}

func (m *PipelineMetrics) ObserveSignatureFailure(failure domain.CategoryFailure) {
	m.signatureFailure.WithLabelValues(failure.Label.String(), failure.Reason).Inc()
}

func (m *PipelineMetrics) ObserveSinkFailure(sink string) {
	m.sinkFailure.WithLabelValues(sink).Inc()
}

// Push is a no-op without a Pushgateway.
func (m *PipelineMetrics) Push(ctx context.Context) error {
	if m.pusher == nil {
		return nil
	}
	if err := m.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
