package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ConversionMetrics instruments the worker's paper-to-narration pipeline.
// It also satisfies the conversion observer port so the use case can report
// pipeline measurements without knowing about Prometheus.
type ConversionMetrics struct {
	registry *prometheus.Registry

	conversionTotal    *prometheus.CounterVec
	conversionDuration prometheus.Histogram
	activeJobs         prometheus.Gauge
	paperSizeBytes     prometheus.Histogram
	equationCount      prometheus.Histogram
	tableCount         prometheus.Histogram
	synthesisLatency   prometheus.Histogram
	queueLag           prometheus.Histogram
}

func NewConversionMetrics(service string) *ConversionMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	conversionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "paper_conversion_requests_total",
			Help:        "Total paper conversion jobs by terminal status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	conversionDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "paper_conversion_duration_seconds",
			Help:        "End-to-end conversion duration in seconds.",
			Buckets:     []float64{10, 30, 60, 120, 300, 600, 1800},
			ConstLabels: constLabels,
		},
	)
	activeJobs := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "paper_conversion_active_jobs",
			Help:        "Number of conversions currently in flight.",
			ConstLabels: constLabels,
		},
	)
	paperSizeBytes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "paper_size_bytes",
			Help:        "Size of submitted papers in bytes.",
			Buckets:     prometheus.ExponentialBuckets(16*1024, 4, 8),
			ConstLabels: constLabels,
		},
	)
	equationCount := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "paper_equation_count",
			Help:        "Equations found per paper.",
			Buckets:     []float64{0, 1, 2, 5, 10, 20, 50, 100},
			ConstLabels: constLabels,
		},
	)
	tableCount := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "paper_table_count",
			Help:        "Tables found per paper.",
			Buckets:     []float64{0, 1, 2, 5, 10, 20, 50},
			ConstLabels: constLabels,
		},
	)
	synthesisLatency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "tts_generation_latency_seconds",
			Help:        "Speech synthesis latency per narration chunk.",
			Buckets:     []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			ConstLabels: constLabels,
		},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "paper_conversion_queue_lag_seconds",
			Help:        "Delay between job submission and conversion start.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: constLabels,
		},
	)

	registry.MustRegister(
		conversionTotal,
		conversionDuration,
		activeJobs,
		paperSizeBytes,
		equationCount,
		tableCount,
		synthesisLatency,
		queueLag,
	)

	return &ConversionMetrics{
		registry:           registry,
		conversionTotal:    conversionTotal,
		conversionDuration: conversionDuration,
		activeJobs:         activeJobs,
		paperSizeBytes:     paperSizeBytes,
		equationCount:      equationCount,
		tableCount:         tableCount,
		synthesisLatency:   synthesisLatency,
		queueLag:           queueLag,
	}
}

func (m *ConversionMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ConversionMetrics) StartConversion() {
	m.activeJobs.Inc()
}

func (m *ConversionMetrics) FinishConversion(duration time.Duration, err error) {
	m.activeJobs.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.conversionTotal.WithLabelValues(status).Inc()
	m.conversionDuration.Observe(duration.Seconds())
}

func (m *ConversionMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}

func (m *ConversionMetrics) ObservePaperSize(sizeBytes int64) {
	m.paperSizeBytes.Observe(float64(sizeBytes))
}

func (m *ConversionMetrics) ObserveStructure(equations, tables int) {
	m.equationCount.Observe(float64(equations))
	m.tableCount.Observe(float64(tables))
}

func (m *ConversionMetrics) ObserveSynthesisLatency(latency time.Duration) {
	m.synthesisLatency.Observe(latency.Seconds())
}
