package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusProviderMetrics implements ProviderMetrics on Prometheus collectors.
type PrometheusProviderMetrics struct {
	requests     *prometheus.CounterVec
	failures     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	audioSeconds *prometheus.CounterVec
}

// NewProviderMetrics registers the provider collectors on reg.
func NewProviderMetrics(reg prometheus.Registerer) *PrometheusProviderMetrics {
	factory := promauto.With(reg)
	return &PrometheusProviderMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2t",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Transcription requests by provider and result.",
		}, []string{"provider", "result"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2t",
			Subsystem: "provider",
			Name:      "errors_total",
			Help:      "Failed transcription requests by provider and error type.",
		}, []string{"provider", "error_type"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "a2t",
			Subsystem: "provider",
			Name:      "latency_seconds",
			Help:      "Wall time from upload to terminal transcript status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"provider"}),
		audioSeconds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2t",
			Subsystem: "provider",
			Name:      "audio_seconds_total",
			Help:      "Seconds of audio transcribed.",
		}, []string{"provider"}),
	}
}

// RecordSuccess records a successful transcription
func (m *PrometheusProviderMetrics) RecordSuccess(provider string, latencyMs int64, audioLengthSec float64) {
	m.requests.WithLabelValues(provider, "success").Inc()
	m.latency.WithLabelValues(provider).Observe(float64(latencyMs) / 1000)
	if audioLengthSec > 0 {
		m.audioSeconds.WithLabelValues(provider).Add(audioLengthSec)
	}
}

// RecordFailure records a failed transcription
func (m *PrometheusProviderMetrics) RecordFailure(provider string, errorType string) {
	m.requests.WithLabelValues(provider, "failure").Inc()
	m.failures.WithLabelValues(provider, errorType).Inc()
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordSuccess(string, int64, float64) {}
func (NopMetrics) RecordFailure(string, string)         {}
