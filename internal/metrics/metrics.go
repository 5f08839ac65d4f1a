package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chat_relay"

// Outcome labels for upstream calls.
const (
	OutcomeSuccess   = "success"
	OutcomeUpstream  = "upstream_error"
	OutcomeTimeout   = "timeout"
	OutcomeMalformed = "malformed_response"
	OutcomeInternal  = "internal_error"
)

type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	ChatRequests     *prometheus.CounterVec
}

var (
	once   sync.Once
	global *Metrics
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total calls made to the LLM provider, by outcome",
		}, []string{"provider", "outcome"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls made to the LLM provider",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider"}),
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Total POST /chat requests, by response status class",
		}, []string{"status"}),
	}
	reg.MustRegister(m.UpstreamRequests, m.UpstreamLatency, m.ChatRequests)
	return m
}

// Global returns the process-wide metrics registered on the default registry.
func Global() *Metrics {
	once.Do(func() {
		global = New(prometheus.DefaultRegisterer)
	})
	return global
}

// ObserveUpstream records one finished provider call.
func (m *Metrics) ObserveUpstream(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveChat records one finished POST /chat request.
func (m *Metrics) ObserveChat(status int) {
	if m == nil {
		return
	}
	class := "5xx"
	switch {
	case status < 300:
		class = "2xx"
	case status < 500:
		class = "4xx"
	}
	m.ChatRequests.WithLabelValues(class).Inc()
}
