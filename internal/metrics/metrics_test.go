package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpstream(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUpstream("openai", OutcomeSuccess, 120*time.Millisecond)
	m.ObserveUpstream("openai", OutcomeSuccess, 80*time.Millisecond)
	m.ObserveUpstream("openai", OutcomeTimeout, time.Minute)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("openai", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("openai", OutcomeTimeout)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamLatency))
}

func TestObserveChat(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveChat(200)
	m.ObserveChat(400)
	m.ObserveChat(500)
	m.ObserveChat(500)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues("2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues("4xx")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues("5xx")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("ollama", OutcomeSuccess, time.Second)
		m.ObserveChat(200)
	})
}
