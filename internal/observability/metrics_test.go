package observability

import (
	"strings"
	"testing"
	"time"
)

func newTestMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("dq_api_requests_total", "Total API requests.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"dq_api_request_duration_seconds",
			"API request latency.",
			[]string{"method", "route", "status"},
			[]float64{0.1, 1},
		),
		apiInflight: NewGauge("dq_api_inflight_requests", "In-flight API requests."),
		llmRequests: NewCounterVec("dq_llm_requests_total", "LLM requests.", []string{"endpoint", "status"}),
		llmLatency: NewHistogramVec(
			"dq_llm_request_duration_seconds",
			"LLM request latency.",
			[]string{"endpoint", "status"},
			[]float64{0.1, 1},
		),
		askOutcomes: NewCounterVec("dq_ask_outcomes_total", "Ask outcomes.", []string{"outcome"}),
		retrievalDepth: NewHistogramVec(
			"dq_retrieval_evidence_blocks",
			"Evidence blocks per request.",
			[]string{},
			[]float64{0, 1, 2, 3},
		),
		vectorBootstrap: NewCounterVec("dq_vector_bootstrap_total", "Bootstrap attempts.", []string{"provider", "result", "code"}),
	}
}

func TestWritePrometheusRendersObservations(t *testing.T) {
	m := newTestMetrics()
	m.ObserveAPI("POST", "/api/ask", "200", 50*time.Millisecond)
	m.ObserveAskOutcome("answered")
	m.ObserveAskOutcome("answered")
	m.ObserveAskOutcome("refuse")
	m.ObserveRetrievalDepth(2)
	m.ObserveVectorStoreBootstrap("memory", "success", "none")

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		`dq_api_requests_total{method="POST",route="/api/ask",status="200"} 1.000000`,
		`dq_ask_outcomes_total{outcome="answered"} 2.000000`,
		`dq_ask_outcomes_total{outcome="refuse"} 1.000000`,
		`dq_vector_bootstrap_total{provider="memory",result="success",code="none"} 1.000000`,
		"dq_retrieval_evidence_blocks_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNilMetricsObserversAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/healthcheck", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveLLMRequest("/v1/responses", "200", time.Millisecond)
	m.ObserveAskOutcome("error")
	m.ObserveRetrievalDepth(0)
	m.ObserveVectorStoreBootstrap("qdrant", "error", "connect_failed")
}

func TestGaugeTracksInflight(t *testing.T) {
	m := newTestMetrics()
	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if !strings.Contains(b.String(), "dq_api_inflight_requests 1.000000") {
		t.Fatalf("gauge value wrong:\n%s", b.String())
	}
}
