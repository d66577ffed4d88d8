package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for GenerationRequests.
const (
	OutcomeSuccess    = "success"
	OutcomeDefaulted  = "defaulted"
	OutcomeExtraction = "extraction_error"
	OutcomeTransport  = "transport_error"
	OutcomeEmpty      = "empty_response"
	OutcomeInvalid    = "invalid_request"
	OutcomeCanceled   = "canceled"
)

var (
	// GenerationRequests counts pipeline runs by category and outcome
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_generation_requests_total",
			Help: "Total number of generation pipeline runs by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	// DefaultedFields counts schema fields filled from defaults
	DefaultedFields = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_defaulted_fields_total",
			Help: "Total number of result fields substituted with defaults by category",
		},
		[]string{"category"},
	)

	// CompletionLatency tracks the time spent waiting for the model
	CompletionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "creator_completion_latency_seconds",
			Help:    "Latency of completion calls including retries",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "category"},
	)

	// AgentRuns counts scheduled agent runs by agent and result
	AgentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_agent_runs_total",
			Help: "Total number of scheduled agent runs by agent and result",
		},
		[]string{"agent", "result"},
	)
)
