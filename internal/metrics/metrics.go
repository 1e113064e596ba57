package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inventory"

// Outcome labels for tool calls and source loads.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	ToolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tool_calls_total",
		Help:      "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})

	ToolCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tool_call_duration_seconds",
		Help:      "Tool invocation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"tool"})

	SourceLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_loads_total",
		Help:      "Dataset loads by source kind and outcome.",
	}, []string{"kind", "outcome"})

	Products = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "products",
		Help:      "Products in the current-stock mapping of the installed snapshot.",
	})
)

var registerOnce sync.Once

// Register adds the collectors to reg once per process.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(ToolCalls, ToolCallDuration, SourceLoads, Products)
	})
}

// ObserveToolCall records one tool invocation.
func ObserveToolCall(tool, outcome string, started time.Time) {
	ToolCalls.WithLabelValues(tool, outcome).Inc()
	ToolCallDuration.WithLabelValues(tool).Observe(time.Since(started).Seconds())
}
