package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeclover_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifeclover_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeclover_turns_total",
			Help: "Total number of dialogue turns, by mode and outcome.",
		},
		[]string{"mode", "status"},
	)

	TurnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifeclover_turn_duration_seconds",
			Help:    "Dialogue turn duration in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"mode"},
	)

	ModelCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeclover_model_calls_total",
			Help: "Total number of language model invocations, by persona.",
		},
		[]string{"persona"},
	)

	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeclover_tool_executions_total",
			Help: "Total number of tool executions, by tool and outcome.",
		},
		[]string{"tool", "status"},
	)

	DialogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeclover_dialog_requests_total",
			Help: "Total number of dialog requests consumed from the stream.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		TurnsTotal,
		TurnDuration,
		ModelCallsTotal,
		ToolExecutionsTotal,
		DialogRequestsTotal,
	)
}
