package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder publishes session/tool/context-sync counters to a
// prometheus.Registerer. Construct one with NewPrometheusRecorder and pass
// it to agentbay.WithMetrics.
type PrometheusRecorder struct {
	sessionsCreated   prometheus.Counter
	sessionsDeleted   prometheus.Counter
	toolCalls         *prometheus.CounterVec
	contextSyncWaited *prometheus.HistogramVec
}

// NewPrometheusRecorder registers its metrics on reg and returns a Recorder
// backed by them.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agentbay",
			Name:      "sessions_created_total",
			Help:      "Number of sessions successfully created.",
		}),
		sessionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agentbay",
			Name:      "sessions_deleted_total",
			Help:      "Number of sessions released.",
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentbay",
			Name:      "tool_calls_total",
			Help:      "Number of CallTool invocations by tool name and outcome.",
		}, []string{"tool", "success"}),
		contextSyncWaited: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentbay",
			Name:      "context_sync_wait_seconds",
			Help:      "Time spent waiting for context-sync status to reach a terminal state.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"success"}),
	}
	reg.MustRegister(r.sessionsCreated, r.sessionsDeleted, r.toolCalls, r.contextSyncWaited)
	return r
}

func (r *PrometheusRecorder) SessionCreated() { r.sessionsCreated.Inc() }
func (r *PrometheusRecorder) SessionDeleted() { r.sessionsDeleted.Inc() }

func (r *PrometheusRecorder) ToolCalled(name string, success bool) {
	r.toolCalls.WithLabelValues(name, boolLabel(success)).Inc()
}

func (r *PrometheusRecorder) ContextSyncWaited(d time.Duration, success bool) {
	r.contextSyncWaited.WithLabelValues(boolLabel(success)).Observe(d.Seconds())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
