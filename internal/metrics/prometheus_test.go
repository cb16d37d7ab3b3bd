package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNoop_DoesNotPanic(t *testing.T) {
	r := Noop()
	assert.NotPanics(t, func() {
		r.SessionCreated()
		r.SessionDeleted()
		r.ToolCalled("shell", true)
		r.ContextSyncWaited(time.Second, false)
	})
}

func TestPrometheusRecorder_CountsSessionsAndTools(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.SessionCreated()
	r.SessionCreated()
	r.SessionDeleted()
	r.ToolCalled("shell", true)
	r.ToolCalled("shell", false)
	r.ContextSyncWaited(2*time.Second, true)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.sessionsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.sessionsDeleted))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.toolCalls.WithLabelValues("shell", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.toolCalls.WithLabelValues("shell", "false")))

	count, err := testutil.GatherAndCount(reg, "agentbay_context_sync_wait_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBoolLabel(t *testing.T) {
	assert.Equal(t, "true", boolLabel(true))
	assert.Equal(t, "false", boolLabel(false))
}
