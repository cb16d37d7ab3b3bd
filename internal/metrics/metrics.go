// Package metrics is an optional instrumentation hook: the core library
// works with a no-op Recorder so embedding it never forces a Prometheus
// registry on a caller that doesn't want one.
package metrics

import "time"

// Recorder receives counts and durations from SDK operations.
type Recorder interface {
	SessionCreated()
	SessionDeleted()
	ToolCalled(name string, success bool)
	ContextSyncWaited(d time.Duration, success bool)
}

type noopRecorder struct{}

func (noopRecorder) SessionCreated()                                {}
func (noopRecorder) SessionDeleted()                                {}
func (noopRecorder) ToolCalled(string, bool)                        {}
func (noopRecorder) ContextSyncWaited(time.Duration, bool)          {}

// Noop returns a Recorder that discards everything.
func Noop() Recorder { return noopRecorder{} }
