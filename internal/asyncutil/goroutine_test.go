package asyncutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Error(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

func TestGo_RecoversPanicAndLogsName(t *testing.T) {
	logger := &recordingLogger{}
	var wg sync.WaitGroup
	wg.Add(1)
	Go(logger, "watcher", func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	lines := logger.snapshot()
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "goroutine panic [watcher]")
	assert.Contains(t, lines[0], "boom")
}

func TestGo_NilLoggerDoesNotPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	assert.NotPanics(t, func() {
		Go(nil, "anon", func() {
			defer wg.Done()
			panic("boom")
		})
		wg.Wait()
	})
}

func TestRecover_WithoutNameOmitsBrackets(t *testing.T) {
	logger := &recordingLogger{}
	func() {
		defer Recover(logger, "")
		panic("bare")
	}()

	lines := logger.snapshot()
	assert.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "goroutine panic [")
	assert.Contains(t, lines[0], "goroutine panic:")
}

func TestRecover_NoPanicLogsNothing(t *testing.T) {
	logger := &recordingLogger{}
	func() {
		defer Recover(logger, "clean")
	}()
	assert.Empty(t, logger.snapshot())
}
