package agentbay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aliyun/agentbay-sdk-go/internal/asyncutil"
)

const minWatchInterval = 100 * time.Millisecond

// wireFileChangeEvent mirrors the get_file_change tool's JSON shape.
type wireFileChangeEvent struct {
	EventType string `json:"eventType"`
	Path      string `json:"path"`
	PathType  string `json:"pathType"`
}

// WatchDirectory polls the remote path for changes every interval and
// delivers each non-empty batch to callback synchronously, from a
// dedicated background goroutine. It returns immediately; the loop exits
// once ctx is cancelled, within one poll interval.
//
// interval below 100ms is clamped to 100ms.
func (s *Session) WatchDirectory(ctx context.Context, path string, interval time.Duration, callback func([]FileChangeEvent)) {
	if interval < minWatchInterval {
		interval = minWatchInterval
	}

	asyncutil.Go(s.logger, "directory-watcher", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.pollFileChanges(ctx, path, callback)
			}
		}
	})
}

func (s *Session) pollFileChanges(ctx context.Context, path string, callback func([]FileChangeEvent)) {
	result := s.CallTool(ctx, "get_file_change", map[string]any{"path": path}, false)
	if !result.Success {
		s.logger.Warn("get_file_change poll failed for %s: %s", path, result.ErrorMessage)
		return
	}
	if result.Data == "" {
		return
	}

	var wireEvents []wireFileChangeEvent
	if err := json.Unmarshal([]byte(result.Data), &wireEvents); err != nil {
		s.logger.Warn("get_file_change returned unparseable events for %s: %v", path, err)
		return
	}
	if len(wireEvents) == 0 {
		return
	}

	events := make([]FileChangeEvent, len(wireEvents))
	for i, w := range wireEvents {
		events[i] = FileChangeEvent{EventType: w.EventType, Path: w.Path, PathType: w.PathType}
	}
	s.invokeWatchCallback(callback, events)
}

// invokeWatchCallback isolates the caller-supplied callback so a panic
// inside it cannot kill the polling loop.
func (s *Session) invokeWatchCallback(callback func([]FileChangeEvent), events []FileChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("directory watch callback panicked: %v", fmt.Errorf("%v", r))
		}
	}()
	callback(events)
}
