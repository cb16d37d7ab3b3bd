package agentbay

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aliyun/agentbay-sdk-go/internal/asyncutil"
	"github.com/aliyun/agentbay-sdk-go/internal/errorkit"
	"github.com/aliyun/agentbay-sdk-go/internal/logging"
	"github.com/aliyun/agentbay-sdk-go/internal/mcpapi"
)

const (
	defaultSyncMaxRetries    = 150
	defaultSyncRetryInterval = 1500 * time.Millisecond
)

// rpcRetryConfig governs the short, transient-error retry wrapped around a
// single wire call inside the status-poll loop below. It is deliberately
// much tighter than defaultSyncRetryInterval: the poll loop already waits
// between attempts, this only absorbs a single dropped connection or 5xx
// blip so one bad poll doesn't cost a full loop iteration.
var rpcRetryConfig = errorkit.RetryConfig{
	MaxAttempts:  2,
	BaseDelay:    200 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	JitterFactor: 0.2,
}

// ContextManager is the per-session view of context-sync status and
// on-demand sync, owned by a Session.
type ContextManager struct {
	session *Session
	logger  logging.Logger
}

func newContextManager(s *Session) *ContextManager {
	return &ContextManager{session: s, logger: logging.NewComponentLogger("ContextManager")}
}

// InfoParams narrows Info to a specific mount or task type.
type InfoParams struct {
	ContextID string
	Path      string
	TaskType  string
}

// InfoResult is the envelope Info/InfoWithParams return.
type InfoResult struct {
	Result
	Items []ContextStatusItem
}

// Info returns status for every mount on the session.
func (m *ContextManager) Info(ctx context.Context) InfoResult {
	return m.InfoWithParams(ctx, InfoParams{})
}

// InfoWithParams returns status filtered to a mount, path, or task type.
func (m *ContextManager) InfoWithParams(ctx context.Context, p InfoParams) InfoResult {
	req := mcpapi.GetContextInfoRequest{SessionId: &m.session.SessionID}
	if p.ContextID != "" {
		req.ContextId = &p.ContextID
	}
	if p.Path != "" {
		req.Path = &p.Path
	}
	if p.TaskType != "" {
		req.TaskType = &p.TaskType
	}

	resp, err := errorkit.RetryWithResultAndLog(ctx, rpcRetryConfig, func(ctx context.Context) (*mcpapi.GetContextInfoResponse, error) {
		return m.session.ab.wire.GetContextInfo(ctx, req)
	}, m.logger)
	if err != nil {
		return InfoResult{Result: resultFromWireError(m.logger, err)}
	}
	if resp.Data == nil || resp.Data.ContextStatus == nil {
		return InfoResult{Result: okResult(resp.requestID())}
	}

	wireItems, err := mcpapi.ParseContextStatus(*resp.Data.ContextStatus)
	if err != nil {
		return InfoResult{Result: failResult(ErrorKindAPI, resp.requestID(), "parse context status: "+err.Error())}
	}
	items := make([]ContextStatusItem, len(wireItems))
	for i, w := range wireItems {
		items[i] = ContextStatusItem{
			ContextID: w.ContextId, Path: w.Path, Status: w.Status, ErrorMessage: w.ErrorMessage,
			StartTime: w.StartTime, FinishTime: w.FinishTime, TaskType: w.TaskType,
		}
	}
	return InfoResult{Result: okResult(resp.requestID()), Items: items}
}

// waitForTerminal is the §4.2 context-sync status wait used by Create: it
// polls Info until every item is terminal, the list is empty, or the
// retry budget is exhausted. p may be nil to consider the whole session.
func (m *ContextManager) waitForTerminal(ctx context.Context, p *InfoParams) bool {
	params := InfoParams{}
	if p != nil {
		params = *p
	}
	for attempt := 0; attempt < defaultSyncMaxRetries; attempt++ {
		result := m.InfoWithParams(ctx, params)
		if !result.Success {
			m.logger.Warn("context status poll failed: %s", result.ErrorMessage)
		} else if allTerminal(result.Items) {
			logFailedItems(m.logger, result.Items)
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(defaultSyncRetryInterval):
		}
	}
	return false
}

// waitForMounts runs one waitForTerminal per mount, concurrently when there
// is more than one mount, so a slow or stuck mount does not head-of-line
// block the status check for the rest. Each mount is polled until it is
// terminal or its own retry budget runs out; one mount failing does not
// stop the others. Reports whether every mount reached a terminal state.
// Used by Create for all of a session's context-sync mounts.
func (m *ContextManager) waitForMounts(ctx context.Context, mounts []ContextSync) bool {
	if len(mounts) == 1 {
		return m.waitForTerminal(ctx, &InfoParams{ContextID: mounts[0].ContextID, Path: mounts[0].Path})
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]bool, len(mounts))
	for i, mnt := range mounts {
		i, mnt := i, mnt
		g.Go(func() error {
			results[i] = m.waitForTerminal(gctx, &InfoParams{ContextID: mnt.ContextID, Path: mnt.Path})
			return nil
		})
	}
	_ = g.Wait()

	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}

func allTerminal(items []ContextStatusItem) bool {
	if len(items) == 0 {
		return true
	}
	for _, it := range items {
		if !it.isTerminal() {
			return false
		}
	}
	return true
}

func logFailedItems(logger logging.Logger, items []ContextStatusItem) {
	for _, it := range items {
		if it.Status == "Failed" {
			logger.Warn("context sync failed for %s:%s: %s", it.ContextID, it.Path, it.ErrorMessage)
		}
	}
}

// SyncParams configures ContextManager.Sync. A nil Callback means
// synchronous mode: Sync blocks until the sync tasks reach a terminal
// state (or the retry budget is exhausted) before returning.
type SyncParams struct {
	ContextID string
	Path      string
	Mode      string
	Callback  func(success bool)
	// MaxRetries == 0 means "don't wait at all" (Sync returns immediately
	// without calling SyncContext); negative means "use the default retry
	// budget" (defaultSyncMaxRetries); positive is the budget itself.
	MaxRetries    int
	RetryInterval time.Duration
}

// Sync triggers an on-demand context sync. In callback mode it returns as
// soon as the SyncContext RPC succeeds and delivers the terminal outcome
// to Callback exactly once, from a background goroutine. In synchronous
// mode it blocks until that same outcome is known.
//
// MaxRetries == 0 is not "use the default": it means the caller explicitly
// wants no wait at all, and Sync returns immediately without issuing the
// SyncContext RPC. Callers that want the default retry budget must set
// MaxRetries themselves (defaultSyncMaxRetries); a negative value is
// coerced up to that same default.
func (m *ContextManager) Sync(ctx context.Context, p SyncParams) Result {
	if p.MaxRetries == 0 {
		if p.Callback != nil {
			p.Callback(true)
		}
		return okResult("")
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = defaultSyncMaxRetries
	}
	if p.RetryInterval <= 0 {
		p.RetryInterval = defaultSyncRetryInterval
	}

	req := mcpapi.SyncContextRequest{SessionId: &m.session.SessionID}
	if p.ContextID != "" {
		req.ContextId = &p.ContextID
	}
	if p.Path != "" {
		req.Path = &p.Path
	}
	if p.Mode != "" {
		req.Mode = &p.Mode
	}

	resp, err := errorkit.RetryWithResultAndLog(ctx, rpcRetryConfig, func(ctx context.Context) (*mcpapi.SyncContextResponse, error) {
		return m.session.ab.wire.SyncContext(ctx, req)
	}, m.logger)
	if err != nil {
		result := resultFromWireError(m.logger, err)
		if p.Callback != nil {
			p.Callback(false)
		}
		return result
	}
	requestID := resp.requestID()

	if p.Callback != nil {
		asyncutil.Go(m.logger, "context-sync-poll", func() {
			success := m.pollSyncCompletion(ctx, p)
			p.Callback(success)
		})
		return okResult(requestID)
	}

	success := m.pollSyncCompletion(ctx, p)
	return Result{Success: success, RequestID: requestID}
}

// pollSyncCompletion polls for the upload/download tasks triggered by Sync
// to reach a terminal state. If no sync-typed tasks ever appear, there is
// nothing to wait for and completion is reported immediately.
func (m *ContextManager) pollSyncCompletion(ctx context.Context, p SyncParams) bool {
	for attempt := 0; attempt < p.MaxRetries; attempt++ {
		result := m.InfoWithParams(ctx, InfoParams{ContextID: p.ContextID, Path: p.Path})
		if !result.Success {
			m.logger.Warn("sync status poll failed, retrying: %s", result.ErrorMessage)
		} else {
			tasks := filterSyncTasks(result.Items)
			if len(tasks) == 0 {
				return true
			}
			if allTerminal(tasks) {
				return allSucceeded(tasks)
			}
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.RetryInterval):
		}
	}
	return false
}

func filterSyncTasks(items []ContextStatusItem) []ContextStatusItem {
	var out []ContextStatusItem
	for _, it := range items {
		if it.isSyncTask() {
			out = append(out, it)
		}
	}
	return out
}

func allSucceeded(items []ContextStatusItem) bool {
	for _, it := range items {
		if it.Status != "Success" {
			return false
		}
	}
	return true
}
