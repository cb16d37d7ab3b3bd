package agentbay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliyun/agentbay-sdk-go/internal/errorkit"
	"github.com/aliyun/agentbay-sdk-go/internal/logging"
	"github.com/aliyun/agentbay-sdk-go/internal/mcpapi"
)

const (
	fileTransferMountPath = "/temp/file-transfer"
	browserReplayPath     = "/home/guest/record"
)

// Session is a live remote runtime environment. Once Delete succeeds or
// fails, no further operations on it are valid; the Client no longer owns
// it either way.
type Session struct {
	ab     *AgentBay
	logger logging.Logger

	SessionID             string
	ResourceURL           string
	ImageID               string
	IsVPC                 bool
	NetworkInterfaceIP    string
	HTTPPort              string
	Token                 string
	EnableBrowserReplay   bool
	RecordContextID       string
	FileTransferContextID string

	mcpTools []McpTool

	ContextManager *ContextManager
	Command        *CommandCapability
	Code           *CodeCapability
	Computer       *ComputerCapability
	Mobile         *MobileCapability
	Browser        *BrowserCapability
	Agent          *AgentCapability
}

// CreateSessionResult is the envelope AgentBay.Create returns.
type CreateSessionResult struct {
	Result
	Session *Session
}

// Create allocates a new remote session per params, then waits for every
// context mount (the requested ones plus those Create adds itself) to reach
// a terminal sync state. A mount still not terminal when its status wait
// gives up does not fail the call.
func (ab *AgentBay) Create(ctx context.Context, params *SessionParams) CreateSessionResult {
	if params == nil {
		params = NewCreateSessionParams()
	}
	mounts := append([]ContextSync(nil), params.ContextSync...)

	ftName := fmt.Sprintf("file-transfer-context-%d", time.Now().Unix())
	ftCtx := ab.Context.Create(ctx, ftName)
	if !ftCtx.Success {
		return CreateSessionResult{Result: failResult(ftCtx.Kind, ftCtx.RequestID, "allocate file-transfer context: "+ftCtx.ErrorMessage)}
	}
	mounts = append(mounts, ContextSync{ContextID: ftCtx.ContextID, Path: fileTransferMountPath})

	var recordContextID string
	if params.EnableBrowserReplay {
		recName := "record-" + uuid.New().String()
		recCtx := ab.Context.Create(ctx, recName)
		if !recCtx.Success {
			return CreateSessionResult{Result: failResult(recCtx.Kind, recCtx.RequestID, "allocate recording context: "+recCtx.ErrorMessage)}
		}
		recordContextID = recCtx.ContextID
		mounts = append(mounts, ContextSync{ContextID: recordContextID, Path: browserReplayPath})
	}

	if params.BrowserContext != nil {
		mounts = append(mounts, *params.BrowserContext.toContextSync())
	}

	if params.ExtensionOption != nil {
		policy := SyncPolicy{DownloadPolicy: DownloadPolicy{AutoDownload: true, DownloadStrategy: DownloadStrategyAsync}}
		mounts = append(mounts, ContextSync{ContextID: params.ExtensionOption.ContextID, Path: extensionsMountPath, Policy: &policy})
	}

	persistence, err := toPersistenceDataList(mounts)
	if err != nil {
		return CreateSessionResult{Result: failResult(ErrorKindValidation, "", err.Error())}
	}

	if err := validateLabels(params.Labels); err != nil {
		return CreateSessionResult{Result: failResult(ErrorKindValidation, "", err.Error())}
	}
	labelsJSON, err := json.Marshal(params.Labels)
	if err != nil {
		return CreateSessionResult{Result: failResult(ErrorKindValidation, "", err.Error())}
	}
	labelsStr := string(labelsJSON)

	req := mcpapi.CreateMcpSessionRequest{
		Labels:              &labelsStr,
		PersistenceDataList: persistence,
		VpcResource:         &params.IsVPC,
	}
	if params.ImageID != "" {
		req.ImageId = &params.ImageID
	}
	if params.PolicyID != "" {
		req.McpPolicyId = &params.PolicyID
	}

	resp, err := ab.wire.CreateMcpSession(ctx, req)
	if err != nil {
		return CreateSessionResult{Result: resultFromWireError(ab.logger, err)}
	}
	if resp.Data == nil || resp.Data.SessionId == nil {
		return CreateSessionResult{Result: failResult(ErrorKindAPI, resp.requestID(), "create session: empty response")}
	}

	s := ab.newSession(*resp.Data.SessionId, params, recordContextID, ftCtx.ContextID)
	s.hydrateFromWireData(resp.Data)
	ab.registerSession(s)
	ab.metrics.SessionCreated()

	if params.EnableBrowserReplay && resp.Data.AppInstanceId != nil {
		newName := "browserreplay-" + *resp.Data.AppInstanceId
		if r := ab.Context.Update(ctx, Context{ID: recordContextID, Name: newName}); !r.Success {
			s.logger.Warn("rename recording context failed: %s", r.ErrorMessage)
		}
	}

	if s.IsVPC {
		if err := s.refreshMcpTools(ctx); err != nil {
			s.logger.Warn("list mcp tools failed: %v", err)
		}
	}

	if len(mounts) > 0 {
		s.ContextManager.waitForMounts(ctx, mounts)
	}

	return CreateSessionResult{Result: okResult(resp.requestID()), Session: s}
}

func (ab *AgentBay) newSession(sessionID string, params *SessionParams, recordContextID, ftContextID string) *Session {
	s := &Session{
		ab:                    ab,
		logger:                logging.NewComponentLogger("Session"),
		SessionID:             sessionID,
		ImageID:               params.ImageID,
		IsVPC:                 params.IsVPC,
		EnableBrowserReplay:   params.EnableBrowserReplay,
		RecordContextID:       recordContextID,
		FileTransferContextID: ftContextID,
	}
	s.ContextManager = newContextManager(s)
	s.Command = &CommandCapability{session: s}
	s.Code = &CodeCapability{session: s}
	s.Computer = &ComputerCapability{session: s}
	s.Mobile = &MobileCapability{session: s}
	s.Browser = &BrowserCapability{session: s}
	s.Agent = &AgentCapability{session: s}
	return s
}

func (s *Session) hydrateFromWireData(data *mcpapi.SessionData) {
	if data.ResourceUrl != nil {
		s.ResourceURL = *data.ResourceUrl
	}
	if data.NetworkInterfaceIp != nil {
		s.NetworkInterfaceIP = *data.NetworkInterfaceIp
	}
	if data.HttpPort != nil {
		s.HTTPPort = *data.HttpPort
	}
	if data.Token != nil {
		s.Token = *data.Token
	}
}

func (s *Session) refreshMcpTools(ctx context.Context) error {
	resp, err := s.ab.wire.ListMcpTools(ctx, s.ImageID)
	if err != nil {
		return err
	}
	if resp.Data == nil {
		return nil
	}
	descriptors, err := mcpapi.ParseMcpTools(*resp.Data)
	if err != nil {
		return err
	}
	tools := make([]McpTool, 0, len(descriptors))
	for _, d := range descriptors {
		tools = append(tools, McpTool{
			Name: d.Name, Description: d.Description, InputSchema: []byte(d.InputSchema),
			Server: d.Server, Tool: d.Tool,
		})
	}
	s.mcpTools = tools
	return nil
}

func toPersistenceDataList(mounts []ContextSync) ([]mcpapi.PersistenceDataItem, error) {
	items := make([]mcpapi.PersistenceDataItem, 0, len(mounts))
	for i := range mounts {
		m := mounts[i]
		policyJSON, err := m.policyJSON()
		if err != nil {
			return nil, err
		}
		item := mcpapi.PersistenceDataItem{ContextId: &m.ContextID, Path: &m.Path}
		if policyJSON != "" {
			item.Policy = &policyJSON
		}
		items = append(items, item)
	}
	return items, nil
}

// Get fetches a session by id without registering it in the client's
// session map; it is caller-owned.
func (ab *AgentBay) Get(ctx context.Context, sessionID string) CreateSessionResult {
	resp, err := ab.wire.GetSession(ctx, sessionID)
	if err != nil {
		return CreateSessionResult{Result: resultFromWireError(ab.logger, err)}
	}
	if resp.Data == nil {
		return CreateSessionResult{Result: failResult(ErrorKindAPI, resp.requestID(), "session not found: "+sessionID)}
	}
	s := ab.newSession(sessionID, NewCreateSessionParams(), "", "")
	s.hydrateFromWireData(resp.Data)
	return CreateSessionResult{Result: okResult(resp.requestID()), Session: s}
}

// ListSessionsResult is the envelope List/ListByLabels return.
type ListSessionsResult struct {
	Result
	SessionIDs []string
	NextToken  string
	TotalCount int
}

// List returns a page of session ids filtered by labels, implementing
// forward paging by fetching pages 1..page-1 in sequence.
func (ab *AgentBay) List(ctx context.Context, labels map[string]string, page, limit int) ListSessionsResult {
	if page < 1 {
		return ListSessionsResult{Result: failResult(ErrorKindValidation, "", "Page number must be >= 1")}
	}

	var next string
	for current := 1; current < page; current++ {
		result := ab.ListByLabels(ctx, labels, limit, next)
		if !result.Success {
			return ListSessionsResult{Result: failResult(result.Kind, result.RequestID, fmt.Sprintf("Cannot reach page %d: %s", page, result.ErrorMessage))}
		}
		if result.NextToken == "" && current+1 < page {
			return ListSessionsResult{Result: failResult(ErrorKindAPI, result.RequestID, fmt.Sprintf("Cannot reach page %d: no further pages", page))}
		}
		next = result.NextToken
	}
	return ab.ListByLabels(ctx, labels, limit, next)
}

// ListByLabels is the deprecated direct-pagination-parameter entry point
// List is built on top of.
func (ab *AgentBay) ListByLabels(ctx context.Context, labels map[string]string, maxResults int, nextToken string) ListSessionsResult {
	if maxResults <= 0 {
		maxResults = 10
	}
	mr := int32(maxResults)
	req := mcpapi.ListSessionRequest{Labels: labels, MaxResults: &mr}
	if nextToken != "" {
		req.NextToken = &nextToken
	}

	resp, err := ab.wire.ListSession(ctx, req)
	if err != nil {
		return ListSessionsResult{Result: resultFromWireError(ab.logger, err)}
	}

	ids := make([]string, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if entry.SessionId != nil {
			ids = append(ids, *entry.SessionId)
		}
	}
	total := 0
	if resp.TotalCount != nil {
		total = int(*resp.TotalCount)
	}
	next := ""
	if resp.NextToken != nil {
		next = *resp.NextToken
	}
	return ListSessionsResult{Result: okResult(resp.requestID()), SessionIDs: ids, NextToken: next, TotalCount: total}
}

// Delete releases a session. syncContext controls whether context data is
// flushed first, per the decision matrix in the component design: full
// sync when true, recording-context-only sync when browser replay is
// enabled and syncContext is false, no sync otherwise. The session is
// removed from the client's map regardless of outcome.
func (ab *AgentBay) Delete(ctx context.Context, s *Session, syncContext bool) Result {
	defer ab.unregisterSession(s.SessionID)

	switch {
	case syncContext:
		if r := s.ContextManager.Sync(ctx, SyncParams{MaxRetries: defaultSyncMaxRetries}); !r.Success {
			s.logger.Warn("pre-delete context sync failed: %s", r.ErrorMessage)
		}
	case s.EnableBrowserReplay && s.RecordContextID != "":
		if r := s.ContextManager.Sync(ctx, SyncParams{ContextID: s.RecordContextID, MaxRetries: defaultSyncMaxRetries}); !r.Success {
			s.logger.Warn("pre-delete recording sync failed: %s", r.ErrorMessage)
		}
	}

	resp, err := ab.wire.ReleaseMcpSession(ctx, s.SessionID)
	ab.metrics.SessionDeleted()
	if err != nil {
		return resultFromWireError(ab.logger, err)
	}
	return okResult(resp.requestID())
}

const (
	statusPaused   = "PAUSED"
	statusRunning  = "RUNNING"
	statusPausing  = "PAUSING"
	statusResuming = "RESUMING"
)

// AsyncResult is the envelope PauseAsync/ResumeAsync return.
type AsyncResult struct {
	Result
	ElapsedMs int64
}

// PauseAsync issues PauseSessionAsync, then polls GetSession until the
// session reaches PAUSED or the timeout elapses.
func (ab *AgentBay) PauseAsync(ctx context.Context, s *Session, pollInterval, timeout time.Duration) AsyncResult {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	resp, err := ab.wire.PauseSessionAsync(ctx, s.SessionID)
	if err != nil {
		return AsyncResult{Result: resultFromWireError(ab.logger, err)}
	}
	return ab.pollSessionState(ctx, s, statusPaused, []string{statusRunning, statusPausing}, pollInterval, timeout, resp.requestID())
}

// ResumeAsync issues ResumeSessionAsync, then polls GetSession until the
// session reaches RUNNING or the timeout elapses.
func (ab *AgentBay) ResumeAsync(ctx context.Context, s *Session, pollInterval, timeout time.Duration) AsyncResult {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	resp, err := ab.wire.ResumeSessionAsync(ctx, s.SessionID)
	if err != nil {
		return AsyncResult{Result: resultFromWireError(ab.logger, err)}
	}
	return ab.pollSessionState(ctx, s, statusRunning, []string{statusPaused, statusResuming}, pollInterval, timeout, resp.requestID())
}

func (ab *AgentBay) pollSessionState(ctx context.Context, s *Session, terminal string, tolerated []string, pollInterval, timeout time.Duration, requestID string) AsyncResult {
	start := time.Now()
	deadline := start.Add(timeout)
	for {
		resp, err := errorkit.RetryWithResultAndLog(ctx, rpcRetryConfig, func(ctx context.Context) (*mcpapi.GetSessionResponse, error) {
			return ab.wire.GetSession(ctx, s.SessionID)
		}, s.logger)
		if err != nil && !errorkit.IsTransient(err) {
			return AsyncResult{Result: resultFromWireError(s.logger, err), ElapsedMs: time.Since(start).Milliseconds()}
		}
		if err == nil && resp.Data != nil && resp.Data.Status != nil {
			status := *resp.Data.Status
			if status == terminal {
				return AsyncResult{Result: okResult(requestID), ElapsedMs: time.Since(start).Milliseconds()}
			}
			if !containsStr(tolerated, status) {
				s.logger.Warn("unexpected session status while polling: %s", status)
			}
		}
		if time.Now().After(deadline) {
			return AsyncResult{Result: failResult(ErrorKindTimeout, requestID, "timed out waiting for "+terminal), ElapsedMs: time.Since(start).Milliseconds()}
		}
		select {
		case <-ctx.Done():
			return AsyncResult{Result: failResult(ErrorKindTimeout, requestID, ctx.Err().Error()), ElapsedMs: time.Since(start).Milliseconds()}
		case <-time.After(pollInterval):
		}
	}
}

func containsStr(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// SetLabels replaces the session's labels wholesale. labels must be a
// non-empty mapping from non-empty string to non-empty string, the same
// rule Create enforces.
func (s *Session) SetLabels(ctx context.Context, labels map[string]string) Result {
	if err := validateLabels(labels); err != nil {
		return failResult(ErrorKindValidation, "", err.Error())
	}
	labelsJSON, err := json.Marshal(labels)
	if err != nil {
		return failResult(ErrorKindValidation, "", err.Error())
	}
	labelsStr := string(labelsJSON)

	resp, err := s.ab.wire.SetLabel(ctx, mcpapi.SetLabelRequest{SessionId: &s.SessionID, Labels: &labelsStr})
	if err != nil {
		return resultFromWireError(s.logger, err)
	}
	return okResult(resp.requestID())
}

// LabelsResult is the envelope GetLabels returns.
type LabelsResult struct {
	Result
	Labels map[string]string
}

// GetLabels returns the session's current labels.
func (s *Session) GetLabels(ctx context.Context) LabelsResult {
	resp, err := s.ab.wire.GetLabel(ctx, s.SessionID)
	if err != nil {
		return LabelsResult{Result: resultFromWireError(s.logger, err)}
	}
	if resp.Data == nil {
		return LabelsResult{Result: okResult(resp.requestID())}
	}
	var labels map[string]string
	if err := json.Unmarshal([]byte(*resp.Data), &labels); err != nil {
		return LabelsResult{Result: failResult(ErrorKindAPI, resp.requestID(), "parse labels: "+err.Error())}
	}
	return LabelsResult{Result: okResult(resp.requestID()), Labels: labels}
}

const (
	minLinkPort = 30100
	maxLinkPort = 30199
)

// LinkResult is the envelope GetLink returns.
type LinkResult struct {
	Result
	URL string
}

// GetLink returns the access URL for a port the session's sandbox exposes.
// protocolType and option are optional and omitted from the request when
// empty; port is optional and omitted when zero, but when supplied it must
// fall within [30100, 30199] or GetLink fails validation before any RPC.
func (s *Session) GetLink(ctx context.Context, protocolType string, port int32, option string) LinkResult {
	if port != 0 && (port < minLinkPort || port > maxLinkPort) {
		return LinkResult{Result: failResult(ErrorKindValidation, "", fmt.Sprintf("port %d out of range [%d, %d]", port, minLinkPort, maxLinkPort))}
	}

	req := mcpapi.GetLinkRequest{SessionId: &s.SessionID}
	if protocolType != "" {
		req.ProtocolType = &protocolType
	}
	if port != 0 {
		req.Port = &port
	}
	if option != "" {
		req.Option = &option
	}

	resp, err := s.ab.wire.GetLink(ctx, req)
	if err != nil {
		return LinkResult{Result: resultFromWireError(s.logger, err)}
	}
	if resp.Data == nil || resp.Data.Url == nil {
		return LinkResult{Result: failResult(ErrorKindAPI, resp.requestID(), "no url in response")}
	}
	return LinkResult{Result: okResult(resp.requestID()), URL: *resp.Data.Url}
}
