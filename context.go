package agentbay

import (
	"context"
	"fmt"
	"time"

	"github.com/aliyun/agentbay-sdk-go/internal/logging"
	"github.com/aliyun/agentbay-sdk-go/internal/mcpapi"
)

// ContextService is the global (tenant-scoped) CRUD and file-operation
// surface over persistent contexts. One instance is owned by AgentBay and
// shared by every Session.
type ContextService struct {
	wire   *mcpapi.Client
	logger logging.Logger
}

func newContextService(wire *mcpapi.Client, logger logging.Logger) *ContextService {
	return &ContextService{wire: wire, logger: logger}
}

// ListContextsResult is the envelope ContextService.List returns.
type ListContextsResult struct {
	Result
	Contexts   []Context
	NextToken  string
	TotalCount int
}

// List returns a page of contexts. maxResults defaults to 10 when zero.
func (s *ContextService) List(ctx context.Context, maxResults int, nextToken string) ListContextsResult {
	if maxResults <= 0 {
		maxResults = 10
	}
	mr := int32(maxResults)
	req := mcpapi.ListContextsRequest{MaxResults: &mr}
	if nextToken != "" {
		req.NextToken = &nextToken
	}

	resp, err := s.wire.ListContexts(ctx, req)
	if err != nil {
		return ListContextsResult{Result: resultFromWireError(s.logger, err)}
	}

	contexts := make([]Context, 0, len(resp.Data))
	for _, entry := range resp.Data {
		contexts = append(contexts, contextFromEntry(entry))
	}
	total := 0
	if resp.TotalCount != nil {
		total = int(*resp.TotalCount)
	}
	next := ""
	if resp.NextToken != nil {
		next = *resp.NextToken
	}
	return ListContextsResult{
		Result:     okResult(resp.requestID()),
		Contexts:   contexts,
		NextToken:  next,
		TotalCount: total,
	}
}

// GetContextResult is the envelope ContextService.Get/Create return.
type GetContextResult struct {
	Result
	Context   Context
	ContextID string
}

// Get looks up a context by name, optionally creating it. It is idempotent
// by name: two Get(name, true) calls return the same ContextID.
func (s *ContextService) Get(ctx context.Context, name string, create bool) GetContextResult {
	resp, err := s.wire.GetContext(ctx, mcpapi.GetContextRequest{Name: &name, AllowCreate: &create})
	if err != nil {
		return GetContextResult{Result: resultFromWireError(s.logger, err)}
	}
	if resp.Data == nil || resp.Data.ContextId == nil {
		return GetContextResult{Result: failResult(ErrorKindAPI, resp.requestID(), "context not found: "+name)}
	}
	id := *resp.Data.ContextId

	if hydrated, ok := s.hydrate(ctx, id, name); ok {
		return GetContextResult{Result: okResult(resp.requestID()), Context: hydrated, ContextID: id}
	}
	return GetContextResult{
		Result:    okResult(resp.requestID()),
		Context:   Context{ID: id, Name: name},
		ContextID: id,
	}
}

// hydrate fills in CreatedAt/LastUsedAt by falling back to a List call,
// since GetContext's own response only carries the id.
func (s *ContextService) hydrate(ctx context.Context, id, name string) (Context, bool) {
	listed := s.List(ctx, 100, "")
	if !listed.Success {
		return Context{}, false
	}
	for _, c := range listed.Contexts {
		if c.ID == id || c.Name == name {
			return c, true
		}
	}
	return Context{}, false
}

// Create is equivalent to Get(name, true).
func (s *ContextService) Create(ctx context.Context, name string) GetContextResult {
	return s.Get(ctx, name, true)
}

// Update renames a context. Only Name is mutable.
func (s *ContextService) Update(ctx context.Context, c Context) Result {
	resp, err := s.wire.ModifyContext(ctx, mcpapi.ModifyContextRequest{Id: &c.ID, Name: &c.Name})
	if err != nil {
		return resultFromWireError(s.logger, err)
	}
	return okResult(resp.requestID())
}

// Delete destroys a context.
func (s *ContextService) Delete(ctx context.Context, c Context) Result {
	resp, err := s.wire.DeleteContext(ctx, c.ID)
	if err != nil {
		return resultFromWireError(s.logger, err)
	}
	return okResult(resp.requestID())
}

// FileURLResult carries a presigned URL and its expiry.
type FileURLResult struct {
	Result
	URL        string
	ExpireTime time.Time
}

// GetFileUploadURL returns a presigned PUT URL for a context file path.
func (s *ContextService) GetFileUploadURL(ctx context.Context, contextID, filePath string) FileURLResult {
	resp, err := s.wire.GetContextFileUploadUrl(ctx, mcpapi.FileURLRequest{ContextId: &contextID, FilePath: &filePath})
	if err != nil {
		return FileURLResult{Result: resultFromWireError(s.logger, err)}
	}
	return fileURLResultFromData(resp.requestID(), resp.Data)
}

// GetFileDownloadURL returns a presigned GET URL for a context file path.
func (s *ContextService) GetFileDownloadURL(ctx context.Context, contextID, filePath string) FileURLResult {
	resp, err := s.wire.GetContextFileDownloadUrl(ctx, mcpapi.FileURLRequest{ContextId: &contextID, FilePath: &filePath})
	if err != nil {
		return FileURLResult{Result: resultFromWireError(s.logger, err)}
	}
	return fileURLResultFromData(resp.requestID(), resp.Data)
}

func fileURLResultFromData(requestID string, data *mcpapi.FileURLData) FileURLResult {
	if data == nil || data.Url == nil {
		return FileURLResult{Result: failResult(ErrorKindAPI, requestID, "no url in response")}
	}
	result := FileURLResult{Result: okResult(requestID), URL: *data.Url}
	if data.ExpireTime != nil {
		if t, err := time.Parse(time.RFC3339, *data.ExpireTime); err == nil {
			result.ExpireTime = t
		}
	}
	return result
}

// DeleteFile removes a file from a context.
func (s *ContextService) DeleteFile(ctx context.Context, contextID, filePath string) Result {
	resp, err := s.wire.DeleteContextFile(ctx, mcpapi.DeleteContextFileRequest{ContextId: &contextID, FilePath: &filePath})
	if err != nil {
		return resultFromWireError(s.logger, err)
	}
	return okResult(resp.requestID())
}

// ListFilesResult is the envelope ContextService.ListFiles returns.
type ListFilesResult struct {
	Result
	Entries []FileEntry
	Count   int
}

// ListFiles lists files under a folder in a context.
func (s *ContextService) ListFiles(ctx context.Context, contextID, parentFolderPath string, pageNumber, pageSize int) ListFilesResult {
	if pageNumber <= 0 {
		pageNumber = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	pn, ps := int32(pageNumber), int32(pageSize)
	resp, err := s.wire.DescribeContextFiles(ctx, mcpapi.DescribeContextFilesRequest{
		ContextId:        &contextID,
		ParentFolderPath: &parentFolderPath,
		PageNumber:       &pn,
		PageSize:         &ps,
	})
	if err != nil {
		return ListFilesResult{Result: resultFromWireError(s.logger, err)}
	}

	entries := make([]FileEntry, 0, len(resp.Data))
	for _, e := range resp.Data {
		entries = append(entries, fileEntryFromWire(e))
	}
	count := len(entries)
	if resp.Count != nil {
		count = int(*resp.Count)
	}
	return ListFilesResult{Result: okResult(resp.requestID()), Entries: entries, Count: count}
}

func fileEntryFromWire(e mcpapi.FileEntry) FileEntry {
	entry := FileEntry{}
	if e.FileId != nil {
		entry.FileID = *e.FileId
	}
	if e.FileName != nil {
		entry.FileName = *e.FileName
	}
	if e.FilePath != nil {
		entry.FilePath = *e.FilePath
	}
	if e.FileType != nil {
		entry.FileType = *e.FileType
	}
	if e.GmtCreate != nil {
		entry.GmtCreate = *e.GmtCreate
	}
	if e.GmtModified != nil {
		entry.GmtModified = *e.GmtModified
	}
	if e.Size != nil {
		entry.Size = *e.Size
	}
	if e.Status != nil {
		entry.Status = *e.Status
	}
	return entry
}

func contextFromEntry(e mcpapi.ContextEntry) Context {
	c := Context{}
	if e.Id != nil {
		c.ID = *e.Id
	}
	if e.Name != nil {
		c.Name = *e.Name
	}
	if e.CreatedAt != nil {
		if t, err := time.Parse(time.RFC3339, *e.CreatedAt); err == nil {
			c.CreatedAt = t
		}
	}
	if e.LastUsedAt != nil {
		if t, err := time.Parse(time.RFC3339, *e.LastUsedAt); err == nil {
			c.LastUsedAt = t
		}
	}
	return c
}

// resultFromWireError classifies a wire-client error into a Result. Used
// by every public method that talks to mcpapi and must not leak a raw Go
// error for expected API/tool failures.
func resultFromWireError(logger logging.Logger, err error) Result {
	if apiErr, ok := err.(*mcpapi.APIError); ok {
		if apiErr.NotFound() {
			logger.Info("session not found: %s", apiErr.Message)
			return failResult(ErrorKindNotFound, apiErr.RequestID, fmt.Sprintf("[%s] %s", apiErr.Code, apiErr.Message))
		}
		return failResult(ErrorKindAPI, apiErr.RequestID, fmt.Sprintf("[%s] %s", apiErr.Code, apiErr.Message))
	}
	if transportErr, ok := err.(*mcpapi.TransportError); ok {
		logger.Error("transport failure: %v", transportErr)
		return failResult(ErrorKindTransport, "", transportErr.Error())
	}
	logger.Error("unexpected error: %v", err)
	return failResult(ErrorKindTransport, "", err.Error())
}
