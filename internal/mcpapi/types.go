// Package mcpapi is the wire client for the managed MCP control plane: it
// marshals requests, unwraps the requestId/success/code/message envelope
// every action shares, and leaves result interpretation to its callers.
package mcpapi

import "github.com/alibabacloud-go/tea/tea"

// Envelope is embedded in every response body: the fields every action's
// JSON reply carries regardless of its own data shape.
type Envelope struct {
	RequestId *string `json:"requestId,omitempty"`
	Success   *bool   `json:"success,omitempty"`
	Code      *string `json:"code,omitempty"`
	Message   *string `json:"message,omitempty"`
}

func (e Envelope) requestID() string { return tea.StringValue(e.RequestId) }
func (e Envelope) ok() bool {
	if e.Success == nil {
		return true
	}
	return *e.Success
}

// Env returns the envelope itself. Every response struct embeds Envelope by
// value, so this promotes and lets the wire client extract the envelope
// from any response type without per-type boilerplate.
func (e Envelope) Env() Envelope { return e }

// PersistenceDataItem is one entry of CreateMcpSessionRequest's
// persistenceDataList: a context mount plus its optional sync policy,
// JSON-encoded the same way the contextStatus wire shape nests JSON
// strings inside JSON.
type PersistenceDataItem struct {
	ContextId *string `json:"contextId,omitempty"`
	Path      *string `json:"path,omitempty"`
	Policy    *string `json:"policy,omitempty"`
}

type CreateMcpSessionRequest struct {
	Labels              *string                `json:"labels,omitempty"`
	ImageId             *string                `json:"imageId,omitempty"`
	PersistenceDataList []PersistenceDataItem  `json:"persistenceDataList,omitempty"`
	VpcResource         *bool                  `json:"vpcResource,omitempty"`
	McpPolicyId         *string                `json:"mcpPolicyId,omitempty"`
}

type SessionData struct {
	SessionId          *string `json:"sessionId,omitempty"`
	ResourceUrl        *string `json:"resourceUrl,omitempty"`
	Status             *string `json:"status,omitempty"`
	VpcResource        *bool   `json:"vpcResource,omitempty"`
	NetworkInterfaceIp *string `json:"networkInterfaceIp,omitempty"`
	HttpPort           *string `json:"httpPort,omitempty"`
	Token              *string `json:"token,omitempty"`
	AppInstanceId      *string `json:"appInstanceId,omitempty"`
}

type CreateMcpSessionResponse struct {
	Envelope
	Data *SessionData `json:"data,omitempty"`
}

type GetSessionResponse struct {
	Envelope
	Data *SessionData `json:"data,omitempty"`
}

type ReleaseMcpSessionResponse struct {
	Envelope
}

type ListSessionRequest struct {
	Labels     map[string]string `json:"labels,omitempty"`
	MaxResults *int32            `json:"maxResults,omitempty"`
	NextToken  *string           `json:"nextToken,omitempty"`
}

type SessionIDEntry struct {
	SessionId *string `json:"sessionId,omitempty"`
}

type ListSessionResponse struct {
	Envelope
	Data       []SessionIDEntry `json:"data,omitempty"`
	NextToken  *string          `json:"nextToken,omitempty"`
	MaxResults *int32           `json:"maxResults,omitempty"`
	TotalCount *int32           `json:"totalCount,omitempty"`
}

type PauseSessionAsyncResponse struct{ Envelope }
type ResumeSessionAsyncResponse struct{ Envelope }

type GetContextInfoRequest struct {
	SessionId *string `json:"sessionId,omitempty"`
	ContextId *string `json:"contextId,omitempty"`
	Path      *string `json:"path,omitempty"`
	TaskType  *string `json:"taskType,omitempty"`
}

type GetContextInfoData struct {
	ContextStatus *string `json:"contextStatus,omitempty"`
}

type GetContextInfoResponse struct {
	Envelope
	Data *GetContextInfoData `json:"data,omitempty"`
}

type SyncContextRequest struct {
	SessionId *string `json:"sessionId,omitempty"`
	ContextId *string `json:"contextId,omitempty"`
	Path      *string `json:"path,omitempty"`
	Mode      *string `json:"mode,omitempty"`
}

type SyncContextResponse struct{ Envelope }

type ContextEntry struct {
	Id         *string `json:"id,omitempty"`
	Name       *string `json:"name,omitempty"`
	CreatedAt  *string `json:"createdAt,omitempty"`
	LastUsedAt *string `json:"lastUsedAt,omitempty"`
}

type ListContextsRequest struct {
	MaxResults *int32  `json:"maxResults,omitempty"`
	NextToken  *string `json:"nextToken,omitempty"`
}

type ListContextsResponse struct {
	Envelope
	Data       []ContextEntry `json:"data,omitempty"`
	NextToken  *string        `json:"nextToken,omitempty"`
	TotalCount *int32         `json:"totalCount,omitempty"`
}

type GetContextRequest struct {
	Name        *string `json:"name,omitempty"`
	AllowCreate *bool   `json:"allowCreate,omitempty"`
}

type GetContextData struct {
	ContextId *string `json:"contextId,omitempty"`
}

type GetContextResponse struct {
	Envelope
	Data *GetContextData `json:"data,omitempty"`
}

type ModifyContextRequest struct {
	Id   *string `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

type ModifyContextResponse struct{ Envelope }

type DeleteContextRequest struct {
	Id *string `json:"id,omitempty"`
}

type DeleteContextResponse struct{ Envelope }

type FileURLRequest struct {
	ContextId *string `json:"contextId,omitempty"`
	FilePath  *string `json:"filePath,omitempty"`
}

type FileURLData struct {
	Url        *string `json:"url,omitempty"`
	ExpireTime *string `json:"expireTime,omitempty"`
}

type GetContextFileUploadUrlResponse struct {
	Envelope
	Data *FileURLData `json:"data,omitempty"`
}

type GetContextFileDownloadUrlResponse struct {
	Envelope
	Data *FileURLData `json:"data,omitempty"`
}

type DeleteContextFileRequest struct {
	ContextId *string `json:"contextId,omitempty"`
	FilePath  *string `json:"filePath,omitempty"`
}

type DeleteContextFileResponse struct{ Envelope }

type DescribeContextFilesRequest struct {
	ContextId        *string `json:"contextId,omitempty"`
	ParentFolderPath *string `json:"parentFolderPath,omitempty"`
	PageNumber       *int32  `json:"pageNumber,omitempty"`
	PageSize         *int32  `json:"pageSize,omitempty"`
}

type FileEntry struct {
	FileId     *string `json:"fileId,omitempty"`
	FileName   *string `json:"fileName,omitempty"`
	FilePath   *string `json:"filePath,omitempty"`
	FileType   *string `json:"fileType,omitempty"`
	GmtCreate  *string `json:"gmtCreate,omitempty"`
	GmtModified *string `json:"gmtModified,omitempty"`
	Size       *int64  `json:"size,omitempty"`
	Status     *string `json:"status,omitempty"`
}

type DescribeContextFilesResponse struct {
	Envelope
	Data  []FileEntry `json:"data,omitempty"`
	Count *int32      `json:"count,omitempty"`
}

type ListMcpToolsResponse struct {
	Envelope
	Data *string `json:"data,omitempty"`
}

type CallMcpToolRequest struct {
	SessionId      *string `json:"sessionId,omitempty"`
	Name           *string `json:"name,omitempty"`
	Args           *string `json:"args,omitempty"`
	AutoGenSession *bool   `json:"autoGenSession,omitempty"`
}

type CallMcpToolContentItem struct {
	Text *string `json:"text,omitempty"`
}

type CallMcpToolData struct {
	Content []CallMcpToolContentItem `json:"content,omitempty"`
	IsError *bool                    `json:"isError,omitempty"`
}

type CallMcpToolResponse struct {
	Envelope
	Data *CallMcpToolData `json:"data,omitempty"`
}

type SetLabelRequest struct {
	SessionId *string `json:"sessionId,omitempty"`
	Labels    *string `json:"labels,omitempty"`
}

type SetLabelResponse struct{ Envelope }

type GetLabelResponse struct {
	Envelope
	Data *string `json:"data,omitempty"`
}

type GetMcpResourceResponse struct {
	Envelope
	Data *SessionData `json:"data,omitempty"`
}

type GetLinkRequest struct {
	SessionId    *string `json:"sessionId,omitempty"`
	ProtocolType *string `json:"protocolType,omitempty"`
	Port         *int32  `json:"port,omitempty"`
	Option       *string `json:"option,omitempty"`
}

type GetLinkData struct {
	Url *string `json:"url,omitempty"`
}

type GetLinkResponse struct {
	Envelope
	Data *GetLinkData `json:"data,omitempty"`
}
