package mcpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aliyun/agentbay-sdk-go/internal/logging"
)

// Client is the wire client for the managed MCP control plane. Wire
// marshaling is an internal convention of this package, not a contract the
// caller needs to know: every action is a POST of a JSON body to
// "{endpoint}/mcp/{Action}", authenticated with a bearer API key, returning
// a JSON body that embeds Envelope.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	logger   logging.Logger
}

func New(endpoint, apiKey string, httpClient *http.Client, logger logging.Logger) *Client {
	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   logging.OrNop(logger),
	}
}

type hasEnvelope interface {
	Env() Envelope
}

func invoke[T any](ctx context.Context, c *Client, action string, reqBody any) (*T, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("mcpapi: encode %s request: %w", action, err)
	}

	url := fmt.Sprintf("https://%s/mcp/%s", c.endpoint, action)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("mcpapi: build %s request: %w", action, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("invoking %s", action)
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: httpResp.StatusCode, Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &TransportError{StatusCode: httpResp.StatusCode, Err: fmt.Errorf("%s", body)}
	}

	var resp T
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("mcpapi: decode %s response: %w", action, err)
	}

	if he, ok := any(&resp).(hasEnvelope); ok {
		env := he.Env()
		if !env.ok() {
			return &resp, newAPIError(env)
		}
	}
	return &resp, nil
}

func (c *Client) CreateMcpSession(ctx context.Context, req CreateMcpSessionRequest) (*CreateMcpSessionResponse, error) {
	return invoke[CreateMcpSessionResponse](ctx, c, "CreateMcpSession", req)
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*GetSessionResponse, error) {
	return invoke[GetSessionResponse](ctx, c, "GetSession", map[string]string{"sessionId": sessionID})
}

func (c *Client) ReleaseMcpSession(ctx context.Context, sessionID string) (*ReleaseMcpSessionResponse, error) {
	return invoke[ReleaseMcpSessionResponse](ctx, c, "ReleaseMcpSession", map[string]string{"sessionId": sessionID})
}

func (c *Client) ListSession(ctx context.Context, req ListSessionRequest) (*ListSessionResponse, error) {
	return invoke[ListSessionResponse](ctx, c, "ListSession", req)
}

func (c *Client) PauseSessionAsync(ctx context.Context, sessionID string) (*PauseSessionAsyncResponse, error) {
	return invoke[PauseSessionAsyncResponse](ctx, c, "PauseSessionAsync", map[string]string{"sessionId": sessionID})
}

func (c *Client) ResumeSessionAsync(ctx context.Context, sessionID string) (*ResumeSessionAsyncResponse, error) {
	return invoke[ResumeSessionAsyncResponse](ctx, c, "ResumeSessionAsync", map[string]string{"sessionId": sessionID})
}

func (c *Client) GetContextInfo(ctx context.Context, req GetContextInfoRequest) (*GetContextInfoResponse, error) {
	return invoke[GetContextInfoResponse](ctx, c, "GetContextInfo", req)
}

func (c *Client) SyncContext(ctx context.Context, req SyncContextRequest) (*SyncContextResponse, error) {
	return invoke[SyncContextResponse](ctx, c, "SyncContext", req)
}

func (c *Client) ListContexts(ctx context.Context, req ListContextsRequest) (*ListContextsResponse, error) {
	return invoke[ListContextsResponse](ctx, c, "ListContexts", req)
}

func (c *Client) GetContext(ctx context.Context, req GetContextRequest) (*GetContextResponse, error) {
	return invoke[GetContextResponse](ctx, c, "GetContext", req)
}

func (c *Client) ModifyContext(ctx context.Context, req ModifyContextRequest) (*ModifyContextResponse, error) {
	return invoke[ModifyContextResponse](ctx, c, "ModifyContext", req)
}

func (c *Client) DeleteContext(ctx context.Context, id string) (*DeleteContextResponse, error) {
	return invoke[DeleteContextResponse](ctx, c, "DeleteContext", DeleteContextRequest{Id: &id})
}

func (c *Client) GetContextFileUploadUrl(ctx context.Context, req FileURLRequest) (*GetContextFileUploadUrlResponse, error) {
	return invoke[GetContextFileUploadUrlResponse](ctx, c, "GetContextFileUploadUrl", req)
}

func (c *Client) GetContextFileDownloadUrl(ctx context.Context, req FileURLRequest) (*GetContextFileDownloadUrlResponse, error) {
	return invoke[GetContextFileDownloadUrlResponse](ctx, c, "GetContextFileDownloadUrl", req)
}

func (c *Client) DeleteContextFile(ctx context.Context, req DeleteContextFileRequest) (*DeleteContextFileResponse, error) {
	return invoke[DeleteContextFileResponse](ctx, c, "DeleteContextFile", req)
}

func (c *Client) DescribeContextFiles(ctx context.Context, req DescribeContextFilesRequest) (*DescribeContextFilesResponse, error) {
	return invoke[DescribeContextFilesResponse](ctx, c, "DescribeContextFiles", req)
}

func (c *Client) ListMcpTools(ctx context.Context, imageID string) (*ListMcpToolsResponse, error) {
	return invoke[ListMcpToolsResponse](ctx, c, "ListMcpTools", map[string]string{"imageId": imageID})
}

func (c *Client) CallMcpTool(ctx context.Context, req CallMcpToolRequest) (*CallMcpToolResponse, error) {
	return invoke[CallMcpToolResponse](ctx, c, "CallMcpTool", req)
}

func (c *Client) SetLabel(ctx context.Context, req SetLabelRequest) (*SetLabelResponse, error) {
	return invoke[SetLabelResponse](ctx, c, "SetLabel", req)
}

func (c *Client) GetLabel(ctx context.Context, sessionID string) (*GetLabelResponse, error) {
	return invoke[GetLabelResponse](ctx, c, "GetLabel", map[string]string{"sessionId": sessionID})
}

func (c *Client) GetMcpResource(ctx context.Context, sessionID string) (*GetMcpResourceResponse, error) {
	return invoke[GetMcpResourceResponse](ctx, c, "GetMcpResource", map[string]string{"sessionId": sessionID})
}

func (c *Client) GetLink(ctx context.Context, req GetLinkRequest) (*GetLinkResponse, error) {
	return invoke[GetLinkResponse](ctx, c, "GetLink", req)
}

// VPCCallToolURL builds the direct-to-sandbox tool invocation URL used when
// a session's tool traffic bypasses the managed plane entirely.
func VPCCallToolURL(ip, port, server, tool, argsJSON, token, requestID string) string {
	q := url.Values{}
	q.Set("server", server)
	q.Set("tool", tool)
	q.Set("args", argsJSON)
	q.Set("token", token)
	q.Set("requestId", requestID)
	return fmt.Sprintf("http://%s:%s/callTool?%s", ip, port, q.Encode())
}
