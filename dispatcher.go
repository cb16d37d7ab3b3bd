package agentbay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aliyun/agentbay-sdk-go/internal/errorkit"
	"github.com/aliyun/agentbay-sdk-go/internal/httpx"
	"github.com/aliyun/agentbay-sdk-go/internal/mcpapi"
)

// ToolResult is the envelope CallTool returns, uniform across the managed
// and direct-VPC dispatch paths.
type ToolResult struct {
	Result
	Data string
}

// CodeOutputLogger receives the raw Data payload of a "run_code" tool call
// before it is returned to the caller.
type CodeOutputLogger interface {
	LogCodeOutput(sessionID, data string)
}

// CallTool invokes a remote tool by name, routing through the managed RPC
// plane or, for a VPC session, directly to the sandbox's HTTP endpoint.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any, autoGenSession bool) ToolResult {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return ToolResult{Result: failResult(ErrorKindValidation, "", "encode args: "+err.Error())}
	}

	var result ToolResult
	if s.IsVPC {
		result = s.callToolVPC(ctx, name, string(argsJSON))
	} else {
		result = s.callToolManaged(ctx, name, string(argsJSON), autoGenSession)
	}

	s.ab.metrics.ToolCalled(name, result.Success)
	if name == "run_code" {
		if logger, ok := any(s.ab).(CodeOutputLogger); ok {
			logger.LogCodeOutput(s.SessionID, result.Data)
		}
	}
	return result
}

func (s *Session) callToolManaged(ctx context.Context, name, argsJSON string, autoGenSession bool) ToolResult {
	resp, err := s.ab.wire.CallMcpTool(ctx, mcpapi.CallMcpToolRequest{
		SessionId:      &s.SessionID,
		Name:           &name,
		Args:           &argsJSON,
		AutoGenSession: &autoGenSession,
	})
	if err != nil {
		return ToolResult{Result: resultFromWireError(s.logger, err)}
	}
	return toolResultFromData(resp.requestID(), resp.Data)
}

func (s *Session) callToolVPC(ctx context.Context, name, argsJSON string) ToolResult {
	server := s.findServerForTool(name)
	if server == "" {
		return ToolResult{Result: failResult(ErrorKindValidation, "", "Server not found for tool: "+name)}
	}
	if s.NetworkInterfaceIP == "" || s.HTTPPort == "" {
		return ToolResult{Result: failResult(ErrorKindValidation, "",
			fmt.Sprintf("incomplete VPC session config: NetworkInterfaceIP=%q HTTPPort=%q", s.NetworkInterfaceIP, s.HTTPPort))}
	}

	requestID := "vpc-" + uuid.New().String()
	url := mcpapi.VPCCallToolURL(s.NetworkInterfaceIP, s.HTTPPort, server, name, argsJSON, s.Token, requestID)

	if _, err := httpx.ValidateOutboundURL(url, httpx.URLValidationOptions{AllowLocalhost: true, AllowPrivateNetworks: true}); err != nil {
		return ToolResult{Result: failResult(ErrorKindValidation, requestID, err.Error())}
	}

	target := s.NetworkInterfaceIP + ":" + s.HTTPPort
	breaker := s.ab.vpcBreakers.Get(target)

	var result ToolResult
	breakerErr := breaker.Execute(ctx, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			result = ToolResult{Result: failResult(ErrorKindTransport, requestID, err.Error())}
			return err
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		httpResp, err := s.ab.httpClient.Do(httpReq)
		if err != nil {
			result = ToolResult{Result: failResult(ErrorKindTransport, requestID, err.Error())}
			return err
		}
		defer httpResp.Body.Close()
		if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
			err := fmt.Errorf("vpc callTool: status %d", httpResp.StatusCode)
			result = ToolResult{Result: failResult(ErrorKindTransport, requestID, err.Error())}
			return err
		}

		var envelope struct {
			Data string `json:"data"`
		}
		if err := json.NewDecoder(httpResp.Body).Decode(&envelope); err != nil {
			result = ToolResult{Result: failResult(ErrorKindTransport, requestID, "decode vpc response: "+err.Error())}
			return err
		}

		var inner struct {
			Result mcpapi.CallMcpToolData `json:"result"`
		}
		if err := json.Unmarshal([]byte(envelope.Data), &inner); err != nil {
			result = ToolResult{Result: failResult(ErrorKindAPI, requestID, "decode vpc result: "+err.Error())}
			return err
		}

		result = toolResultFromData(requestID, &inner.Result)
		return nil
	})
	if breakerErr != nil && errorkit.IsDegraded(breakerErr) {
		return ToolResult{Result: failResult(ErrorKindTransport, requestID, breakerErr.Error())}
	}
	return result
}

func (s *Session) findServerForTool(name string) string {
	for _, t := range s.mcpTools {
		if t.Tool == name || t.Name == name {
			return t.Server
		}
	}
	return ""
}

func toolResultFromData(requestID string, data *mcpapi.CallMcpToolData) ToolResult {
	if data == nil {
		return ToolResult{Result: okResult(requestID)}
	}
	if data.IsError != nil && *data.IsError {
		texts := make([]string, 0, len(data.Content))
		for _, c := range data.Content {
			if c.Text != nil {
				texts = append(texts, *c.Text)
			}
		}
		return ToolResult{Result: failResult(ErrorKindTool, requestID, strings.Join(texts, "; "))}
	}
	text := ""
	if len(data.Content) > 0 && data.Content[0].Text != nil {
		text = *data.Content[0].Text
	}
	return ToolResult{Result: okResult(requestID), Data: text}
}
