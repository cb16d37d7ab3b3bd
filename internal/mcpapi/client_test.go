package mcpapi

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyun/agentbay-sdk-go/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	httpClient := server.Client()
	httpClient.Transport.(*http.Transport).TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	endpoint := strings.TrimPrefix(server.URL, "https://")
	return New(endpoint, "test-key", httpClient, logging.NewComponentLogger("test")), server
}

func TestClient_CreateMcpSession_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mcp/CreateMcpSession", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"requestId": "req-1",
			"success":   true,
			"data":      map[string]any{"sessionId": "sess-1"},
		})
	})

	resp, err := client.CreateMcpSession(t.Context(), CreateMcpSessionRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "sess-1", *resp.Data.SessionId)
	assert.Equal(t, "req-1", resp.requestID())
}

func TestClient_APIErrorOnSuccessFalse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"requestId": "req-2",
			"success":   false,
			"code":      "InvalidMcpSession.NotFound",
			"message":   "session not found",
		})
	})

	_, err := client.GetSession(t.Context(), "sess-missing")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "req-2", apiErr.RequestID)
}

func TestClient_TransportErrorOnNon2xx(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	_, err := client.GetSession(t.Context(), "sess-1")
	require.Error(t, err)
	transportErr, ok := err.(*TransportError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
}

func TestVPCCallToolURL_EncodesQueryParams(t *testing.T) {
	raw := VPCCallToolURL("10.0.0.5", "8080", "srv1", "shell", `{"command":"ls"}`, "tok", "req-3")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:8080", u.Host)
	assert.Equal(t, "/callTool", u.Path)

	q := u.Query()
	assert.Equal(t, "srv1", q.Get("server"))
	assert.Equal(t, "shell", q.Get("tool"))
	assert.Equal(t, `{"command":"ls"}`, q.Get("args"))
	assert.Equal(t, "tok", q.Get("token"))
	assert.Equal(t, "req-3", q.Get("requestId"))
}
