package agentbay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyun/agentbay-sdk-go/internal/mcpapi"
)

func contextStatusEnvelope(t *testing.T, items string) map[string]any {
	t.Helper()
	return map[string]any{
		"requestId": "req-1", "success": true,
		"data": map[string]any{"contextStatus": items},
	}
}

func TestContextManager_Info_ParsesStatusEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/GetContextInfo", func(w http.ResponseWriter, r *http.Request) {
		inner := `[{"type":"data","data":"{\"contextId\":\"ctx-1\",\"path\":\"/mnt\",\"status\":\"Success\",\"taskType\":\"upload\"}"}]`
		writeJSON(t, w, contextStatusEnvelope(t, inner))
	})
	ab, _ := newTestAgentBay(t, mux)
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	result := s.ContextManager.Info(t.Context())
	require.True(t, result.Success)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "ctx-1", result.Items[0].ContextID)
	assert.True(t, result.Items[0].isTerminal())
}

func TestContextManager_WaitForTerminal_ReturnsTrueWhenNoItems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/GetContextInfo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"requestId": "req-2", "success": true})
	})
	ab, _ := newTestAgentBay(t, mux)
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	assert.True(t, s.ContextManager.waitForTerminal(t.Context(), nil))
}

func TestContextManager_WaitForMounts_FansOutAcrossMounts(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/GetContextInfo", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		inner := `[{"type":"data","data":"{\"contextId\":\"ctx-1\",\"path\":\"/mnt\",\"status\":\"Success\",\"taskType\":\"upload\"}"}]`
		writeJSON(t, w, contextStatusEnvelope(t, inner))
	})
	ab, _ := newTestAgentBay(t, mux)
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	mounts := []ContextSync{
		{ContextID: "ctx-1", Path: "/mnt/a"},
		{ContextID: "ctx-2", Path: "/mnt/b"},
		{ContextID: "ctx-3", Path: "/mnt/c"},
	}
	assert.True(t, s.ContextManager.waitForMounts(t.Context(), mounts))
	assert.Equal(t, int32(3), calls.Load())
}

func TestContextManager_WaitForMounts_FalseWhenAMountNeverTerminates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/GetContextInfo", func(w http.ResponseWriter, r *http.Request) {
		var req mcpapi.GetContextInfoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		path := ""
		if req.Path != nil {
			path = *req.Path
		}
		status := "Success"
		if path == "/mnt/b" {
			status = "Running"
		}
		inner := `[{"type":"data","data":"{\"contextId\":\"ctx\",\"path\":\"` + path + `\",\"status\":\"` + status + `\",\"taskType\":\"upload\"}"}]`
		writeJSON(t, w, contextStatusEnvelope(t, inner))
	})
	ab, _ := newTestAgentBay(t, mux)
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	mounts := []ContextSync{
		{ContextID: "ctx-1", Path: "/mnt/a"},
		{ContextID: "ctx-2", Path: "/mnt/b"},
	}
	assert.False(t, s.ContextManager.waitForMounts(ctx, mounts))
}

func TestContextManager_Sync_SynchronousModeWaitsForTerminalTasks(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/SyncContext", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"requestId": "req-3", "success": true})
	})
	mux.HandleFunc("/mcp/GetContextInfo", func(w http.ResponseWriter, r *http.Request) {
		calls++
		inner := `[{"type":"data","data":"{\"contextId\":\"ctx-1\",\"path\":\"/mnt\",\"status\":\"Success\",\"taskType\":\"upload\"}"}]`
		writeJSON(t, w, contextStatusEnvelope(t, inner))
	})
	ab, _ := newTestAgentBay(t, mux)
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	result := s.ContextManager.Sync(t.Context(), SyncParams{ContextID: "ctx-1", MaxRetries: 3})
	assert.True(t, result.Success)
	assert.Equal(t, 1, calls)
}

func TestContextManager_Sync_CallbackModeInvokesCallbackAsync(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/SyncContext", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"requestId": "req-4", "success": true})
	})
	mux.HandleFunc("/mcp/GetContextInfo", func(w http.ResponseWriter, r *http.Request) {
		inner := `[{"type":"data","data":"{\"contextId\":\"ctx-1\",\"path\":\"/mnt\",\"status\":\"Success\",\"taskType\":\"upload\"}"}]`
		writeJSON(t, w, contextStatusEnvelope(t, inner))
	})
	ab, _ := newTestAgentBay(t, mux)
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	done := make(chan bool, 1)
	result := s.ContextManager.Sync(t.Context(), SyncParams{
		ContextID: "ctx-1", MaxRetries: 3,
		Callback: func(success bool) { done <- success },
	})
	require.True(t, result.Success)

	select {
	case success := <-done:
		assert.True(t, success)
	case <-time.After(5 * time.Second):
		t.Fatal("callback never invoked")
	}
}
