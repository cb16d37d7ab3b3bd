package agentbay

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtensionID_Format(t *testing.T) {
	id := newExtensionID()
	assert.Regexp(t, regexp.MustCompile(`^ext_[0-9a-f]{32}\.zip$`), id)
}

func TestExtensionService_Create_RejectsNonZip(t *testing.T) {
	ab, _ := newTestAgentBay(t, http.NewServeMux())
	svc, err := NewExtensionService(t.Context(), ab.Context, ab.httpClient, "ctx-ext")
	require.NoError(t, err)

	result := svc.Create(t.Context(), "/tmp/not-a-zip.txt")
	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindValidation, result.Kind)
}

func TestExtensionService_Create_UploadsZipFile(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "ext.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("zip-bytes"), 0o600))

	var uploadedTo string
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/GetContextFileUploadUrl", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"requestId": "req-1", "success": true, "data": map[string]any{"url": uploadURLFor(t, r)}})
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		uploadedTo = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	ab, _ := newTestAgentBay(t, mux)

	svc, err := NewExtensionService(t.Context(), ab.Context, ab.httpClient, "ctx-ext")
	require.NoError(t, err)

	result := svc.Create(t.Context(), zipPath)
	require.True(t, result.Success)
	assert.Regexp(t, regexp.MustCompile(`^ext_[0-9a-f]{32}\.zip$`), result.Extension.ID)
	assert.Equal(t, "/upload", uploadedTo)
}

func uploadURLFor(t *testing.T, r *http.Request) string {
	t.Helper()
	return "https://" + r.Host + "/upload"
}

func TestExtensionService_Update_FailsWhenIDNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/DescribeContextFiles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"requestId": "req-1", "success": true, "data": []map[string]any{}})
	})
	ab, _ := newTestAgentBay(t, mux)
	svc, err := NewExtensionService(t.Context(), ab.Context, ab.httpClient, "ctx-ext")
	require.NoError(t, err)

	result := svc.Update(t.Context(), "ext_missing.zip", "/tmp/new.zip")
	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindNotFound, result.Kind)
}

func TestExtensionService_Cleanup_OnlyDeletesSelfCreatedContext(t *testing.T) {
	deleteCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/DeleteContext", func(w http.ResponseWriter, r *http.Request) {
		deleteCalled = true
		writeJSON(t, w, map[string]any{"requestId": "req-1", "success": true})
	})
	ab, _ := newTestAgentBay(t, mux)

	caller := &ExtensionService{contexts: ab.Context, http: ab.httpClient, contextID: "ctx-caller-owned", selfCreated: false}
	result := caller.Cleanup(t.Context())
	assert.True(t, result.Success)
	assert.False(t, deleteCalled)

	owned := &ExtensionService{contexts: ab.Context, http: ab.httpClient, contextID: "ctx-owned", selfCreated: true}
	result = owned.Cleanup(t.Context())
	assert.True(t, result.Success)
	assert.True(t, deleteCalled)
}
