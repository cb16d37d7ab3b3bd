package agentbay

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_UploadFile_RejectsWithoutFileTransferContext(t *testing.T) {
	ab, _ := newTestAgentBay(t, http.NewServeMux())
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	result := s.UploadFile(t.Context(), "/tmp/x", "/remote/x", UploadFileOptions{})
	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindValidation, result.Kind)
}

func TestSession_UploadFile_RoundTripsThroughPresignedURL(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(localPath, []byte("file contents"), 0o600))

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/GetContextFileUploadUrl", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"requestId": "req-1", "success": true, "data": map[string]any{"url": "https://" + r.Host + "/put"}})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ab, _ := newTestAgentBay(t, mux)

	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")
	s.FileTransferContextID = "ctx-ft"

	result := s.UploadFile(t.Context(), localPath, "/remote/f.txt", UploadFileOptions{})
	require.True(t, result.Success)
	assert.Equal(t, int64(len("file contents")), result.Bytes)
}

func TestSession_DownloadFile_RejectsWithoutFileTransferContext(t *testing.T) {
	ab, _ := newTestAgentBay(t, http.NewServeMux())
	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")

	result := s.DownloadFile(t.Context(), "/remote/x", "/tmp/x", UploadFileOptions{})
	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindValidation, result.Kind)
}
