package filetransfer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContextService struct {
	uploadURL, downloadURL string
	err                    error
}

func (f *fakeContextService) GetFileUploadURL(ctx context.Context, contextID, filePath string) (string, error) {
	return f.uploadURL, f.err
}

func (f *fakeContextService) GetFileDownloadURL(ctx context.Context, contextID, filePath string) (string, error) {
	return f.downloadURL, f.err
}

type fakeSyncer struct {
	result  bool
	calls   int
	lastCtx string
}

func (f *fakeSyncer) Sync(ctx context.Context, contextID, path string, timeout, pollInterval time.Duration) bool {
	f.calls++
	f.lastCtx = contextID
	return f.result
}

func TestCoordinator_Upload_TracksProgressAndWaitsForSync(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = body
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	localPath := filepath.Join(dir, "upload.bin")
	require.NoError(t, os.WriteFile(localPath, []byte("payload-bytes"), 0o600))

	ctxSvc := &fakeContextService{uploadURL: server.URL}
	syncer := &fakeSyncer{result: true}
	coord := New(ctxSvc, syncer, server.Client(), nil)

	var lastTransferred, lastTotal int64
	result, err := coord.Upload(context.Background(), "ctx-1", localPath, "/remote/upload.bin", Options{
		Wait:     true,
		Progress: func(transferred, total int64) { lastTransferred, lastTotal = transferred, total },
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len("payload-bytes")), result.Bytes)
	assert.True(t, result.Synced)
	assert.Equal(t, 1, syncer.calls)
	assert.Equal(t, "ctx-1", syncer.lastCtx)
	assert.Equal(t, result.Bytes, lastTransferred)
	assert.Equal(t, result.Bytes, lastTotal)
	assert.NotEmpty(t, received)
}

func TestCoordinator_Upload_FailsOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	localPath := filepath.Join(dir, "upload.bin")
	require.NoError(t, os.WriteFile(localPath, []byte("x"), 0o600))

	coord := New(&fakeContextService{uploadURL: server.URL}, nil, server.Client(), nil)
	_, err := coord.Upload(context.Background(), "ctx-1", localPath, "/remote/upload.bin", Options{})
	assert.Error(t, err)
}

func TestCoordinator_Download_WritesLocalFileAndWarnsOnUnsyncedPreWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote-contents"))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	localPath := filepath.Join(dir, "download.bin")

	ctxSvc := &fakeContextService{downloadURL: server.URL}
	syncer := &fakeSyncer{result: false}
	coord := New(ctxSvc, syncer, server.Client(), nil)

	result, err := coord.Download(context.Background(), "ctx-1", "/remote/download.bin", localPath, Options{Wait: true})
	require.NoError(t, err)
	assert.Equal(t, int64(len("remote-contents")), result.Bytes)
	assert.Equal(t, 1, syncer.calls)

	contents, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "remote-contents", string(contents))
}
