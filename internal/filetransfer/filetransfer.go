// Package filetransfer coordinates presigned-URL file upload/download
// against a context-backed mount, with an optional pre/post context sync.
//
// It depends only on small adapter interfaces rather than the root
// package's concrete types, so the root package can wire it in without
// creating an import cycle.
package filetransfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aliyun/agentbay-sdk-go/internal/logging"
)

// ContextService resolves presigned URLs for a context-relative path.
type ContextService interface {
	GetFileUploadURL(ctx context.Context, contextID, filePath string) (url string, err error)
	GetFileDownloadURL(ctx context.Context, contextID, filePath string) (url string, err error)
}

// Syncer triggers a context sync and reports whether it completed
// successfully; used to flush a just-uploaded file into the mount, or pull
// down a freshly-synced one before download.
type Syncer interface {
	Sync(ctx context.Context, contextID, path string, timeout, pollInterval time.Duration) bool
}

// ProgressFunc is invoked as bytes move across the wire. total is -1 when
// unknown (a download whose response carries no Content-Length).
type ProgressFunc func(transferred, total int64)

// Options configures a single Upload/Download call.
type Options struct {
	// Wait, when true, blocks until the context-sync that follows the HTTP
	// transfer reaches a terminal state before returning.
	Wait         bool
	WaitTimeout  time.Duration
	PollInterval time.Duration
	Progress     ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = 30 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 1500 * time.Millisecond
	}
	return o
}

// Result reports the outcome of an Upload/Download call.
type Result struct {
	Bytes int64
	// Synced is true when Options.Wait was set and the post-transfer sync
	// reached a terminal success state before WaitTimeout elapsed.
	Synced bool
}

// Coordinator drives the upload/download flow: presigned-URL resolution,
// the HTTP PUT/GET itself, and the optional sync wait around it.
type Coordinator struct {
	contexts ContextService
	sync     Syncer
	http     *http.Client
	logger   logging.Logger
}

// New builds a Coordinator. httpClient and logger must not be nil.
func New(contexts ContextService, sync Syncer, httpClient *http.Client, logger logging.Logger) *Coordinator {
	return &Coordinator{contexts: contexts, sync: sync, http: httpClient, logger: logging.OrNop(logger)}
}

// Upload PUTs localPath's contents to the presigned URL for
// contextID:remotePath, then optionally waits for the resulting sync task
// to finish.
func (c *Coordinator) Upload(ctx context.Context, contextID, localPath, remotePath string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	f, err := os.Open(localPath)
	if err != nil {
		return Result{}, fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat local file: %w", err)
	}

	url, err := c.contexts.GetFileUploadURL(ctx, contextID, remotePath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve upload url: %w", err)
	}

	var body io.Reader = f
	counter := &countingReader{r: f, total: info.Size(), progress: opts.Progress}
	body = counter

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return Result{}, err
	}
	req.ContentLength = info.Size()

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("upload: status %d", resp.StatusCode)
	}

	result := Result{Bytes: counter.read}
	if opts.Wait && c.sync != nil {
		result.Synced = c.sync.Sync(ctx, contextID, remotePath, opts.WaitTimeout, opts.PollInterval)
	}
	return result, nil
}

// Download GETs the presigned URL for contextID:remotePath and writes it to
// localPath, optionally waiting for a pre-download sync to land first.
func (c *Coordinator) Download(ctx context.Context, contextID, remotePath, localPath string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	if opts.Wait && c.sync != nil {
		if !c.sync.Sync(ctx, contextID, remotePath, opts.WaitTimeout, opts.PollInterval) {
			c.logger.Warn("pre-download sync for %s did not reach a terminal state before download", remotePath)
		}
	}

	url, err := c.contexts.GetFileDownloadURL(ctx, contextID, remotePath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve download url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("download: status %d", resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return Result{}, fmt.Errorf("create local file: %w", err)
	}
	defer out.Close()

	total := resp.ContentLength
	counter := &countingWriter{w: out, total: total, progress: opts.Progress}
	n, err := io.Copy(counter, resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("write local file: %w", err)
	}
	return Result{Bytes: n}, nil
}

type countingReader struct {
	r        io.Reader
	read     int64
	total    int64
	progress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.progress != nil && n > 0 {
		c.progress(c.read, c.total)
	}
	return n, err
}

type countingWriter struct {
	w        io.Writer
	written  int64
	total    int64
	progress ProgressFunc
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	if c.progress != nil && n > 0 {
		c.progress(c.written, c.total)
	}
	return n, err
}
