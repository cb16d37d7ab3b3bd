package agentbay

import (
	"context"
	"time"

	"github.com/aliyun/agentbay-sdk-go/internal/filetransfer"
)

// contextServiceAdapter satisfies filetransfer.ContextService over the
// public ContextService, unwrapping its Result envelope into a plain error
// the way internal/filetransfer expects.
type contextServiceAdapter struct{ cs *ContextService }

func (a contextServiceAdapter) GetFileUploadURL(ctx context.Context, contextID, filePath string) (string, error) {
	r := a.cs.GetFileUploadURL(ctx, contextID, filePath)
	if !r.Success {
		return "", &ValidationError{Field: "filePath", Message: r.ErrorMessage}
	}
	return r.URL, nil
}

func (a contextServiceAdapter) GetFileDownloadURL(ctx context.Context, contextID, filePath string) (string, error) {
	r := a.cs.GetFileDownloadURL(ctx, contextID, filePath)
	if !r.Success {
		return "", &ValidationError{Field: "filePath", Message: r.ErrorMessage}
	}
	return r.URL, nil
}

// sessionSyncer satisfies filetransfer.Syncer over a Session's
// ContextManager.
type sessionSyncer struct{ s *Session }

func (a sessionSyncer) Sync(ctx context.Context, contextID, path string, timeout, pollInterval time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	r := a.s.ContextManager.Sync(ctx, SyncParams{ContextID: contextID, Path: path, RetryInterval: pollInterval, MaxRetries: defaultSyncMaxRetries})
	return r.Success
}

// transferCoordinator lazily builds the session's file-transfer coordinator
// against its dedicated file-transfer context mount.
func (s *Session) transferCoordinator() *filetransfer.Coordinator {
	return filetransfer.New(contextServiceAdapter{cs: s.ab.Context}, sessionSyncer{s: s}, s.ab.httpClient, s.logger)
}

// UploadFileOptions configures UploadFile/DownloadFile.
type UploadFileOptions struct {
	// Wait blocks until the context sync following the transfer reaches a
	// terminal state.
	Wait         bool
	WaitTimeout  time.Duration
	PollInterval time.Duration
	Progress     func(transferred, total int64)
}

func (o UploadFileOptions) toInternal() filetransfer.Options {
	return filetransfer.Options{
		Wait: o.Wait, WaitTimeout: o.WaitTimeout, PollInterval: o.PollInterval, Progress: filetransfer.ProgressFunc(o.Progress),
	}
}

// TransferResult reports bytes moved and whether the follow-up sync (if
// requested) landed before it was given up on.
type TransferResult struct {
	Result
	Bytes  int64
	Synced bool
}

// UploadFile copies a local file into the session's file-transfer mount at
// remotePath, under FileTransferContextID.
func (s *Session) UploadFile(ctx context.Context, localPath, remotePath string, opts UploadFileOptions) TransferResult {
	if s.FileTransferContextID == "" {
		return TransferResult{Result: failResult(ErrorKindValidation, "", "session has no file-transfer context mount")}
	}
	res, err := s.transferCoordinator().Upload(ctx, s.FileTransferContextID, localPath, remotePath, opts.toInternal())
	if err != nil {
		return TransferResult{Result: failResult(ErrorKindTransport, "", err.Error())}
	}
	return TransferResult{Result: okResult(""), Bytes: res.Bytes, Synced: res.Synced}
}

// DownloadFile copies remotePath, under the session's file-transfer
// context mount, to a local file.
func (s *Session) DownloadFile(ctx context.Context, remotePath, localPath string, opts UploadFileOptions) TransferResult {
	if s.FileTransferContextID == "" {
		return TransferResult{Result: failResult(ErrorKindValidation, "", "session has no file-transfer context mount")}
	}
	res, err := s.transferCoordinator().Download(ctx, s.FileTransferContextID, remotePath, localPath, opts.toInternal())
	if err != nil {
		return TransferResult{Result: failResult(ErrorKindTransport, "", err.Error())}
	}
	return TransferResult{Result: okResult(""), Bytes: res.Bytes}
}
