package agentbay

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aliyun/agentbay-sdk-go/internal/logging"
)

const extensionsMountPath = "/tmp/extensions"

// ExtensionOption bundles a set of extension ids under a context, ready to
// attach to a browser session's SessionParams.
type ExtensionOption struct {
	ContextID string
	IDs       []string
}

// ExtensionService manages browser-extension zip packages stored in a
// dedicated context. Construct with NewExtensionService; Cleanup releases
// the context if this service auto-created it.
type ExtensionService struct {
	contexts    *ContextService
	http        *http.Client
	logger      logging.Logger
	contextID   string
	contextName string
	selfCreated bool
}

// NewExtensionService resolves the service's backing context at
// construction time. A non-empty contextID is used as given; it is neither
// checked for existence nor created. An empty contextID makes the
// constructor create a context named "extensions-<unix-seconds>", tracked
// as owned by this service, so Cleanup will remove it.
func NewExtensionService(ctx context.Context, contexts *ContextService, httpClient *http.Client, contextID string) (*ExtensionService, error) {
	logger := logging.NewComponentLogger("ExtensionService")
	svc := &ExtensionService{contexts: contexts, http: httpClient, logger: logger}

	if contextID != "" {
		svc.contextID = contextID
		return svc, nil
	}

	name := fmt.Sprintf("extensions-%d", time.Now().Unix())
	result := contexts.Create(ctx, name)
	if !result.Success {
		return nil, fmt.Errorf("create extensions context: %s", result.ErrorMessage)
	}
	svc.contextID = result.ContextID
	svc.contextName = name
	svc.selfCreated = true
	return svc, nil
}

// NewExtensionService builds an ExtensionService scoped to this client,
// reusing its configured HTTP client and ContextService. See
// NewExtensionService (package-level) for the contextID semantics.
func (ab *AgentBay) NewExtensionService(ctx context.Context, contextID string) (*ExtensionService, error) {
	return NewExtensionService(ctx, ab.Context, ab.httpClient, contextID)
}

// ExtensionResult is the envelope Create/Update return.
type ExtensionResult struct {
	Result
	Extension Extension
}

// Create uploads localPath (which must end in .zip) as a new extension,
// assigning it a content-addressed id.
func (s *ExtensionService) Create(ctx context.Context, localPath string) ExtensionResult {
	if !strings.HasSuffix(strings.ToLower(localPath), ".zip") {
		return ExtensionResult{Result: failResult(ErrorKindValidation, "", "extension file must be a .zip: "+localPath)}
	}

	id := newExtensionID()
	remotePath := path.Join(extensionsMountPath, id)

	uploadURL := s.contexts.GetFileUploadURL(ctx, s.contextID, remotePath)
	if !uploadURL.Success {
		return ExtensionResult{Result: uploadURL.Result}
	}

	if err := s.putFile(ctx, uploadURL.URL, localPath); err != nil {
		return ExtensionResult{Result: failResult(ErrorKindTransport, "", err.Error())}
	}

	return ExtensionResult{
		Result:    okResult(""),
		Extension: Extension{ID: id, Name: id, CreatedAt: time.Now()},
	}
}

// ListExtensionsResult is the envelope List returns.
type ListExtensionsResult struct {
	Result
	Extensions []Extension
}

// List returns every extension currently stored in the service's context.
func (s *ExtensionService) List(ctx context.Context) ListExtensionsResult {
	files := s.contexts.ListFiles(ctx, s.contextID, extensionsMountPath, 1, 200)
	if !files.Success {
		return ListExtensionsResult{Result: files.Result}
	}

	extensions := make([]Extension, 0, len(files.Entries))
	for _, f := range files.Entries {
		extensions = append(extensions, Extension{ID: f.FileName, Name: f.FileName, CreatedAt: parseGmtTime(f.GmtCreate)})
	}
	return ListExtensionsResult{Result: okResult(files.RequestID), Extensions: extensions}
}

// Update overwrites an existing extension's contents. id must already
// exist in List.
func (s *ExtensionService) Update(ctx context.Context, id, newLocalPath string) ExtensionResult {
	existing := s.List(ctx)
	if !existing.Success {
		return ExtensionResult{Result: existing.Result}
	}
	found := false
	for _, e := range existing.Extensions {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return ExtensionResult{Result: failResult(ErrorKindNotFound, "", "extension not found: "+id)}
	}

	remotePath := path.Join(extensionsMountPath, id)
	uploadURL := s.contexts.GetFileUploadURL(ctx, s.contextID, remotePath)
	if !uploadURL.Success {
		return ExtensionResult{Result: uploadURL.Result}
	}
	if err := s.putFile(ctx, uploadURL.URL, newLocalPath); err != nil {
		return ExtensionResult{Result: failResult(ErrorKindTransport, "", err.Error())}
	}
	return ExtensionResult{Result: okResult(""), Extension: Extension{ID: id, Name: id, CreatedAt: time.Now()}}
}

// Delete removes an extension's backing file.
func (s *ExtensionService) Delete(ctx context.Context, id string) Result {
	return s.contexts.DeleteFile(ctx, s.contextID, path.Join(extensionsMountPath, id))
}

// CreateExtensionOption bundles ids under this service's context for
// attaching to a browser session.
func (s *ExtensionService) CreateExtensionOption(ids []string) ExtensionOption {
	return ExtensionOption{ContextID: s.contextID, IDs: append([]string(nil), ids...)}
}

// Cleanup deletes the backing context, but only if this service created
// it; a caller-supplied context is left untouched.
func (s *ExtensionService) Cleanup(ctx context.Context) Result {
	if !s.selfCreated {
		return okResult("")
	}
	return s.contexts.Delete(ctx, Context{ID: s.contextID, Name: s.contextName})
}

func (s *ExtensionService) putFile(ctx context.Context, url, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat local file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
	if err != nil {
		return err
	}
	req.ContentLength = info.Size()

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload: status %d", resp.StatusCode)
	}
	return nil
}

func newExtensionID() string {
	id := uuid.New()
	return "ext_" + hex.EncodeToString(id[:]) + ".zip"
}

func parseGmtTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
