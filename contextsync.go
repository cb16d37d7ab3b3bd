package agentbay

import (
	"encoding/json"
	"strings"
)

const wildcardChars = "*?[]"

func containsWildcard(path string) bool {
	return strings.ContainsAny(path, wildcardChars)
}

// UploadStrategy selects how a context-sync upload is triggered.
type UploadStrategy string

const (
	UploadStrategyBeforeResourceRelease UploadStrategy = "UploadBeforeResourceRelease"
)

// UploadPolicy controls automatic upload behavior for a context mount.
type UploadPolicy struct {
	AutoUpload     bool
	UploadStrategy UploadStrategy
	Period         int // minutes; zero means "use the server default"
}

// DownloadStrategy selects how a context-sync download is triggered.
type DownloadStrategy string

const (
	DownloadStrategyAsync DownloadStrategy = "DownloadAsync"
)

// DownloadPolicy controls automatic download behavior for a context mount.
type DownloadPolicy struct {
	AutoDownload     bool
	DownloadStrategy DownloadStrategy
}

// DeletePolicy controls whether local files are removed after a sync.
type DeletePolicy struct {
	SyncLocalFile bool
}

// ExtractPolicy controls automatic archive extraction after download.
type ExtractPolicy struct {
	Extract                bool
	DeleteSrcFile           bool
	ExtractToCurrentFolder bool
}

// Lifecycle is a RecyclePolicy retention window.
type Lifecycle string

const (
	Lifecycle1Day    Lifecycle = "Lifecycle1Day"
	Lifecycle3Days   Lifecycle = "Lifecycle3Days"
	Lifecycle5Days   Lifecycle = "Lifecycle5Days"
	Lifecycle10Days  Lifecycle = "Lifecycle10Days"
	Lifecycle30Days  Lifecycle = "Lifecycle30Days"
	LifecycleForever Lifecycle = "LifecycleForever"
)

// RecyclePolicy bounds how long synced data is retained server-side.
// Paths scopes the policy to specific subdirectories; an empty slice means
// the whole context.
type RecyclePolicy struct {
	Lifecycle Lifecycle
	Paths     []string
}

// WhiteList is one included path plus any excluded sub-paths within it.
// Path and every entry in ExcludePaths must be an exact directory: none of
// them may contain a wildcard metacharacter (* ? [ ]).
type WhiteList struct {
	Path         string
	ExcludePaths []string
}

// BWList is the (currently upload-only) black/white-list gate on a
// context-sync mount.
type BWList struct {
	WhiteLists []WhiteList
}

// SyncPolicy is the full policy attached to a ContextSync mount. Only
// Upload/Download/Delete are required; Extract, Recycle, and BWList are
// optional refinements.
type SyncPolicy struct {
	UploadPolicy   UploadPolicy
	DownloadPolicy DownloadPolicy
	DeletePolicy   DeletePolicy
	ExtractPolicy  *ExtractPolicy
	RecyclePolicy  *RecyclePolicy
	BWList         *BWList
}

// NewSyncPolicy returns the default policy: auto-upload and auto-download
// both enabled, local files kept after sync.
func NewSyncPolicy() SyncPolicy {
	return SyncPolicy{
		UploadPolicy:   UploadPolicy{AutoUpload: true, UploadStrategy: UploadStrategyBeforeResourceRelease},
		DownloadPolicy: DownloadPolicy{AutoDownload: true, DownloadStrategy: DownloadStrategyAsync},
		DeletePolicy:   DeletePolicy{SyncLocalFile: false},
	}
}

func (p SyncPolicy) validate() error {
	if p.RecyclePolicy != nil {
		for _, path := range p.RecyclePolicy.Paths {
			if containsWildcard(path) {
				return &ValidationError{Field: "RecyclePolicy.Paths", Message: "path must not contain * ? [ ]: " + path}
			}
		}
	}
	if p.BWList != nil {
		for _, wl := range p.BWList.WhiteLists {
			if containsWildcard(wl.Path) {
				return &ValidationError{Field: "BWList.WhiteLists.Path", Message: "path must not contain * ? [ ]: " + wl.Path}
			}
			for _, excl := range wl.ExcludePaths {
				if containsWildcard(excl) {
					return &ValidationError{Field: "BWList.WhiteLists.ExcludePaths", Message: "path must not contain * ? [ ]: " + excl}
				}
			}
		}
	}
	return nil
}

// ContextSync attaches a persistent context to a session at a mount path.
type ContextSync struct {
	ContextID string
	Path      string
	Policy    *SyncPolicy
}

// NewContextSync validates and constructs a mount descriptor. Returns an
// error rather than panicking when policy validation fails, matching the
// real SDK's fluent builder surface.
func NewContextSync(contextID, path string, policy *SyncPolicy) (*ContextSync, error) {
	cs := &ContextSync{ContextID: contextID, Path: path, Policy: policy}
	if policy != nil {
		if err := policy.validate(); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// WithPolicy replaces the sync's policy, re-validating it.
func (cs *ContextSync) WithPolicy(policy SyncPolicy) (*ContextSync, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	cs.Policy = &policy
	return cs, nil
}

// policyJSON encodes the policy for the wire's persistenceDataList.policy
// string field. A nil policy encodes as an empty string (server default).
func (cs *ContextSync) policyJSON() (string, error) {
	if cs.Policy == nil {
		return "", nil
	}
	b, err := json.Marshal(cs.Policy)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
