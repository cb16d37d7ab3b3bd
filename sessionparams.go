package agentbay

// BrowserContext mounts a Chromium user-data directory into a session so
// cookies and local storage survive across sessions. The mount path and
// whitelist are fixed; only ContextID and AutoUpload are caller-supplied.
type BrowserContext struct {
	ContextID   string
	AutoUpload  bool
}

const browserDataPath = "/tmp/agentbay_browser"

// browserContextWhiteList is the fixed set of files synced out of a
// browser profile mount: session state and cookie jars, nothing else.
var browserContextWhiteList = []string{
	"/Local State",
	"/Default/Cookies",
	"/Default/Cookies-journal",
}

// NewBrowserContext returns a browser-profile descriptor with auto-upload
// enabled by default.
func NewBrowserContext(contextID string) *BrowserContext {
	return &BrowserContext{ContextID: contextID, AutoUpload: true}
}

// WithAutoUpload overrides the default auto-upload setting.
func (b *BrowserContext) WithAutoUpload(auto bool) *BrowserContext {
	b.AutoUpload = auto
	return b
}

func (b *BrowserContext) toContextSync() *ContextSync {
	whiteLists := make([]WhiteList, len(browserContextWhiteList))
	for i, path := range browserContextWhiteList {
		whiteLists[i] = WhiteList{Path: path}
	}
	policy := SyncPolicy{
		UploadPolicy: UploadPolicy{AutoUpload: b.AutoUpload, UploadStrategy: UploadStrategyBeforeResourceRelease},
		BWList:       &BWList{WhiteLists: whiteLists},
	}
	return &ContextSync{ContextID: b.ContextID, Path: browserDataPath, Policy: &policy}
}

// SessionParams configures AgentBay.Create. Build one with
// NewCreateSessionParams and its fluent setters.
type SessionParams struct {
	Labels              map[string]string
	ImageID             string
	ContextSync         []ContextSync
	BrowserContext      *BrowserContext
	ExtensionOption     *ExtensionOption
	IsVPC               bool
	PolicyID            string
	EnableBrowserReplay bool
}

// NewCreateSessionParams returns an empty, ready-to-configure SessionParams.
func NewCreateSessionParams() *SessionParams {
	return &SessionParams{Labels: map[string]string{}}
}

// WithLabels sets the session's labels, replacing any previously set.
func (p *SessionParams) WithLabels(labels map[string]string) *SessionParams {
	p.Labels = labels
	return p
}

// WithImageId sets the session's base image.
func (p *SessionParams) WithImageId(imageID string) *SessionParams {
	p.ImageID = imageID
	return p
}

// WithPolicyId sets the mcpPolicyId applied to the session.
func (p *SessionParams) WithPolicyId(policyID string) *SessionParams {
	p.PolicyID = policyID
	return p
}

// WithVPC marks the session for direct VPC tool dispatch.
func (p *SessionParams) WithVPC(isVPC bool) *SessionParams {
	p.IsVPC = isVPC
	return p
}

// WithBrowserContext attaches a browser profile mount.
func (p *SessionParams) WithBrowserContext(bc *BrowserContext) *SessionParams {
	p.BrowserContext = bc
	return p
}

// WithExtensionOption attaches a set of pre-uploaded browser extensions,
// mounted read-only into the session's browser.
func (p *SessionParams) WithExtensionOption(opt ExtensionOption) *SessionParams {
	p.ExtensionOption = &opt
	return p
}

// WithBrowserReplay enables recording of the session's browser activity
// into a dedicated context, flushed on delete.
func (p *SessionParams) WithBrowserReplay(enable bool) *SessionParams {
	p.EnableBrowserReplay = enable
	return p
}

// AddContextSync validates and appends a mount built from its parts.
func (p *SessionParams) AddContextSync(contextID, path string, policy *SyncPolicy) (*SessionParams, error) {
	cs, err := NewContextSync(contextID, path, policy)
	if err != nil {
		return nil, err
	}
	p.ContextSync = append(p.ContextSync, *cs)
	return p, nil
}

// AddContextSyncConfig appends an already-built mount.
func (p *SessionParams) AddContextSyncConfig(sync ContextSync) *SessionParams {
	p.ContextSync = append(p.ContextSync, sync)
	return p
}

func validateLabels(labels map[string]string) error {
	if len(labels) == 0 {
		return &ValidationError{Field: "Labels", Message: "must be a non-empty mapping"}
	}
	for k, v := range labels {
		if k == "" {
			return &ValidationError{Field: "Labels", Message: "key must not be empty"}
		}
		if v == "" {
			return &ValidationError{Field: "Labels", Message: "value for key " + k + " must not be empty"}
		}
	}
	return nil
}
