package agentbay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlSyncPolicy mirrors SyncPolicy's shape for the on-disk fixture format.
// Every field is optional; an omitted field takes its Go zero value (false,
// 0 or empty), which toSyncPolicy copies into the SyncPolicy as-is rather
// than falling back to NewSyncPolicy's defaults.
type yamlSyncPolicy struct {
	Upload struct {
		AutoUpload bool `yaml:"autoUpload"`
		Period     int  `yaml:"period"`
	} `yaml:"upload"`
	Download struct {
		AutoDownload bool `yaml:"autoDownload"`
	} `yaml:"download"`
	Delete struct {
		SyncLocalFile bool `yaml:"syncLocalFile"`
	} `yaml:"delete"`
	Recycle *struct {
		Lifecycle string   `yaml:"lifecycle"`
		Paths     []string `yaml:"paths"`
	} `yaml:"recycle"`
	Whitelist []struct {
		Path         string   `yaml:"path"`
		ExcludePaths []string `yaml:"excludePaths"`
	} `yaml:"whitelist"`
}

func (y yamlSyncPolicy) toSyncPolicy() SyncPolicy {
	policy := SyncPolicy{
		UploadPolicy:   UploadPolicy{AutoUpload: y.Upload.AutoUpload, UploadStrategy: UploadStrategyBeforeResourceRelease, Period: y.Upload.Period},
		DownloadPolicy: DownloadPolicy{AutoDownload: y.Download.AutoDownload, DownloadStrategy: DownloadStrategyAsync},
		DeletePolicy:   DeletePolicy{SyncLocalFile: y.Delete.SyncLocalFile},
	}
	if y.Recycle != nil {
		policy.RecyclePolicy = &RecyclePolicy{Lifecycle: Lifecycle(y.Recycle.Lifecycle), Paths: y.Recycle.Paths}
	}
	if len(y.Whitelist) > 0 {
		wl := make([]WhiteList, len(y.Whitelist))
		for i, w := range y.Whitelist {
			wl[i] = WhiteList{Path: w.Path, ExcludePaths: w.ExcludePaths}
		}
		policy.BWList = &BWList{WhiteLists: wl}
	}
	return policy
}

type yamlContextSync struct {
	ContextID string          `yaml:"contextId"`
	Path      string          `yaml:"path"`
	Policy    *yamlSyncPolicy `yaml:"policy"`
}

// yamlSessionParams is the on-disk fixture format loaded by
// LoadSessionParamsFile: a plain, hand-editable description of a
// SessionParams a test or example can check into testdata/ instead of
// constructing one through the fluent builder in Go.
type yamlSessionParams struct {
	Labels              map[string]string `yaml:"labels"`
	ImageID             string            `yaml:"imageId"`
	PolicyID            string            `yaml:"policyId"`
	IsVPC               bool              `yaml:"isVpc"`
	EnableBrowserReplay bool              `yaml:"enableBrowserReplay"`
	ContextSync         []yamlContextSync `yaml:"contextSync"`
}

// LoadSessionParamsFile reads a YAML session-params fixture from path and
// builds a SessionParams from it, validating each declared context-sync
// mount's policy the same way AddContextSync would.
func LoadSessionParamsFile(path string) (*SessionParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session params file: %w", err)
	}

	var doc yamlSessionParams
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse session params file: %w", err)
	}

	params := NewCreateSessionParams().
		WithImageId(doc.ImageID).
		WithPolicyId(doc.PolicyID).
		WithVPC(doc.IsVPC).
		WithBrowserReplay(doc.EnableBrowserReplay)
	if doc.Labels != nil {
		params.WithLabels(doc.Labels)
	}

	for _, mnt := range doc.ContextSync {
		var policy *SyncPolicy
		if mnt.Policy != nil {
			p := mnt.Policy.toSyncPolicy()
			policy = &p
		}
		if _, err := params.AddContextSync(mnt.ContextID, mnt.Path, policy); err != nil {
			return nil, fmt.Errorf("context sync mount %s: %w", mnt.ContextID, err)
		}
	}

	return params, nil
}
