package agentbay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyncPolicy_Defaults(t *testing.T) {
	p := NewSyncPolicy()
	assert.True(t, p.UploadPolicy.AutoUpload)
	assert.True(t, p.DownloadPolicy.AutoDownload)
	assert.False(t, p.DeletePolicy.SyncLocalFile)
}

func TestNewContextSync_RejectsWildcardInRecyclePolicyPaths(t *testing.T) {
	policy := NewSyncPolicy()
	policy.RecyclePolicy = &RecyclePolicy{Lifecycle: Lifecycle30Days, Paths: []string{"/data/*"}}

	_, err := NewContextSync("ctx-1", "/mnt", &policy)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestNewContextSync_RejectsWildcardInWhiteList(t *testing.T) {
	policy := NewSyncPolicy()
	policy.BWList = &BWList{WhiteLists: []WhiteList{{Path: "/data", ExcludePaths: []string{"/data/tmp?"}}}}

	_, err := NewContextSync("ctx-1", "/mnt", &policy)
	require.Error(t, err)
}

func TestNewContextSync_AcceptsPlainPaths(t *testing.T) {
	policy := NewSyncPolicy()
	policy.RecyclePolicy = &RecyclePolicy{Lifecycle: Lifecycle5Days, Paths: []string{"/data/logs"}}

	cs, err := NewContextSync("ctx-1", "/mnt", &policy)
	require.NoError(t, err)
	assert.Equal(t, "ctx-1", cs.ContextID)
}

func TestContextSync_PolicyJSON_NilPolicyIsEmptyString(t *testing.T) {
	cs := &ContextSync{ContextID: "ctx-1", Path: "/mnt"}
	js, err := cs.policyJSON()
	require.NoError(t, err)
	assert.Empty(t, js)
}

func TestContextSync_PolicyJSON_RoundTrips(t *testing.T) {
	policy := NewSyncPolicy()
	cs := &ContextSync{ContextID: "ctx-1", Path: "/mnt", Policy: &policy}
	js, err := cs.policyJSON()
	require.NoError(t, err)
	assert.Contains(t, js, "AutoUpload")
}
