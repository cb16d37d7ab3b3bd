package agentbay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLabels_RejectsEmptyMap(t *testing.T) {
	err := validateLabels(map[string]string{})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestValidateLabels_RejectsEmptyKeyOrValue(t *testing.T) {
	assert.Error(t, validateLabels(map[string]string{"": "v"}))
	assert.Error(t, validateLabels(map[string]string{"k": ""}))
}

func TestValidateLabels_AcceptsNonEmptyMap(t *testing.T) {
	assert.NoError(t, validateLabels(map[string]string{"env": "prod"}))
}

func TestNewBrowserContext_DefaultsAutoUploadTrue(t *testing.T) {
	bc := NewBrowserContext("ctx-1")
	assert.True(t, bc.AutoUpload)

	bc.WithAutoUpload(false)
	assert.False(t, bc.AutoUpload)
}

func TestBrowserContext_ToContextSync_FixedWhiteList(t *testing.T) {
	bc := NewBrowserContext("ctx-1")
	cs := bc.toContextSync()

	assert.Equal(t, "ctx-1", cs.ContextID)
	assert.Equal(t, browserDataPath, cs.Path)
	require.NotNil(t, cs.Policy.BWList)
	require.Len(t, cs.Policy.BWList.WhiteLists, len(browserContextWhiteList))
	for i, wl := range cs.Policy.BWList.WhiteLists {
		assert.Equal(t, browserContextWhiteList[i], wl.Path)
	}
}

func TestSessionParams_AddContextSync_PropagatesValidationError(t *testing.T) {
	policy := NewSyncPolicy()
	policy.RecyclePolicy = &RecyclePolicy{Paths: []string{"/a/*"}}

	p := NewCreateSessionParams()
	_, err := p.AddContextSync("ctx-1", "/mnt", &policy)
	assert.Error(t, err)
	assert.Empty(t, p.ContextSync)
}

func TestSessionParams_FluentBuilders(t *testing.T) {
	p := NewCreateSessionParams().
		WithImageId("img-1").
		WithPolicyId("policy-1").
		WithVPC(true).
		WithBrowserReplay(true)

	assert.Equal(t, "img-1", p.ImageID)
	assert.Equal(t, "policy-1", p.PolicyID)
	assert.True(t, p.IsVPC)
	assert.True(t, p.EnableBrowserReplay)
}
