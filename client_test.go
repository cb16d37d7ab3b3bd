package agentbay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyun/agentbay-sdk-go/internal/config"
)

func TestNewAgentBay_BuildsClientFromExplicitKey(t *testing.T) {
	ab, err := NewAgentBay("explicit-key", WithConfigOptions(config.WithEnv(func(string) (string, bool) { return "", false })))
	require.NoError(t, err)
	require.NotNil(t, ab.Context)
	assert.NotNil(t, ab.wire)
	assert.Equal(t, 0, ab.sessionCount())
}

func TestNew_FailsWithoutAPIKey(t *testing.T) {
	_, err := New(WithConfigOptions(
		config.WithEnv(func(string) (string, bool) { return "", false }),
		config.WithEnvFile("/nonexistent/agentbay-test.env"),
	))
	assert.Error(t, err)
}

func TestAgentBay_RegisterAndUnregisterSession(t *testing.T) {
	ab, err := NewAgentBay("k", WithConfigOptions(config.WithEnv(func(string) (string, bool) { return "", false })))
	require.NoError(t, err)

	s := ab.newSession("sess-1", NewCreateSessionParams(), "", "")
	ab.registerSession(s)
	assert.Equal(t, 1, ab.sessionCount())

	ab.unregisterSession("sess-1")
	assert.Equal(t, 0, ab.sessionCount())
}
