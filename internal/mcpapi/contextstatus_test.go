package mcpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContextStatus_DecodesDataEnvelope(t *testing.T) {
	raw := `[{"type":"data","data":"[{\"contextId\":\"ctx1\",\"path\":\"/tmp/x\",\"status\":\"Success\",\"taskType\":\"upload\"}]"}]`

	items, err := ParseContextStatus(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ctx1", items[0].ContextId)
	assert.Equal(t, "Success", items[0].Status)
	assert.True(t, IsTerminal(items[0].Status))
}

func TestParseContextStatus_SkipsNonDataEnvelopes(t *testing.T) {
	raw := `[{"type":"heartbeat","data":""},{"type":"data","data":"[{\"contextId\":\"ctx2\",\"status\":\"InProgress\"}]"}]`

	items, err := ParseContextStatus(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ctx2", items[0].ContextId)
	assert.False(t, IsTerminal(items[0].Status))
}

func TestParseContextStatus_SkipsMalformedInnerJSONWithoutAborting(t *testing.T) {
	raw := `[{"type":"data","data":"not-json"},{"type":"data","data":"[{\"contextId\":\"ctx3\",\"status\":\"Failed\"}]"}]`

	items, err := ParseContextStatus(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ctx3", items[0].ContextId)
}

func TestParseContextStatus_EmptyArray(t *testing.T) {
	items, err := ParseContextStatus(`[]`)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseContextStatus_RejectsMalformedOuterJSON(t *testing.T) {
	_, err := ParseContextStatus(`not-json-at-all`)
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusSuccess))
	assert.True(t, IsTerminal(StatusFailed))
	assert.False(t, IsTerminal(StatusInProgress))
	assert.False(t, IsTerminal("SomethingElse"))
}
