package util

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Guarded handlers must be usable directly as server tool handlers.
var _ server.ToolHandlerFunc = ErrorGuard(nil)

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestErrorGuardPassesResultThrough(t *testing.T) {
	guarded := ErrorGuard(func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := guarded(nil)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "ok", textOf(t, result))
}

func TestErrorGuardConvertsError(t *testing.T) {
	guarded := ErrorGuard(func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		return nil, errors.New("backend unavailable")
	})

	result, err := guarded(nil)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "backend unavailable", textOf(t, result))
}

func TestErrorGuardRecoversPanic(t *testing.T) {
	guarded := ErrorGuard(func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		panic("boom")
	})

	result, err := guarded(nil)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "boom")
}
