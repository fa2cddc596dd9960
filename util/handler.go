package util

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler func(arguments map[string]interface{}) (*mcp.CallToolResult, error)

// ErrorGuard converts handler errors and panics into tool error results so a
// misbehaving tool never takes the server down and the calling model always
// receives a structured failure. It returns the bare function type so the
// wrapped handler is assignable to server.ToolHandlerFunc.
func ErrorGuard(handler ToolHandler) func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return func(arguments map[string]interface{}) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("tool handler panicked")
				result = mcp.NewToolResultError(fmt.Sprintf("tool panicked: %v", r))
				err = nil
			}
		}()

		result, err = handler(arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return result, nil
	}
}
