package tools

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"drawmcp/util"
)

func RegisterToolManagerTool(s *server.MCPServer) {
	tool := mcp.NewTool("tool_manager",
		mcp.WithDescription("Manage MCP tools - enable or disable tools"),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to perform: list, enable, disable")),
		mcp.WithString("tool_name", mcp.Description("Tool name to enable/disable")),
	)

	s.AddTool(tool, util.ErrorGuard(toolManagerHandler))
}

var managedTools = []struct {
	name string
	desc string
}{
	{"tool_manager", "Tool management"},
	{"diagram", "Parse, generate, validate and save draw.io diagrams"},
	{"library", "Style template library"},
	{"architect", "Iterative diagram design agent"},
}

func toolManagerHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	action, ok := arguments["action"].(string)
	if !ok {
		return mcp.NewToolResultError("action must be a string"), nil
	}

	enableTools := os.Getenv("ENABLE_TOOLS")
	toolList := strings.Split(enableTools, ",")

	switch action {
	case "list":
		allEnabled := enableTools == ""
		response := "Available tools:\n"
		for _, t := range managedTools {
			status := "disabled"
			if allEnabled || slices.Contains(toolList, t.name) {
				status = "enabled"
			}
			response += fmt.Sprintf("- %s (%s) [%s]\n", t.name, t.desc, status)
		}
		response += "\nCurrently enabled tools:\n"
		if allEnabled {
			response += "All tools are enabled (ENABLE_TOOLS is empty)\n"
		} else {
			for _, tool := range toolList {
				if tool != "" {
					response += fmt.Sprintf("- %s\n", tool)
				}
			}
		}
		return mcp.NewToolResultText(response), nil

	case "enable", "disable":
		toolName, ok := arguments["tool_name"].(string)
		if !ok || toolName == "" {
			return mcp.NewToolResultError("tool_name is required for enable/disable actions"), nil
		}

		if enableTools == "" {
			toolList = []string{}
		}
		if action == "enable" {
			if !slices.Contains(toolList, toolName) {
				toolList = append(toolList, toolName)
			}
		} else {
			toolList = slices.DeleteFunc(toolList, func(s string) bool { return s == toolName })
		}

		os.Setenv("ENABLE_TOOLS", strings.Join(toolList, ","))
		return mcp.NewToolResultText(fmt.Sprintf("Successfully %sd tool: %s", action, toolName)), nil

	default:
		return mcp.NewToolResultError("Invalid action. Use 'list', 'enable', or 'disable'"), nil
	}
}
