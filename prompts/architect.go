package prompts

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterArchitectPrompts(s *server.MCPServer) {
	tool := mcp.NewPrompt("design_architecture",
		mcp.WithPromptDescription("Design a system architecture diagram for a component"),
		mcp.WithArgument("system_name", mcp.ArgumentDescription("The name of the system to diagram")),
	)
	s.AddPrompt(tool, designArchitectureHandler)
}

func designArchitectureHandler(arguments map[string]string) (*mcp.GetPromptResult, error) {
	systemName := arguments["system_name"]

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Architecture diagram for %s", systemName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf("Use the design_diagram tool to draw the architecture of %s; look up component styles with search_templates first and save the result with save_diagram", systemName),
				},
			},
		},
	}, nil
}
