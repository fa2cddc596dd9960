package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"drawmcp/pkg/agent"
	"drawmcp/pkg/generator"
	"drawmcp/pkg/library"
	"drawmcp/pkg/mxgraph"
	"drawmcp/services"
	"drawmcp/util"
)

const architectPrompt = `You are a principal diagram architect producing draw.io XML for system architectures.

Workflow:
1. Use search_templates to look up component styles before drawing. Do not guess styles that the library may already have.
2. Build the diagram XML using the library styles and the structural rules below.
3. Use validate_xml on your draft before answering.
4. Respond with the final XML only.

` + generator.StructuralRules

// designTimeout bounds one whole agent session, model rounds and tool calls
// included.
const designTimeout = 2 * time.Minute

func RegisterArchitectTool(s *server.MCPServer) {
	tool := mcp.NewTool("design_diagram",
		mcp.WithDescription("Design a draw.io diagram through an iterative agent session: the model looks up styles in the template library and validates its own XML before answering. Slower but higher quality than generate_diagram."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the architecture to design")),
	)

	s.AddTool(tool, util.ErrorGuard(designDiagramHandler))
}

// architectCatalog exposes the style lookup and the structural validator to
// the agent session. Tool failures come back as error-carrying results so the
// model can route around them.
func architectCatalog(lib *library.Library) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "search_templates",
			Description: "Search the style library for a component template. Returns style string plus default width and height.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"Component name to look up"}},"required":["query"]}`),
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				query, _ := args["query"].(string)
				if query == "" {
					return agent.ErrorResult("query must be a non-empty string")
				}
				tpl, key, found := lib.Search(query)
				if !found {
					return agent.ErrorResult("no template found for %q", query)
				}
				return map[string]any{
					"name":   key,
					"style":  tpl.Style,
					"width":  tpl.Width,
					"height": tpl.Height,
				}
			},
		},
		{
			Name:        "validate_xml",
			Description: "Check that a draw.io document has the required mxfile and mxGraphModel wrappers.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"xml":{"type":"string","description":"The XML content to validate"}},"required":["xml"]}`),
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				input, _ := args["xml"].(string)
				if input == "" {
					return agent.ErrorResult("xml must be a non-empty string")
				}
				res := mxgraph.Validate(input)
				return map[string]any{"valid": res.Valid, "message": res.Message}
			},
		},
	}
}

func designDiagramHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	prompt, ok := arguments["prompt"].(string)
	if !ok || prompt == "" {
		return mcp.NewToolResultError("prompt must be a non-empty string"), nil
	}

	lib, err := defaultLibrary()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open library: %s", err)), nil
	}

	cfg := services.OpenAIConfigFromEnv()
	session := agent.NewSession(services.DefaultOpenAIClient(), cfg.ModelOrDefault(), architectCatalog(lib),
		agent.WithSystemPrompt(architectPrompt),
		agent.WithMaxRounds(maxRoundsFromEnv()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), designTimeout)
	defer cancel()

	final, err := session.Run(ctx, prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("design session failed: %s", err)), nil
	}
	return mcp.NewToolResultText(mxgraph.StripFence(final)), nil
}

func maxRoundsFromEnv() int {
	if raw := os.Getenv("AGENT_MAX_ROUNDS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 0 // let the session default apply
}
