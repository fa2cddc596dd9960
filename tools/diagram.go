package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"drawmcp/pkg/generator"
	"drawmcp/pkg/mxgraph"
	"drawmcp/services"
	"drawmcp/util"
)

var defaultGenerator = sync.OnceValues(func() (*generator.Generator, error) {
	model, err := services.NewTextGenerator(context.Background(), services.TextGeneratorConfigFromEnv())
	if err != nil {
		return nil, err
	}
	return generator.New(model, nil), nil
})

func RegisterDiagramTools(s *server.MCPServer) {
	parseTool := mcp.NewTool("parse_diagram",
		mcp.WithDescription("Parse draw.io XML into its node and edge list. Returns a JSON document with every shape (id, label, style, geometry) and connector (id, source, target)."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The draw.io XML document to parse")),
	)

	generateTool := mcp.NewTool("generate_diagram",
		mcp.WithDescription("Generate a new draw.io XML diagram from a text description. Optionally pass existing diagram XML whose shapes serve as a style and structure reference."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the diagram to generate")),
		mcp.WithString("context_xml", mcp.Description("Existing draw.io XML whose nodes are used as a style reference")),
	)

	validateTool := mcp.NewTool("validate_xml",
		mcp.WithDescription("Check that a draw.io XML document has the required mxfile and mxGraphModel wrapper structure. Returns a validity flag and message."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The XML content to validate")),
	)

	saveTool := mcp.NewTool("save_diagram",
		mcp.WithDescription("Save diagram XML to a file in the generated directory. A .drawio extension is added when missing."),
		mcp.WithString("xml_content", mcp.Required(), mcp.Description("The XML content to save")),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Target file name")),
	)

	s.AddTool(parseTool, util.ErrorGuard(parseDiagramHandler))
	s.AddTool(generateTool, util.ErrorGuard(generateDiagramHandler))
	s.AddTool(validateTool, util.ErrorGuard(validateXMLHandler))
	s.AddTool(saveTool, util.ErrorGuard(saveDiagramHandler))
}

func parseDiagramHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	input, ok := arguments["xml"].(string)
	if !ok {
		return mcp.NewToolResultError("xml must be a string"), nil
	}

	doc, err := mxgraph.Parse(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse diagram: %s", err)), nil
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func generateDiagramHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	prompt, ok := arguments["prompt"].(string)
	if !ok || prompt == "" {
		return mcp.NewToolResultError("prompt must be a non-empty string"), nil
	}

	var contextNodes []mxgraph.Node
	if contextXML, ok := arguments["context_xml"].(string); ok && contextXML != "" {
		doc, err := mxgraph.Parse(contextXML)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse context_xml: %s", err)), nil
		}
		contextNodes = doc.Nodes
	}

	gen, err := defaultGenerator()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generator not configured: %s", err)), nil
	}

	return mcp.NewToolResultText(gen.Generate(context.Background(), prompt, contextNodes)), nil
}

func validateXMLHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	input, ok := arguments["xml"].(string)
	if !ok {
		return mcp.NewToolResultError("xml must be a string"), nil
	}

	payload, err := json.Marshal(mxgraph.Validate(input))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func saveDiagramHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	content, ok := arguments["xml_content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultError("xml_content must be a non-empty string"), nil
	}
	filename, ok := arguments["filename"].(string)
	if !ok || filename == "" {
		return mcp.NewToolResultError("filename must be a non-empty string"), nil
	}

	if !strings.HasSuffix(filename, ".drawio") {
		filename += ".drawio"
	}

	dir := os.Getenv("GENERATED_DIR")
	if dir == "" {
		dir = "generated"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create output directory: %s", err)), nil
	}

	outputPath := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save file: %s", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("File saved successfully at: %s", outputPath)), nil
}
