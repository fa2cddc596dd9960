package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"drawmcp/pkg/library"
	"drawmcp/pkg/mxgraph"
	"drawmcp/util"
)

var defaultLibrary = sync.OnceValues(func() (*library.Library, error) {
	path := os.Getenv("LIBRARY_PATH")
	if path == "" {
		path = "library.json"
	}
	return library.Open(path)
})

func RegisterLibraryTools(s *server.MCPServer) {
	searchTool := mcp.NewTool("search_templates",
		mcp.WithDescription("Search the style library for a diagram component template (e.g. 'k8s pod', 'database'). Returns the style string and default geometry. Call this before inventing styles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Component name to look up")),
	)

	listTool := mcp.NewTool("list_library",
		mcp.WithDescription("List all saved styles and components in the library. Use this to see what building blocks are already available."),
	)

	extractTool := mcp.NewTool("extract_and_save_pattern",
		mcp.WithDescription("Analyze an existing .drawio file and save its style/geometry patterns to the library. Pass 'all' to harvest every labeled shape, or a specific name to extract one pattern."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the .drawio file to learn from")),
		mcp.WithString("pattern_name", mcp.Description("Pattern name to extract, or 'all' (default)")),
	)

	s.AddTool(searchTool, util.ErrorGuard(searchTemplatesHandler))
	s.AddTool(listTool, util.ErrorGuard(listLibraryHandler))
	s.AddTool(extractTool, util.ErrorGuard(extractPatternHandler))
}

func searchTemplatesHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	query, ok := arguments["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query must be a non-empty string"), nil
	}

	lib, err := defaultLibrary()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open library: %s", err)), nil
	}

	tpl, key, found := lib.Search(query)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("no template found for %q", query)), nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"name":   key,
		"style":  tpl.Style,
		"width":  tpl.Width,
		"height": tpl.Height,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func listLibraryHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	lib, err := defaultLibrary()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open library: %s", err)), nil
	}

	entries := lib.List()
	if len(entries) == 0 {
		return mcp.NewToolResultText("The library is currently empty. Use extract_and_save_pattern to add patterns."), nil
	}

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func extractPatternHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	filePath, ok := arguments["file_path"].(string)
	if !ok || filePath == "" {
		return mcp.NewToolResultError("file_path must be a non-empty string"), nil
	}
	patternName, _ := arguments["pattern_name"].(string)
	if patternName == "" {
		patternName = "all"
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read file: %s", err)), nil
	}

	doc, err := mxgraph.Parse(string(content))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse diagram: %s", err)), nil
	}

	lib, err := defaultLibrary()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open library: %s", err)), nil
	}

	added := lib.Extract(doc, patternName)
	if len(added) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No suitable cells found in %s for pattern %q.", filePath, patternName)), nil
	}

	if err := lib.Save(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to persist library: %s", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully extracted %d patterns: %s",
		len(added), strings.Join(added, ", "))), nil
}
