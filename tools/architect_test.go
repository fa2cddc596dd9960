package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawmcp/pkg/library"
)

func catalogLibrary(t *testing.T) *library.Library {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.json")
	contents := `{"k8s pod": {"style": "shape=pod;", "width": 80, "height": 40}}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	lib, err := library.Open(path)
	require.NoError(t, err)
	return lib
}

func TestArchitectCatalogSearchTemplates(t *testing.T) {
	catalog := architectCatalog(catalogLibrary(t))
	require.Len(t, catalog, 2)

	search := catalog[0]
	require.Equal(t, "search_templates", search.Name)

	result := search.Handler(context.Background(), map[string]any{"query": "pod"})
	assert.Equal(t, "k8s pod", result["name"])
	assert.Equal(t, "shape=pod;", result["style"])
	assert.NotContains(t, result, "error")

	result = search.Handler(context.Background(), map[string]any{"query": "gibberish"})
	assert.Contains(t, result, "error")
}

func TestArchitectCatalogValidateXML(t *testing.T) {
	catalog := architectCatalog(catalogLibrary(t))
	validate := catalog[1]
	require.Equal(t, "validate_xml", validate.Name)

	result := validate.Handler(context.Background(), map[string]any{
		"xml": `<mxfile><diagram><mxGraphModel><root/></mxGraphModel></diagram></mxfile>`,
	})
	assert.Equal(t, true, result["valid"])

	result = validate.Handler(context.Background(), map[string]any{"xml": "<svg/>"})
	assert.Equal(t, false, result["valid"])

	result = validate.Handler(context.Background(), map[string]any{})
	assert.Contains(t, result, "error")
}
