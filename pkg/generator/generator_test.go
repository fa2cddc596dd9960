package generator

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawmcp/pkg/mxgraph"
)

type stubModel struct {
	out string
	err error
}

func (s *stubModel) Generate(_ context.Context, _, _ string) (string, error) {
	return s.out, s.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestGenerateFallbackOnFailure(t *testing.T) {
	g := New(&stubModel{err: errors.New("model unavailable")}, quietLogger())

	out := g.Generate(context.Background(), "draw anything", nil)
	assert.Equal(t, FallbackDocument, out)
	assert.NotContains(t, out, "```")

	doc, err := mxgraph.Parse(out)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Edges, 2)
}

func TestGenerateStripsCodeFence(t *testing.T) {
	g := New(&stubModel{out: "```xml\n<mxfile><diagram><mxGraphModel><root/></mxGraphModel></diagram></mxfile>\n```"}, quietLogger())

	out := g.Generate(context.Background(), "draw", nil)
	assert.False(t, strings.Contains(out, "```"))
	assert.True(t, strings.HasPrefix(out, "<mxfile>"))
}

func TestBuildInstructionWithoutContext(t *testing.T) {
	instruction := BuildInstruction(nil)
	assert.Contains(t, instruction, `<mxCell id="0"/>`)
	assert.Contains(t, instruction, "mxGraphModel")
	assert.NotContains(t, instruction, "existing cells")
}

func TestBuildInstructionWithContextNodes(t *testing.T) {
	w := 80.0
	nodes := []mxgraph.Node{
		{ID: "pod-1", Value: "K8s Pod", Style: "shape=pod;", Geometry: &mxgraph.Geometry{Width: &w}},
	}

	instruction := BuildInstruction(nodes)
	assert.Contains(t, instruction, "existing cells")
	assert.Contains(t, instruction, "K8s Pod")
	assert.Contains(t, instruction, "shape=pod;")
}

func TestTruncateTokens(t *testing.T) {
	long := strings.Repeat("component diagram node edge ", 4096)
	out := truncateTokens(long, 64)
	assert.Less(t, len(out), len(long))
}

func TestFallbackRoundTrip(t *testing.T) {
	// The fallback must satisfy the parser's own acceptance rules.
	doc, err := mxgraph.Parse(FallbackDocument)
	require.NoError(t, err)
	assert.Equal(t, "comp-a", doc.Edges[0].Source)
	assert.Equal(t, "comp-b", doc.Edges[0].Target)
}
