package mxgraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestMarshalRoundTrip(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			{ID: "web", Value: "Web Server", Style: "rounded=1;", Geometry: &Geometry{X: f(40), Y: f(40), Width: f(120), Height: f(60)}},
			{ID: "db", Value: "Database", Style: "shape=cylinder3;", Geometry: &Geometry{X: f(240), Y: f(40), Width: f(80), Height: f(80)}},
		},
		Edges: []Edge{
			{ID: "e1", Source: "web", Target: "db", Style: "edgeStyle=orthogonalEdgeStyle;"},
		},
	}

	out := Marshal(doc)
	parsed, err := Parse(out)
	require.NoError(t, err)

	require.Len(t, parsed.Nodes, 2)
	require.Len(t, parsed.Edges, 1)
	assert.Equal(t, doc.Nodes[0].ID, parsed.Nodes[0].ID)
	assert.Equal(t, doc.Nodes[0].Value, parsed.Nodes[0].Value)
	assert.Equal(t, *doc.Nodes[0].Geometry.Width, *parsed.Nodes[0].Geometry.Width)
	assert.Equal(t, doc.Edges[0].Source, parsed.Edges[0].Source)
	assert.Equal(t, doc.Edges[0].Target, parsed.Edges[0].Target)
}

func TestMarshalEscapesValues(t *testing.T) {
	doc := &Document{Nodes: []Node{{ID: "n1", Value: `Cache <"hot" & cold>`}}}

	out := Marshal(doc)
	parsed, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, parsed.Nodes, 1)
	assert.Equal(t, `Cache <"hot" & cold>`, parsed.Nodes[0].Value)
}

func TestMarshalAssignsMissingIDs(t *testing.T) {
	doc := &Document{
		Nodes: []Node{{Value: "anonymous"}},
		Edges: []Edge{{Source: "a", Target: "b"}},
	}

	parsed, err := Parse(Marshal(doc))
	require.NoError(t, err)
	require.Len(t, parsed.Nodes, 1)
	require.Len(t, parsed.Edges, 1)
	assert.True(t, strings.HasPrefix(parsed.Nodes[0].ID, "node-"))
	assert.True(t, strings.HasPrefix(parsed.Edges[0].ID, "edge-"))
}

func TestMarshalEmitsStructuralRoots(t *testing.T) {
	out := Marshal(&Document{})
	assert.Contains(t, out, `<mxCell id="0" />`)
	assert.Contains(t, out, `<mxCell id="1" parent="0" />`)
}

func TestDumpNodes(t *testing.T) {
	dump := DumpNodes([]Node{
		{ID: "n1", Value: "Pod", Style: "fillColor=#dae8fc;", Geometry: &Geometry{Width: f(80), Height: f(40)}},
	})
	assert.Contains(t, dump, `id="n1"`)
	assert.Contains(t, dump, `value="Pod"`)
	assert.Contains(t, dump, `width="80"`)
}
