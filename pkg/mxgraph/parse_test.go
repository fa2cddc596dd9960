package mxgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoNodeDoc = `<mxfile host="app.diagrams.net">
  <diagram id="d1" name="Page-1">
    <mxGraphModel dx="800" dy="600" grid="1">
      <root>
        <mxCell id="0" />
        <mxCell id="1" parent="0" />
        <mxCell id="a" value="API" style="rounded=1;" vertex="1" parent="1">
          <mxGeometry x="40" y="80" width="120" height="60" as="geometry" />
        </mxCell>
        <mxCell id="b" value="DB" style="shape=cylinder3;" vertex="1" parent="1">
          <mxGeometry x="240" y="80" width="80" height="80" as="geometry" />
        </mxCell>
        <mxCell id="e1" style="edgeStyle=orthogonalEdgeStyle;" edge="1" parent="1" source="a" target="b">
          <mxGeometry relative="1" as="geometry" />
        </mxCell>
      </root>
    </mxGraphModel>
  </diagram>
</mxfile>`

func TestParseTwoNodesOneEdge(t *testing.T) {
	doc, err := Parse(twoNodeDoc)
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Edges, 1)

	assert.Equal(t, "a", doc.Nodes[0].ID)
	assert.Equal(t, "API", doc.Nodes[0].Value)
	assert.Equal(t, "rounded=1;", doc.Nodes[0].Style)
	assert.Equal(t, "b", doc.Nodes[1].ID)

	edge := doc.Edges[0]
	assert.Equal(t, "a", edge.Source)
	assert.Equal(t, "b", edge.Target)
}

func TestParseGeometry(t *testing.T) {
	doc, err := Parse(twoNodeDoc)
	require.NoError(t, err)

	geo := doc.Nodes[0].Geometry
	require.NotNil(t, geo)
	require.NotNil(t, geo.X)
	assert.Equal(t, 40.0, *geo.X)
	require.NotNil(t, geo.Width)
	assert.Equal(t, 120.0, *geo.Width)
}

func TestParseStructuralRootsNeverSurface(t *testing.T) {
	// Structural cells keep vertex/edge attributes here on purpose: the id
	// check must win over the discriminator.
	input := `<mxGraphModel><root>
		<mxCell id="0" vertex="1" />
		<mxCell id="1" edge="1" parent="0" />
		<mxCell id="n1" value="x" vertex="1" parent="1" />
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "n1", doc.Nodes[0].ID)
	assert.Empty(t, doc.Edges)
}

func TestParseUnclassifiedCellsDropped(t *testing.T) {
	input := `<mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="mystery" value="neither" parent="1" />
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Edges)
}

func TestParseMissingGeometryStaysAbsent(t *testing.T) {
	input := `<mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="n1" value="bare" vertex="1" parent="1" />
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.Nil(t, doc.Nodes[0].Geometry)
}

func TestParsePartialGeometry(t *testing.T) {
	input := `<mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="n1" vertex="1" parent="1">
			<mxGeometry width="100" as="geometry" />
		</mxCell>
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	geo := doc.Nodes[0].Geometry
	require.NotNil(t, geo)
	assert.Nil(t, geo.X)
	assert.Nil(t, geo.Y)
	assert.Nil(t, geo.Height)
	require.NotNil(t, geo.Width)
	assert.Equal(t, 100.0, *geo.Width)
}

func TestParseOnlyFirstGeometryRead(t *testing.T) {
	input := `<mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="n1" vertex="1" parent="1">
			<mxGeometry x="10" as="geometry" />
			<mxGeometry x="99" as="alternateBounds" />
		</mxCell>
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	require.NotNil(t, doc.Nodes[0].Geometry)
	require.NotNil(t, doc.Nodes[0].Geometry.X)
	assert.Equal(t, 10.0, *doc.Nodes[0].Geometry.X)
}

func TestParseDefaultValues(t *testing.T) {
	input := `<mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="n1" vertex="1" parent="1" />
		<mxCell id="e1" edge="1" parent="1" />
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "", doc.Nodes[0].Value)
	assert.Equal(t, "", doc.Edges[0].Value)
	assert.Equal(t, "", doc.Edges[0].Source)
	assert.Equal(t, "", doc.Edges[0].Target)
}

func TestParseInvalidInput(t *testing.T) {
	for name, input := range map[string]string{
		"not xml":        "this is not a diagram",
		"wrong root":     "<svg><rect/></svg>",
		"missing root":   "<mxfile><diagram><mxGraphModel/></diagram></mxfile>",
		"empty":          "",
		"model no cells": "<mxGraphModel></mxGraphModel>",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestParseBareGraphModelFallbackPath(t *testing.T) {
	input := `<mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="n1" value="v" vertex="1" parent="1" />
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
}

func TestParseDuplicateIDsCoexist(t *testing.T) {
	input := `<mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="n1" value="first" vertex="1" parent="1" />
		<mxCell id="n1" value="second" vertex="1" parent="1" />
	</root></mxGraphModel>`

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "first", doc.Nodes[0].Value)
	assert.Equal(t, "second", doc.Nodes[1].Value)
}
