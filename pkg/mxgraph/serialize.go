package mxgraph

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Default mxGraphModel layout attributes emitted for every generated
// document. These match the canvas settings draw.io writes for a fresh
// letter-sized page.
const modelAttrs = `dx="800" dy="600" grid="1" gridSize="10" guides="1" tooltips="1" connect="1" arrows="1" fold="1" page="1" pageScale="1" pageWidth="850" pageHeight="1100" math="0" shadow="0"`

// Marshal renders a Document back into mxfile XML. The two structural root
// cells are always emitted first; every other cell is parented to the layer
// cell. Cells without an id are assigned a generated one.
func Marshal(doc *Document) string {
	var b strings.Builder
	b.WriteString("<mxfile host=\"drawmcp\">\n")
	b.WriteString("  <diagram id=\"" + uuid.NewString() + "\" name=\"Page-1\">\n")
	b.WriteString("    <mxGraphModel " + modelAttrs + ">\n")
	b.WriteString("      <root>\n")
	b.WriteString("        <mxCell id=\"" + RootCellID + "\" />\n")
	b.WriteString("        <mxCell id=\"" + LayerCellID + "\" parent=\"" + RootCellID + "\" />\n")

	for _, n := range doc.Nodes {
		id := n.ID
		if id == "" {
			id = "node-" + uuid.NewString()
		}
		b.WriteString(fmt.Sprintf("        <mxCell id=\"%s\" value=\"%s\" style=\"%s\" vertex=\"1\" parent=\"%s\">\n",
			escape(id), escape(n.Value), escape(n.Style), LayerCellID))
		b.WriteString("          <mxGeometry")
		writeGeometry(&b, n.Geometry)
		b.WriteString(" as=\"geometry\" />\n")
		b.WriteString("        </mxCell>\n")
	}

	for _, e := range doc.Edges {
		id := e.ID
		if id == "" {
			id = "edge-" + uuid.NewString()
		}
		b.WriteString(fmt.Sprintf("        <mxCell id=\"%s\" value=\"%s\" style=\"%s\" edge=\"1\" parent=\"%s\" source=\"%s\" target=\"%s\">\n",
			escape(id), escape(e.Value), escape(e.Style), LayerCellID, escape(e.Source), escape(e.Target)))
		b.WriteString("          <mxGeometry relative=\"1\" as=\"geometry\" />\n")
		b.WriteString("        </mxCell>\n")
	}

	b.WriteString("      </root>\n")
	b.WriteString("    </mxGraphModel>\n")
	b.WriteString("  </diagram>\n")
	b.WriteString("</mxfile>\n")
	return b.String()
}

func writeGeometry(b *strings.Builder, g *Geometry) {
	if g == nil {
		return
	}
	if g.X != nil {
		fmt.Fprintf(b, " x=\"%g\"", *g.X)
	}
	if g.Y != nil {
		fmt.Fprintf(b, " y=\"%g\"", *g.Y)
	}
	if g.Width != nil {
		fmt.Fprintf(b, " width=\"%g\"", *g.Width)
	}
	if g.Height != nil {
		fmt.Fprintf(b, " height=\"%g\"", *g.Height)
	}
}

func escape(s string) string {
	var b strings.Builder
	// EscapeText only fails on writer errors, which strings.Builder never
	// produces.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// DumpNodes renders nodes as reference XML fragments for inclusion in a model
// instruction. The output is not a complete document, just the cells.
func DumpNodes(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		var geo string
		if g := n.Geometry; g != nil {
			var gb strings.Builder
			writeGeometry(&gb, g)
			geo = gb.String()
		}
		fmt.Fprintf(&b, "<mxCell id=\"%s\" value=\"%s\" style=\"%s\" vertex=\"1\"><mxGeometry%s /></mxCell>\n",
			escape(n.ID), escape(n.Value), escape(n.Style), geo)
	}
	return b.String()
}
