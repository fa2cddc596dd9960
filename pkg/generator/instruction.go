package generator

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"drawmcp/pkg/mxgraph"
)

// Context dumps beyond this many tokens are truncated so the instruction
// never crowds out the user prompt.
const maxContextTokens = 2048

// StructuralRules describes the required document shape and the house style
// rules. It is shared between single-shot generation and the design agent's
// system prompt.
const StructuralRules = `Output requirements:
- Emit a complete <mxfile> document containing a <diagram> with an
  <mxGraphModel dx="800" dy="600" grid="1" gridSize="10" guides="1" tooltips="1" connect="1" arrows="1" fold="1" page="1" pageScale="1" pageWidth="850" pageHeight="1100" math="0" shadow="0"> wrapper.
- The <root> must start with the two structural cells <mxCell id="0"/> and
  <mxCell id="1" parent="0"/>; every other cell is parented to "1".
- Shapes are mxCell elements with vertex="1" and an mxGeometry child;
  connectors have edge="1" with source and target ids.

Design rules:
- Use simple rectangle shapes unless a specific style is requested.
- Position shapes so they do not overlap; leave padding between them.
- Prefer orthogonal edge routing.

Respond with the XML only.`

const baseInstruction = "You are a diagram architect producing draw.io XML.\n\n" + StructuralRules

// BuildInstruction assembles the model instruction: the fixed structural
// template plus, when context nodes are supplied, their serialized dump as a
// style and structure reference.
func BuildInstruction(contextNodes []mxgraph.Node) string {
	if len(contextNodes) == 0 {
		return baseInstruction
	}

	dump := truncateTokens(mxgraph.DumpNodes(contextNodes), maxContextTokens)
	var b strings.Builder
	b.WriteString(baseInstruction)
	b.WriteString("\n\nReuse the styles and sizing of these existing cells where they fit:\n")
	b.WriteString(dump)
	return b.String()
}

func truncateTokens(text string, limit int) string {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		// No encoder available, fall back to a rough byte bound.
		if len(text) > limit*4 {
			return text[:limit*4]
		}
		return text
	}

	tokens := encoding.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return encoding.Decode(tokens[:limit])
}
