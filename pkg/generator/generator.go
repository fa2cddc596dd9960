// Package generator turns natural-language prompts into draw.io XML by
// delegating content synthesis to a hosted text model. The package owns the
// instruction construction, output normalization and the fallback policy:
// callers always receive syntactically valid diagram XML, never an error.
package generator

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"drawmcp/pkg/mxgraph"
)

// TextGenerator is the capability interface for the generative collaborator.
// Implementations wrap a concrete provider; see OpenAIGenerator and
// GeminiGenerator.
type TextGenerator interface {
	Generate(ctx context.Context, instruction, prompt string) (string, error)
}

var (
	generateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generator_requests_total",
			Help: "Diagram generation requests by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(generateTotal)
}

// FallbackDocument is returned whenever the collaborator fails. It is a fixed
// minimal architecture sketch: two generic components connected by a request
// and a response edge, valid per Parse.
const FallbackDocument = `<mxfile host="drawmcp">
  <diagram id="fallback" name="Page-1">
    <mxGraphModel dx="800" dy="600" grid="1" gridSize="10" guides="1" tooltips="1" connect="1" arrows="1" fold="1" page="1" pageScale="1" pageWidth="850" pageHeight="1100" math="0" shadow="0">
      <root>
        <mxCell id="0" />
        <mxCell id="1" parent="0" />
        <mxCell id="comp-a" value="Component A" style="rounded=0;whiteSpace=wrap;html=1;" vertex="1" parent="1">
          <mxGeometry x="80" y="120" width="120" height="60" as="geometry" />
        </mxCell>
        <mxCell id="comp-b" value="Component B" style="rounded=0;whiteSpace=wrap;html=1;" vertex="1" parent="1">
          <mxGeometry x="320" y="120" width="120" height="60" as="geometry" />
        </mxCell>
        <mxCell id="link-ab" value="request" style="edgeStyle=orthogonalEdgeStyle;rounded=0;" edge="1" parent="1" source="comp-a" target="comp-b">
          <mxGeometry relative="1" as="geometry" />
        </mxCell>
        <mxCell id="link-ba" value="response" style="edgeStyle=orthogonalEdgeStyle;rounded=0;" edge="1" parent="1" source="comp-b" target="comp-a">
          <mxGeometry relative="1" as="geometry" />
        </mxCell>
      </root>
    </mxGraphModel>
  </diagram>
</mxfile>`

// Generator produces diagram XML from prompts.
type Generator struct {
	model  TextGenerator
	logger *logrus.Logger
}

// New builds a Generator over the given collaborator.
func New(model TextGenerator, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Generator{model: model, logger: logger}
}

// Generate renders diagram XML for the prompt. contextNodes, when present,
// are dumped into the instruction as a style and structure reference. The
// call never fails: any collaborator error is logged, counted and downgraded
// to FallbackDocument.
func (g *Generator) Generate(ctx context.Context, prompt string, contextNodes []mxgraph.Node) string {
	instruction := BuildInstruction(contextNodes)

	out, err := g.model.Generate(ctx, instruction, prompt)
	if err != nil {
		g.logger.WithError(err).Warn("diagram generation failed, serving fallback document")
		generateTotal.WithLabelValues("fallback").Inc()
		return FallbackDocument
	}

	generateTotal.WithLabelValues("success").Inc()
	return mxgraph.StripFence(out)
}
