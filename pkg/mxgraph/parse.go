package mxgraph

import (
	"encoding/xml"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrInvalidFormat is returned when the input cannot be interpreted as a
// diagram document: either the XML does not deserialize at all or no known
// cell path resolves.
var ErrInvalidFormat = errors.New("invalid document format")

var (
	parseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mxgraph_parse_total",
			Help: "Total number of diagram parse attempts",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(parseTotal)
}

// element is a generic labeled tree node: name, attribute mapping and ordered
// children. Attribute order in the source is irrelevant but child order is
// preserved by encoding/xml.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child with the given element name.
func (e *element) child(name string) *element {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			return &e.Children[i]
		}
	}
	return nil
}

func (e *element) children(name string) []*element {
	var out []*element
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			out = append(out, &e.Children[i])
		}
	}
	return out
}

// Parse converts serialized draw.io XML into a Document. It fails with
// ErrInvalidFormat when the input is not XML or no mxCell list is reachable
// through either of the known document shapes:
//
//	mxfile > diagram > mxGraphModel > root > mxCell*
//	mxGraphModel > root > mxCell*
func Parse(input string) (*Document, error) {
	var root element
	if err := xml.Unmarshal([]byte(input), &root); err != nil {
		parseTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}

	cells, err := resolveCells(&root)
	if err != nil {
		parseTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	doc := &Document{}
	for _, cell := range cells {
		if len(cell.Attrs) == 0 {
			continue
		}
		id, _ := cell.attr("id")
		if id == RootCellID || id == LayerCellID {
			continue
		}

		if v, ok := cell.attr("edge"); ok && v == "1" {
			doc.Edges = append(doc.Edges, parseEdge(cell, id))
			continue
		}
		if v, ok := cell.attr("vertex"); ok && v == "1" {
			doc.Nodes = append(doc.Nodes, parseNode(cell, id))
		}
		// Cells that are neither vertex nor edge are dropped.
	}

	parseTotal.WithLabelValues("success").Inc()
	return doc, nil
}

// resolveCells locates the mxCell list, trying the full mxfile wrapper first
// and falling back to a bare mxGraphModel document.
func resolveCells(root *element) ([]*element, error) {
	if root.XMLName.Local == "mxfile" {
		if diagram := root.child("diagram"); diagram != nil {
			if model := diagram.child("mxGraphModel"); model != nil {
				if r := model.child("root"); r != nil {
					return r.children("mxCell"), nil
				}
			}
		}
	}
	if root.XMLName.Local == "mxGraphModel" {
		if r := root.child("root"); r != nil {
			return r.children("mxCell"), nil
		}
	}
	return nil, ErrInvalidFormat
}

func parseEdge(cell *element, id string) Edge {
	source, _ := cell.attr("source")
	target, _ := cell.attr("target")
	style, _ := cell.attr("style")
	value, _ := cell.attr("value")
	return Edge{ID: id, Source: source, Target: target, Style: style, Value: value}
}

func parseNode(cell *element, id string) Node {
	value, _ := cell.attr("value")
	style, _ := cell.attr("style")
	node := Node{ID: id, Value: value, Style: style}
	if geo := cell.child("mxGeometry"); geo != nil {
		node.Geometry = parseGeometry(geo)
	}
	return node
}

func parseGeometry(geo *element) *Geometry {
	g := &Geometry{}
	g.X = floatAttr(geo, "x")
	g.Y = floatAttr(geo, "y")
	g.Width = floatAttr(geo, "width")
	g.Height = floatAttr(geo, "height")
	return g
}

func floatAttr(e *element, name string) *float64 {
	raw, ok := e.attr(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
