// Package mxgraph models draw.io (mxGraph) diagram documents and converts
// between their XML wire form and an in-memory node/edge representation.
package mxgraph

// Geometry holds the position and size of a vertex cell. Fields are pointers
// so that attributes absent from the source document stay absent instead of
// collapsing to zero.
type Geometry struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Node is a shape cell (vertex="1") in a diagram.
type Node struct {
	ID       string    `json:"id"`
	Value    string    `json:"value"`
	Style    string    `json:"style,omitempty"`
	Geometry *Geometry `json:"geometry,omitempty"`
}

// Edge is a connector cell (edge="1") referencing source and target node ids.
// References are not validated against the node set; dangling ids pass
// through untouched.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	Style  string `json:"style,omitempty"`
	Value  string `json:"value"`
}

// Document is the parsed form of one diagram: nodes and edges in encounter
// order. Instances are built fresh per Parse call and never mutated
// afterwards.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Structural root cell ids present in every valid document. They are plumbing
// of the mxGraph format and never surface as nodes or edges.
const (
	RootCellID  = "0"
	LayerCellID = "1"
)
