package viz

import (
	"github.com/encoded/filegallery/internal/graph"
	"github.com/encoded/filegallery/internal/record"
)

// FromGraph converts a derivation graph to drawable nodes and edges.
// Quality metrics become their own nodes, linked from their file.
func FromGraph(g *graph.Graph) *GraphData {
	data := &GraphData{Title: g.ID, Nodes: []Node{}, Edges: []Edge{}}

	for _, n := range g.Nodes() {
		data.Nodes = append(data.Nodes, newNode(n))
		for _, m := range n.Metrics {
			data.Nodes = append(data.Nodes, Node{
				ID:      m.ID,
				Type:    NodeTypeQC,
				Label:   m.Label,
				Parent:  n.Parent,
				Shape:   "ellipse",
				Classes: m.CSSClass,
			})
			data.Edges = append(data.Edges, Edge{Source: n.ID, Target: m.ID, Classes: "qc"})
		}
	}

	for _, e := range g.Edges() {
		data.Edges = append(data.Edges, Edge{Source: e.From, Target: e.To, Classes: e.CSSClass})
	}
	return data
}

func newNode(n *graph.Node) Node {
	node := Node{
		ID:      n.ID,
		Label:   n.Label,
		Parent:  n.Parent,
		Shape:   shapeFor(n),
		Classes: n.CSSClass,
	}

	switch n.Type {
	case graph.TypeFile:
		node.Type = NodeTypeFile
		if f, ok := n.Ref.(*record.File); ok {
			node.Accession = f.Accession
			node.OutputType = f.OutputType
			node.FileFormat = f.FileFormat
			node.Assembly = f.Assembly
			node.Status = f.Status
		} else if n.Contributing != "" {
			node.Accession = record.AccessionFromID(n.Contributing)
		}
	case graph.TypeStep:
		node.Type = NodeTypeStep
		node.Pipelines = n.Pipelines
	case graph.TypeRep:
		node.Type = NodeTypeReplicate
	case graph.TypeCoalesced:
		node.Type = NodeTypeCoalesced
		if ids, ok := n.Ref.([]string); ok {
			node.Count = len(ids)
		}
	}
	return node
}

// shapeFor maps graph shapes to Cytoscape.js shapes.
func shapeFor(n *graph.Node) string {
	switch {
	case n.Type == graph.TypeRep:
		return "rectangle"
	case n.Shape == graph.ShapeStack:
		return "round-tag"
	case n.CornerRadius > 0:
		return "round-rectangle"
	default:
		return "rectangle"
	}
}
