// Package graph builds the file derivation graph of a dataset: files, the
// analysis steps connecting them, their quality metrics, and coalesced
// groups of contributing and reads files.
package graph

import (
	"encoding/json"
	"fmt"
)

// NodeType distinguishes graph nodes.
type NodeType string

const (
	TypeFile      NodeType = "File"
	TypeStep      NodeType = "Step"
	TypeRep       NodeType = "Rep"
	TypeCoalesced NodeType = "Coalesced"
)

// Node shapes.
const (
	ShapeRect  = "rect"
	ShapeStack = "stack"
)

// Node is a vertex of the graph.
type Node struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	Type         NodeType     `json:"type"`
	Shape        string       `json:"shape"`
	CornerRadius int          `json:"cornerRadius"`
	CSSClass     string       `json:"cssClass"`
	Parent       string       `json:"parent,omitempty"`
	Ref          any          `json:"ref,omitempty"`
	Metrics      []MetricNode `json:"metrics,omitempty"`
	Contributing string       `json:"contributing,omitempty"`
	Pipelines    []string     `json:"pipelines,omitempty"`
	StepVersion  any          `json:"stepVersion,omitempty"`
	FileID       string       `json:"fileId,omitempty"`
}

// MetricNode is a quality metric drawn attached to its file node.
type MetricNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	CSSClass string `json:"cssClass"`
	Ref      any    `json:"ref,omitempty"`
	FileID   string `json:"fileId"`
}

// Edge is a directed connection from an input to its consumer.
type Edge struct {
	From     string `json:"source"`
	To       string `json:"target"`
	CSSClass string `json:"cssClass,omitempty"`
}

type edgeKey struct {
	from, to string
}

// Graph holds nodes and edges in insertion order. Node ids are unique and
// there is at most one edge per ordered pair of nodes.
type Graph struct {
	ID string

	nodes     []*Node
	nodeIndex map[string]*Node
	edges     []*Edge
	edgeIndex map[edgeKey]*Edge
}

// New creates an empty graph.
func New(id string) *Graph {
	return &Graph{
		ID:        id,
		nodeIndex: make(map[string]*Node),
		edgeIndex: make(map[edgeKey]*Edge),
	}
}

// AddNode adds n unless a node with the same id exists. It reports whether
// the node was added.
func (g *Graph) AddNode(n *Node) bool {
	if _, ok := g.nodeIndex[n.ID]; ok {
		return false
	}
	g.nodes = append(g.nodes, n)
	g.nodeIndex[n.ID] = n
	return true
}

// AddEdge adds an edge unless one already connects from to to. It reports
// whether the edge was added.
func (g *Graph) AddEdge(from, to, cssClass string) bool {
	key := edgeKey{from, to}
	if _, ok := g.edgeIndex[key]; ok {
		return false
	}
	e := &Edge{From: from, To: to, CSSClass: cssClass}
	g.edges = append(g.edges, e)
	g.edgeIndex[key] = e
	return true
}

// GetNode returns the node with the given id, or nil.
func (g *Graph) GetNode(id string) *Node {
	return g.nodeIndex[id]
}

// GetEdge returns the edge from one node to another, or nil.
func (g *Graph) GetEdge(from, to string) *Edge {
	return g.edgeIndex[edgeKey{from, to}]
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// Validate checks that every edge connects existing nodes.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if g.nodeIndex[e.From] == nil {
			return fmt.Errorf("edge %s -> %s: unknown source node", e.From, e.To)
		}
		if g.nodeIndex[e.To] == nil {
			return fmt.Errorf("edge %s -> %s: unknown target node", e.From, e.To)
		}
	}
	return nil
}

// MarshalJSON encodes the graph as {"id", "nodes", "edges"}.
func (g *Graph) MarshalJSON() ([]byte, error) {
	nodes := g.nodes
	if nodes == nil {
		nodes = []*Node{}
	}
	edges := g.edges
	if edges == nil {
		edges = []*Edge{}
	}
	return json.Marshal(struct {
		ID    string  `json:"id"`
		Nodes []*Node `json:"nodes"`
		Edges []*Edge `json:"edges"`
	}{g.ID, nodes, edges})
}
