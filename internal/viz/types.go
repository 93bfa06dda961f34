// Package viz renders derivation graphs as Cytoscape.js elements and as a
// self-contained HTML page.
package viz

// Node types.
const (
	NodeTypeFile      = "file"
	NodeTypeStep      = "step"
	NodeTypeReplicate = "replicate"
	NodeTypeCoalesced = "coalesced"
	NodeTypeQC        = "qc"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a drawable node. Parent names the enclosing replicate node.
type Node struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Parent string `json:"parent,omitempty"`
	Shape  string `json:"shape"`

	// Classes are the graph's CSS classes, space separated.
	Classes string `json:"-"`

	// File details (for tooltips)
	Accession  string `json:"accession,omitempty"`
	OutputType string `json:"outputType,omitempty"`
	FileFormat string `json:"fileFormat,omitempty"`
	Assembly   string `json:"assembly,omitempty"`
	Status     string `json:"status,omitempty"`

	// Step details
	Pipelines []string `json:"pipelines,omitempty"`

	// Coalesced nodes
	Count int `json:"count,omitempty"`
}

// Edge connects an input to its consumer.
type Edge struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Classes string `json:"-"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
