package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/encoded/filegallery/internal/graph"
	"github.com/encoded/filegallery/internal/record"
)

func testGraph() *graph.Graph {
	bam := &record.File{ID: "/files/B1/", Accession: "B1", OutputType: "alignments", FileFormat: "bam", Assembly: "GRCh38", Status: "released"}

	g := graph.New("ENCSR000AAA")
	g.AddNode(&graph.Node{ID: "rep:1", Label: "Replicate 1", Type: graph.TypeRep, Shape: graph.ShapeRect})
	g.AddNode(&graph.Node{ID: "coalesced-reads:abc", Label: "5 reads", Type: graph.TypeCoalesced, Shape: graph.ShapeStack,
		CornerRadius: 16, CSSClass: "pipeline-node-file reads", Parent: "rep:1", Ref: []string{"a", "b", "c", "d", "e"}})
	g.AddNode(&graph.Node{ID: "step:x/align/", Label: "alignment", Type: graph.TypeStep, Shape: graph.ShapeRect,
		CornerRadius: 4, CSSClass: "pipeline-node-analysis-step", Parent: "rep:1", Pipelines: []string{"/pipelines/P1/"}})
	g.AddNode(&graph.Node{ID: "file:/files/B1/", Label: "B1 (alignments)", Type: graph.TypeFile, Shape: graph.ShapeRect,
		CornerRadius: 16, CSSClass: "pipeline-node-file highlight", Parent: "rep:1", Ref: bam,
		Metrics: []graph.MetricNode{{ID: "qc:/qc/1//files/B1/", Label: "AL", CSSClass: "pipeline-node-qc-metric", FileID: "/files/B1/"}}})
	g.AddNode(&graph.Node{ID: "file:/files/C1/", Label: "C1", Type: graph.TypeFile, Shape: graph.ShapeRect,
		CornerRadius: 16, CSSClass: "pipeline-node-file contributing", Contributing: "/files/C1/"})
	g.AddEdge("coalesced-reads:abc", "step:x/align/", "")
	g.AddEdge("file:/files/C1/", "step:x/align/", "")
	g.AddEdge("step:x/align/", "file:/files/B1/", "active")
	return g
}

func TestFromGraph(t *testing.T) {
	data := FromGraph(testGraph())

	if data.Title != "ENCSR000AAA" {
		t.Errorf("Title = %q", data.Title)
	}
	if len(data.Nodes) != 6 {
		t.Fatalf("got %d nodes, want 6 (5 graph nodes and 1 metric)", len(data.Nodes))
	}
	if len(data.Edges) != 4 {
		t.Fatalf("got %d edges, want 4 (3 graph edges and 1 metric link)", len(data.Edges))
	}

	byID := make(map[string]Node)
	for _, n := range data.Nodes {
		byID[n.ID] = n
	}

	tests := []struct {
		id    string
		typ   string
		shape string
	}{
		{"rep:1", NodeTypeReplicate, "rectangle"},
		{"coalesced-reads:abc", NodeTypeCoalesced, "round-tag"},
		{"step:x/align/", NodeTypeStep, "round-rectangle"},
		{"file:/files/B1/", NodeTypeFile, "round-rectangle"},
		{"qc:/qc/1//files/B1/", NodeTypeQC, "ellipse"},
	}
	for _, tt := range tests {
		n, ok := byID[tt.id]
		if !ok {
			t.Errorf("missing node %s", tt.id)
			continue
		}
		if n.Type != tt.typ || n.Shape != tt.shape {
			t.Errorf("%s: type %s shape %s, want %s %s", tt.id, n.Type, n.Shape, tt.typ, tt.shape)
		}
	}

	bam := byID["file:/files/B1/"]
	if bam.Accession != "B1" || bam.Assembly != "GRCh38" || bam.Status != "released" || bam.Classes != "pipeline-node-file highlight" {
		t.Errorf("file node = %+v", bam)
	}
	if qc := byID["qc:/qc/1//files/B1/"]; qc.Parent != "rep:1" {
		t.Errorf("metric parent = %q, want rep:1", qc.Parent)
	}
	if c := byID["coalesced-reads:abc"]; c.Count != 5 {
		t.Errorf("coalesced count = %d", c.Count)
	}
	if c := byID["file:/files/C1/"]; c.Accession != "C1" {
		t.Errorf("contributing accession = %q", c.Accession)
	}
	if s := byID["step:x/align/"]; len(s.Pipelines) != 1 {
		t.Errorf("step pipelines = %v", s.Pipelines)
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	out, err := FromGraph(testGraph()).ToCytoscapeJSON()
	if err != nil {
		t.Fatal(err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(elements.Nodes) != 6 || len(elements.Edges) != 4 {
		t.Fatalf("got %d nodes, %d edges", len(elements.Nodes), len(elements.Edges))
	}

	seen := make(map[string]bool)
	for _, e := range elements.Edges {
		if seen[e.Data.ID] {
			t.Errorf("duplicate edge id %s", e.Data.ID)
		}
		seen[e.Data.ID] = true
	}
	if !strings.Contains(out, `"classes":"qc"`) || !strings.Contains(out, `"classes":"active"`) {
		t.Errorf("edge classes missing from %s", out)
	}
	if !strings.Contains(out, `"parent":"rep:1"`) {
		t.Error("compound parent missing")
	}
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(FromGraph(testGraph()), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "cytoscape", "breadthfirst", "ENCSR000AAA file graph", "B1 (alignments)"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerateHTML_Layouts(t *testing.T) {
	tests := []struct {
		layout  string
		want    string
		wantErr bool
	}{
		{"", "breadthfirst", false},
		{"dag", "breadthfirst", false},
		{"force", "cose", false},
		{"grid", "grid", false},
		{"circle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			html, err := GenerateHTML(FromGraph(testGraph()), HTMLOptions{Layout: tt.layout})
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateHTML() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !strings.Contains(html, `const layout = "`+tt.want+`"`) {
				t.Errorf("layout %q not rendered as %q", tt.layout, tt.want)
			}
		})
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("nil graph should fail")
	}

	html, err := GenerateHTML(&GraphData{Title: "ENCSR000AAA"}, HTMLOptions{Message: "Graph not applicable <here>"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Graph not applicable &lt;here&gt;") {
		t.Errorf("empty page does not show the escaped message:\n%s", html)
	}
	if strings.Contains(html, "cytoscape(") {
		t.Error("empty page should not load the graph")
	}
}
