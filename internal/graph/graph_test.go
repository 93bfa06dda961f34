package graph

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGraph_AddNodeDedupes(t *testing.T) {
	g := New("g")
	if !g.AddNode(&Node{ID: "a", Label: "first"}) {
		t.Fatal("first AddNode returned false")
	}
	if g.AddNode(&Node{ID: "a", Label: "second"}) {
		t.Fatal("duplicate AddNode returned true")
	}
	if len(g.Nodes()) != 1 || g.GetNode("a").Label != "first" {
		t.Errorf("nodes = %+v", g.Nodes())
	}
}

func TestGraph_AddEdgeDedupes(t *testing.T) {
	g := New("g")
	g.AddNode(&Node{ID: "a"})
	g.AddNode(&Node{ID: "b"})
	g.AddEdge("a", "b", "")
	if g.AddEdge("a", "b", "active") {
		t.Fatal("duplicate AddEdge returned true")
	}
	if !g.AddEdge("b", "a", "") {
		t.Fatal("reverse edge should be distinct")
	}
	if len(g.Edges()) != 2 {
		t.Errorf("edges = %d, want 2", len(g.Edges()))
	}
	if g.GetEdge("a", "b") == nil || g.GetEdge("a", "c") != nil {
		t.Error("GetEdge lookup wrong")
	}
}

func TestGraph_Validate(t *testing.T) {
	g := New("g")
	g.AddNode(&Node{ID: "a"})
	g.AddEdge("a", "missing", "")
	err := g.Validate()
	if err == nil || !strings.Contains(err.Error(), "unknown target") {
		t.Fatalf("Validate() = %v", err)
	}

	g = New("g")
	g.AddNode(&Node{ID: "b"})
	g.AddEdge("missing", "b", "")
	if err := g.Validate(); err == nil || !strings.Contains(err.Error(), "unknown source") {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestGraph_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(New("empty"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"id":"empty","nodes":[],"edges":[]}` {
		t.Errorf("json = %s", data)
	}

	g := New("g")
	g.AddNode(&Node{ID: "a", Type: TypeFile, Shape: ShapeRect})
	g.AddNode(&Node{ID: "b", Type: TypeStep, Shape: ShapeRect})
	g.AddEdge("a", "b", "active")
	data, err = json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Nodes) != 2 || decoded.Nodes[0]["type"] != "File" {
		t.Errorf("nodes = %v", decoded.Nodes)
	}
	if len(decoded.Edges) != 1 || decoded.Edges[0]["source"] != "a" || decoded.Edges[0]["target"] != "b" {
		t.Errorf("edges = %v", decoded.Edges)
	}
}
