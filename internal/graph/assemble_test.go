package graph

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/encoded/filegallery/internal/record"
)

func dataset() *record.Dataset {
	return &record.Dataset{ID: testDataset, Accession: "ENCSR000AAA", Type: []string{"Experiment", "Dataset"}}
}

func step(id string, types ...string) *record.StepVersion {
	return &record.StepVersion{
		ID:   id + "versions/1/",
		Step: &record.Step{ID: id, StepTypes: types, Pipelines: record.Links{"/pipelines/ENCPL001AAA/"}},
	}
}

// pipeline is reads R1 -> alignments B1 -> signal W1, all replicate 1.
func pipeline() []record.File {
	return []record.File{
		{ID: "/files/R1/", Accession: "R1", Title: "R1", FileType: "fastq", OutputType: "reads", Dataset: testDataset, BiologicalReplicates: []int{1}, Status: "released"},
		{ID: "/files/B1/", Accession: "B1", Title: "B1", FileType: "bam", OutputType: "alignments", Assembly: "GRCh38", Dataset: testDataset,
			BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/R1/"}, StepVersion: step("/analysis-steps/align/", "alignment"), Status: "released",
			QualityMetrics: []record.QualityMetric{
				{ID: "/qc/2/", Type: []string{"UnlistedQualityMetric"}, Status: "released"},
				{ID: "/qc/1/", Type: []string{"ChipAlignmentQualityMetric"}, Status: "released"},
				{ID: "/qc/3/", Type: []string{"ChipLibraryQualityMetric"}, Status: "in progress"},
			}},
		{ID: "/files/W1/", Accession: "W1", Title: "W1", FileType: "bigWig", OutputType: "signal", Assembly: "GRCh38", Dataset: testDataset,
			BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/B1/"}, StepVersion: step("/analysis-steps/signal/", "signal generation", "file format conversion"),
			Status: "in progress", PreferredDefault: true},
	}
}

func TestAssemble_Pipeline(t *testing.T) {
	g, err := Assemble(pipeline(), nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"rep:1", "file:/files/R1/", "file:/files/B1/", "file:/files/W1/",
		"step:/files/R1//analysis-steps/align/", "step:/files/B1//analysis-steps/signal/"} {
		if g.GetNode(id) == nil {
			t.Errorf("missing node %s", id)
		}
	}
	if n := len(g.Nodes()); n != 6 {
		t.Errorf("got %d nodes, want 6", n)
	}

	edges := [][2]string{
		{"step:/files/R1//analysis-steps/align/", "file:/files/B1/"},
		{"file:/files/R1/", "step:/files/R1//analysis-steps/align/"},
		{"step:/files/B1//analysis-steps/signal/", "file:/files/W1/"},
		{"file:/files/B1/", "step:/files/B1//analysis-steps/signal/"},
	}
	for _, e := range edges {
		if g.GetEdge(e[0], e[1]) == nil {
			t.Errorf("missing edge %s -> %s", e[0], e[1])
		}
	}
	if n := len(g.Edges()); n != len(edges) {
		t.Errorf("got %d edges, want %d", n, len(edges))
	}

	w1 := g.GetNode("file:/files/W1/")
	if w1.Label != "W1 (signal)  ⭐" {
		t.Errorf("W1 label = %q", w1.Label)
	}
	if w1.Parent != "rep:1" || w1.CSSClass != "pipeline-node-file" {
		t.Errorf("W1 node = %+v", w1)
	}
	signal := g.GetNode("step:/files/B1//analysis-steps/signal/")
	if signal.Label != "signal generation, file format conversion" || signal.Type != TypeStep || signal.CornerRadius != 4 {
		t.Errorf("signal step = %+v", signal)
	}
	if len(signal.Pipelines) != 1 || signal.FileID != "/files/W1/" {
		t.Errorf("signal step pipelines/file = %v %s", signal.Pipelines, signal.FileID)
	}
	if rep := g.GetNode("rep:1"); rep.Label != "Replicate 1" || rep.Type != TypeRep {
		t.Errorf("rep node = %+v", rep)
	}
}

func TestAssemble_QualityMetrics(t *testing.T) {
	g, err := Assemble(pipeline(), nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	metrics := g.GetNode("file:/files/B1/").Metrics
	if len(metrics) != 2 {
		t.Fatalf("metrics = %+v, want 2 released", metrics)
	}
	if metrics[0].Label != "AL" || metrics[1].Label != "QC" {
		t.Errorf("metric labels = %s, %s", metrics[0].Label, metrics[1].Label)
	}
	if metrics[0].ID != "qc:/qc/1//files/B1/" {
		t.Errorf("metric id = %s", metrics[0].ID)
	}

	g, err = Assemble(pipeline(), nil, dataset(), Options{SelectedAssembly: "GRCh38", LoggedIn: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(g.GetNode("file:/files/B1/").Metrics); n != 3 {
		t.Errorf("logged in metrics = %d, want 3", n)
	}
}

func TestAssemble_Classes(t *testing.T) {
	highlighted := []record.File{{ID: "/files/B1/"}}
	g, err := Assemble(pipeline(), highlighted, dataset(), Options{
		SelectedAssembly: "GRCh38",
		InfoNodeID:       "file:/files/W1/",
		Colorize:         true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if c := g.GetNode("file:/files/W1/").CSSClass; c != "pipeline-node-file active graph-node--in-progress" {
		t.Errorf("W1 class = %q", c)
	}
	if c := g.GetNode("file:/files/B1/").CSSClass; c != "pipeline-node-file highlight graph-node--released" {
		t.Errorf("B1 class = %q", c)
	}
	if e := g.GetEdge("step:/files/B1//analysis-steps/signal/", "file:/files/W1/"); e.CSSClass != "active" {
		t.Errorf("active edge class = %q", e.CSSClass)
	}
	if e := g.GetEdge("file:/files/B1/", "step:/files/B1//analysis-steps/signal/"); e.CSSClass != "" {
		t.Errorf("inactive edge class = %q", e.CSSClass)
	}
}

func TestAssemble_NoRelationships(t *testing.T) {
	files := []record.File{
		{ID: "/files/A/", Assembly: "GRCh38", Dataset: testDataset},
		{ID: "/files/B/", Assembly: "GRCh38", Dataset: testDataset},
	}
	_, err := Assemble(files, nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if !IsNoRelationships(err) {
		t.Fatalf("err = %v, want ErrNoRelationships", err)
	}

	// Nothing matches another assembly.
	_, err = Assemble(pipeline(), nil, dataset(), Options{SelectedAssembly: "mm10"})
	if !IsNoRelationships(err) {
		t.Fatalf("mm10 err = %v, want ErrNoRelationships", err)
	}
}

func TestAssemble_SoftwareUnknown(t *testing.T) {
	files := pipeline()
	files[1].StepVersion = nil
	g, err := Assemble(files, nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	n := g.GetNode("error:/files/R1/")
	if n == nil {
		t.Fatal("missing placeholder step")
	}
	if n.Label != "Software unknown" || !strings.HasSuffix(n.CSSClass, " error") {
		t.Errorf("placeholder = %+v", n)
	}
	if g.GetEdge("file:/files/R1/", "error:/files/R1/") == nil {
		t.Error("missing edge into placeholder step")
	}
}

func TestAssemble_MissingParent(t *testing.T) {
	files := pipeline()
	files[1].DerivedFrom = record.Links{"/files/R1/", "/files/ENCFF999ZZZ/"}
	g, err := Assemble(files, nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	n := g.GetNode("file:/files/ENCFF999ZZZ/")
	if n == nil || n.Label != "ENCFF999ZZZ (unknown)" || n.CSSClass != "pipeline-node-file error" {
		t.Fatalf("missing-file node = %+v", n)
	}
	stepID := "step:/files/ENCFF999ZZZ/,/files/R1//analysis-steps/align/"
	if g.GetEdge("file:/files/ENCFF999ZZZ/", stepID) == nil {
		t.Error("missing edge from unknown file")
	}
}

func TestAssemble_Cycle(t *testing.T) {
	files := []record.File{
		{ID: "/files/A/", Assembly: "GRCh38", Dataset: testDataset, DerivedFrom: record.Links{"/files/B/"}, StepVersion: step("/analysis-steps/x/", "x")},
		{ID: "/files/B/", Assembly: "GRCh38", Dataset: testDataset, DerivedFrom: record.Links{"/files/A/"}, StepVersion: step("/analysis-steps/x/", "x")},
	}
	_, err := Assemble(files, nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("err = %v, want cycle", err)
	}
}

// contributingFixture returns a peak file derived from n contributing files
// that live outside the dataset.
func contributingFixture(n int) ([]record.File, *record.Dataset) {
	ds := dataset()
	peaks := record.File{ID: "/files/P1/", Title: "P1", OutputType: "peaks", Assembly: "GRCh38", Dataset: testDataset,
		StepVersion: step("/analysis-steps/peaks/", "peak calling")}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("/files/C%d/", i)
		ds.ContributingFiles = append(ds.ContributingFiles, id)
		peaks.DerivedFrom = append(peaks.DerivedFrom, id)
	}
	return []record.File{peaks}, ds
}

func TestAssemble_ContributingBelowThreshold(t *testing.T) {
	files, ds := contributingFixture(MinimumCoalesceCount - 1)
	g, err := Assemble(files, nil, ds, Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < MinimumCoalesceCount-1; i++ {
		n := g.GetNode(fmt.Sprintf("file:/files/C%d/", i))
		if n == nil {
			t.Fatalf("missing contributing node C%d", i)
		}
		if n.Label != fmt.Sprintf("C%d", i) || !strings.HasPrefix(n.CSSClass, "pipeline-node-file contributing") {
			t.Errorf("contributing node = %+v", n)
		}
	}
	for _, n := range g.Nodes() {
		if n.Type == TypeCoalesced {
			t.Errorf("unexpected coalesced node %s", n.ID)
		}
	}
}

func TestAssemble_ContributingCoalesced(t *testing.T) {
	files, ds := contributingFixture(MinimumCoalesceCount)
	g, err := Assemble(files, nil, ds, Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	var coalesced []*Node
	for _, n := range g.Nodes() {
		if n.Type == TypeCoalesced {
			coalesced = append(coalesced, n)
		}
		if strings.HasPrefix(n.ID, "file:/files/C") {
			t.Errorf("coalesced file drawn individually: %s", n.ID)
		}
	}
	if len(coalesced) != 1 {
		t.Fatalf("coalesced nodes = %d, want 1", len(coalesced))
	}
	c := coalesced[0]
	if c.Label != "5 contributing files" || c.Shape != ShapeStack {
		t.Errorf("coalesced node = %+v", c)
	}
	if c.ID != "coalesced-contrib:"+groupHash([]string{"/files/P1/"}) {
		t.Errorf("coalesced id = %s", c.ID)
	}
	if g.GetEdge(c.ID, "step:"+strings.Join(files[0].DerivedFrom.Sorted(), ",")+"/analysis-steps/peaks/") == nil {
		t.Error("missing edge from coalesced node")
	}
}

// readsFixture returns n replicate-1 fastq files feeding one alignment.
func readsFixture(n int) []record.File {
	bam := record.File{ID: "/files/B1/", Title: "B1", OutputType: "alignments", Assembly: "GRCh38", Dataset: testDataset,
		BiologicalReplicates: []int{1}, StepVersion: step("/analysis-steps/align/", "alignment")}
	files := make([]record.File, 0, n+1)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("/files/R%03d/", i)
		files = append(files, record.File{ID: id, Title: id, FileType: "fastq", OutputType: "reads", Dataset: testDataset, BiologicalReplicates: []int{1}})
		bam.DerivedFrom = append(bam.DerivedFrom, id)
	}
	return append(files, bam)
}

func TestAssemble_ReadsThreshold(t *testing.T) {
	g, err := Assemble(readsFixture(MinimumReadsCoalesceCount), nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range g.Nodes() {
		if n.Type == TypeCoalesced {
			t.Fatalf("reads coalesced at threshold: %s", n.ID)
		}
	}
	if g.GetNode("file:/files/R000/") == nil {
		t.Error("reads file not drawn")
	}

	g, err = Assemble(readsFixture(MinimumReadsCoalesceCount+1), nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	var reads *Node
	for _, n := range g.Nodes() {
		if n.Type == TypeCoalesced {
			reads = n
		}
		if strings.HasPrefix(n.ID, "file:/files/R") {
			t.Errorf("coalesced reads drawn individually: %s", n.ID)
		}
	}
	if reads == nil {
		t.Fatal("no coalesced reads node")
	}
	if reads.Label != "101 reads" || reads.Parent != "rep:1" || reads.CSSClass != "pipeline-node-file reads" {
		t.Errorf("reads node = %+v", reads)
	}
	if err := g.Validate(); err != nil {
		t.Error(err)
	}
}

// readsGroupsFixture returns fastq files on replicates 1, 2, and 3 in the
// given counts, each replicate's reads feeding its own alignment.
func readsGroupsFixture(counts ...int) []record.File {
	var files []record.File
	for i, n := range counts {
		rep := i + 1
		bam := record.File{ID: fmt.Sprintf("/files/B%d/", rep), Title: fmt.Sprintf("B%d", rep), OutputType: "alignments",
			Assembly: "GRCh38", Dataset: testDataset, BiologicalReplicates: []int{rep}, StepVersion: step("/analysis-steps/align/", "alignment")}
		for j := 0; j < n; j++ {
			id := fmt.Sprintf("/files/R%d-%03d/", rep, j)
			files = append(files, record.File{ID: id, Title: id, FileType: "fastq", OutputType: "reads", Dataset: testDataset, BiologicalReplicates: []int{rep}})
			bam.DerivedFrom = append(bam.DerivedFrom, id)
		}
		files = append(files, bam)
	}
	return files
}

func TestAssemble_ReadsGroupThreshold(t *testing.T) {
	g, err := Assemble(readsGroupsFixture(MinimumCoalesceCount, MinimumCoalesceCount-1, 92), nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}

	byLabel := make(map[string]*Node)
	individual := 0
	for _, n := range g.Nodes() {
		if n.Type == TypeCoalesced {
			byLabel[n.Label] = n
		}
		if strings.HasPrefix(n.ID, "file:/files/R") {
			individual++
			if !strings.HasPrefix(n.ID, "file:/files/R2-") {
				t.Errorf("reads of a coalesced group drawn individually: %s", n.ID)
			}
		}
	}
	if len(byLabel) != 2 {
		t.Fatalf("coalesced nodes = %v, want 5 reads and 92 reads", byLabel)
	}
	tests := []struct {
		label  string
		parent string
	}{
		{"5 reads", "rep:1"},
		{"92 reads", "rep:3"},
	}
	for _, tt := range tests {
		n := byLabel[tt.label]
		if n == nil {
			t.Errorf("missing %q node", tt.label)
			continue
		}
		if n.Parent != tt.parent || !strings.HasPrefix(n.ID, "coalesced-reads:") {
			t.Errorf("%q node = %+v", tt.label, n)
		}
	}
	if individual != MinimumCoalesceCount-1 {
		t.Errorf("individual reads nodes = %d, want %d", individual, MinimumCoalesceCount-1)
	}
	if err := g.Validate(); err != nil {
		t.Error(err)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	a, err := Assemble(readsFixture(120), nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Assemble(readsFixture(120), nil, dataset(), Options{SelectedAssembly: "GRCh38"})
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Nodes()) != len(b.Nodes()) {
		t.Fatal("node counts differ")
	}
	for i := range a.Nodes() {
		if a.Nodes()[i].ID != b.Nodes()[i].ID {
			t.Errorf("node %d: %s != %s", i, a.Nodes()[i].ID, b.Nodes()[i].ID)
		}
	}
}
