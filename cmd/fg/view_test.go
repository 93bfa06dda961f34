package main

import (
	"strings"
	"testing"

	"github.com/encoded/filegallery/internal/config"
	"github.com/encoded/filegallery/internal/facet"
	"github.com/encoded/filegallery/internal/gallery"
	"github.com/encoded/filegallery/internal/record"
	"github.com/encoded/filegallery/internal/storage"
)

const testDatasetID = "/experiments/ENCSR000CLI/"

func testSnapshot() *storage.Snapshot {
	step := &record.StepVersion{ID: "/sv/align/", Step: &record.Step{ID: "/analysis-steps/align/", StepTypes: []string{"alignment"}}}
	signal := &record.StepVersion{ID: "/sv/signal/", Step: &record.Step{ID: "/analysis-steps/signal/", StepTypes: []string{"signal generation"}}}
	files := []record.File{
		{ID: "/files/R1/", Accession: "R1", FileType: "fastq", OutputType: "reads", OutputCategory: "raw data",
			Dataset: testDatasetID, BiologicalReplicates: []int{1}, Status: "released"},
		{ID: "/files/B1/", Accession: "B1", FileType: "bam", FileFormat: "bam", OutputType: "alignments", Assembly: "GRCh38",
			Dataset: testDatasetID, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/R1/"}, StepVersion: step, Status: "released"},
		{ID: "/files/B2/", Accession: "B2", FileType: "bam", FileFormat: "bam", OutputType: "alignments", Assembly: "mm10",
			Dataset: testDatasetID, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/R1/"}, StepVersion: step, Status: "released"},
		{ID: "/files/W1/", Accession: "W1", FileType: "bigWig", FileFormat: "bigWig", OutputType: "signal", Assembly: "GRCh38",
			Dataset: testDatasetID, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/B1/"}, StepVersion: signal, Status: "released"},
		{ID: "/files/X1/", Accession: "X1", FileType: "bigWig", FileFormat: "bigWig", OutputType: "signal", Assembly: "GRCh38",
			Dataset: testDatasetID, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/B1/"}, StepVersion: signal, Status: "archived"},
	}
	return &storage.Snapshot{
		Dataset: &record.Dataset{
			ID:        testDatasetID,
			Accession: "ENCSR000CLI",
			Type:      []string{"Experiment", "Dataset"},
			Status:    "released",
			Analyses: []record.Analysis{
				{ID: "/analyses/ENCAN001AAA/", Accession: "ENCAN001AAA", Title: "GRCh38 processing", Status: "released",
					Assembly: "GRCh38", Files: record.Links{"/files/B1/", "/files/W1/", "/files/X1/"}},
				{ID: "/analyses/ENCAN002AAA/", Accession: "ENCAN002AAA", Title: "mm10 processing", Status: "released",
					Assembly: "mm10", Files: record.Links{"/files/B2/"}},
			},
			Visualize: record.Visualize{"GRCh38": {"UCSC", "Ensembl"}},
		},
		Files: files,
	}
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := config.Init(root); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return root
}

func writeTestSnapshot(t *testing.T, root, accession string) {
	t.Helper()
	snap := testSnapshot()
	snap.Dataset.Accession = accession
	if err := storage.WriteSnapshot(config.SnapshotPath(root, accession), snap); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
}

func TestResolveSnapshot(t *testing.T) {
	root := setupWorkspace(t)

	if _, _, err := resolveSnapshot(root, ""); err == nil || !strings.Contains(err.Error(), "no datasets fetched") {
		t.Errorf("empty workspace: error = %v, want no datasets fetched", err)
	}

	writeTestSnapshot(t, root, "ENCSR000CLI")
	acc, path, err := resolveSnapshot(root, "")
	if err != nil {
		t.Fatalf("resolveSnapshot() error = %v", err)
	}
	if acc != "ENCSR000CLI" || path != config.SnapshotPath(root, "ENCSR000CLI") {
		t.Errorf("resolveSnapshot() = %q, %q", acc, path)
	}

	acc, _, err = resolveSnapshot(root, testDatasetID)
	if err != nil || acc != "ENCSR000CLI" {
		t.Errorf("resolveSnapshot(@id) = %q, %v", acc, err)
	}

	if _, _, err := resolveSnapshot(root, "ENCSR999ZZZ"); err == nil || !strings.Contains(err.Error(), "fg fetch ENCSR999ZZZ") {
		t.Errorf("unknown dataset: error = %v", err)
	}

	writeTestSnapshot(t, root, "ENCSR000TWO")
	if _, _, err := resolveSnapshot(root, ""); err == nil || !strings.Contains(err.Error(), "pass --dataset") {
		t.Errorf("two snapshots: error = %v, want pass --dataset", err)
	}
}

func TestBuildState(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.Config
		tab          gallery.Tab
		opts         viewOptions
		wantTab      gallery.Tab
		wantAssembly string
		wantAnalysis string
		wantBrowser  string
	}{
		{
			name:         "initial tab from the files",
			wantTab:      gallery.TabBrowser,
			wantAssembly: "GRCh38",
			wantAnalysis: "ENCAN001AAA",
			wantBrowser:  "UCSC",
		},
		{
			name:         "tables show all assemblies",
			tab:          gallery.TabTables,
			wantTab:      gallery.TabTables,
			wantAssembly: facet.AllAssemblies,
		},
		{
			name:         "tab flag",
			opts:         viewOptions{tab: "graph"},
			wantTab:      gallery.TabGraph,
			wantAssembly: "GRCh38",
			wantAnalysis: "ENCAN001AAA",
			wantBrowser:  "UCSC",
		},
		{
			name:         "assembly moves the analysis",
			tab:          gallery.TabGraph,
			opts:         viewOptions{assembly: "mm10"},
			wantTab:      gallery.TabGraph,
			wantAssembly: "mm10",
			wantAnalysis: "ENCAN002AAA",
		},
		{
			name:         "analysis moves the assembly",
			tab:          gallery.TabGraph,
			opts:         viewOptions{analysis: "ENCAN002AAA"},
			wantTab:      gallery.TabGraph,
			wantAssembly: "mm10",
			wantAnalysis: "ENCAN002AAA",
		},
		{
			name:         "configured default assembly",
			cfg:          config.Config{DefaultAssembly: "mm10"},
			tab:          gallery.TabGraph,
			wantTab:      gallery.TabGraph,
			wantAssembly: "mm10",
			wantAnalysis: "ENCAN002AAA",
		},
		{
			name:         "configured browser",
			cfg:          config.Config{Browser: "Ensembl"},
			wantTab:      gallery.TabBrowser,
			wantAssembly: "GRCh38",
			wantAnalysis: "ENCAN001AAA",
			wantBrowser:  "Ensembl",
		},
		{
			name:         "configured browser not offered",
			cfg:          config.Config{Browser: "IGV"},
			wantTab:      gallery.TabBrowser,
			wantAssembly: "GRCh38",
			wantAnalysis: "ENCAN001AAA",
			wantBrowser:  "UCSC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			s, err := buildState(testSnapshot(), nil, gallery.Capabilities{}, &cfg, tt.tab, tt.opts)
			if err != nil {
				t.Fatalf("buildState() error = %v", err)
			}
			if s.Tab != tt.wantTab {
				t.Errorf("Tab = %q, want %q", s.Tab, tt.wantTab)
			}
			if got := s.Filters.Assembly(); got != tt.wantAssembly {
				t.Errorf("assembly = %q, want %q", got, tt.wantAssembly)
			}
			if tt.wantAnalysis != "" {
				sel := s.Selected()
				if sel == nil || sel.Accession != tt.wantAnalysis {
					t.Errorf("selected analysis = %+v, want %s", sel, tt.wantAnalysis)
				}
			}
			if s.Browser != tt.wantBrowser {
				t.Errorf("Browser = %q, want %q", s.Browser, tt.wantBrowser)
			}
		})
	}
}

func TestBuildState_Inclusion(t *testing.T) {
	has := func(s gallery.State, acc string) bool {
		for _, f := range s.AllFiles {
			if f.Accession == acc {
				return true
			}
		}
		return false
	}

	s, err := buildState(testSnapshot(), nil, gallery.Capabilities{}, &config.Config{}, gallery.TabTables, viewOptions{})
	if err != nil {
		t.Fatalf("buildState() error = %v", err)
	}
	if has(s, "X1") {
		t.Error("archived file shown without inclusion")
	}

	s, err = buildState(testSnapshot(), nil, gallery.Capabilities{}, &config.Config{}, gallery.TabTables, viewOptions{inclusion: true})
	if err != nil {
		t.Fatalf("buildState() error = %v", err)
	}
	if !has(s, "X1") {
		t.Error("archived file hidden with inclusion")
	}
}

func TestBuildState_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    viewOptions
		wantErr string
	}{
		{"invalid tab", viewOptions{tab: "sidebar"}, "invalid tab"},
		{"unknown assembly", viewOptions{assembly: "hg19"}, "not in dataset"},
		{"unknown analysis", viewOptions{analysis: "ENCAN999ZZZ"}, "not found"},
		{"filter without value", viewOptions{filters: []string{"file_type"}}, "invalid filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildState(testSnapshot(), nil, gallery.Capabilities{}, &config.Config{}, "", tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("buildState() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSelectAnalysis(t *testing.T) {
	s, err := buildState(testSnapshot(), nil, gallery.Capabilities{}, &config.Config{}, gallery.TabGraph, viewOptions{})
	if err != nil {
		t.Fatalf("buildState() error = %v", err)
	}

	tests := []struct {
		value  string
		wantOK bool
		want   string
	}{
		{"ENCAN002AAA", true, "ENCAN002AAA"},
		{"/analyses/ENCAN001AAA/", true, "ENCAN001AAA"},
		{"1", true, ""},
		{"7", false, ""},
		{"ENCAN999ZZZ", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			idx, ok := selectAnalysis(s, tt.value)
			if ok != tt.wantOK {
				t.Fatalf("selectAnalysis(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && tt.want != "" && s.Analyses[idx].Accession != tt.want {
				t.Errorf("selectAnalysis(%q) = %s, want %s", tt.value, s.Analyses[idx].Accession, tt.want)
			}
		})
	}
}

func TestEnsureIndexed(t *testing.T) {
	root := setupWorkspace(t)
	writeTestSnapshot(t, root, "ENCSR000CLI")
	path := config.SnapshotPath(root, "ENCSR000CLI")

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	defer db.Close()

	if err := ensureIndexed(db, "ENCSR000CLI", path); err != nil {
		t.Fatalf("ensureIndexed() error = %v", err)
	}
	stale, err := db.IsStale("ENCSR000CLI", path)
	if err != nil || stale {
		t.Errorf("IsStale() = %v, %v after ensureIndexed", stale, err)
	}
	files, err := db.QueryFiles("ENCSR000CLI", storage.FileFilter{FileType: "bam"})
	if err != nil {
		t.Fatalf("QueryFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("QueryFiles(bam) = %d files, want 2", len(files))
	}
}
