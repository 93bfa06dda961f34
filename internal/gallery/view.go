package gallery

import (
	"errors"

	"github.com/encoded/filegallery/internal/analysis"
	"github.com/encoded/filegallery/internal/classify"
	"github.com/encoded/filegallery/internal/facet"
	"github.com/encoded/filegallery/internal/graph"
	"github.com/encoded/filegallery/internal/logging"
	"github.com/encoded/filegallery/internal/record"
)

// ErrNoDataset is returned by views of a state without a dataset.
var ErrNoDataset = errors.New("no dataset loaded")

// GraphNotApplicable is the message shown instead of an empty graph.
const GraphNotApplicable = "Graph not applicable for the selected assembly/annotation."

// Tables is the tables tab.
type Tables struct {
	RawSequencing   *classify.RawSequencing  `json:"raw_sequencing"`
	RawArray        *classify.RawArrayGroups `json:"raw_array"`
	Reference       []record.File            `json:"reference,omitempty"`
	CloningMappings []record.File            `json:"cloning_mappings,omitempty"`
	Processed       []classify.Table         `json:"processed"`
	Counts          map[string]int           `json:"counts"`
	Downloadable    int                      `json:"downloadable"`
}

// TableView classifies the loaded files passing the facet filters.
func TableView(s State) (*Tables, error) {
	ds := s.Dataset()
	if ds == nil {
		return nil, ErrNoDataset
	}
	files := facet.Apply(s.AllFiles, s.Filters)
	res := classify.New(ds, ds.Analyses, cloningMappings(ds)).Classify(files)

	return &Tables{
		RawSequencing:   classify.LayoutRawSequencing(res.Get(classify.BucketRaw), res.Get(classify.BucketIndex)),
		RawArray:        classify.GroupRawArray(res.Get(classify.BucketRawArray)),
		Reference:       res.Get(classify.BucketReference),
		CloningMappings: res.Get(classify.BucketCloningMappings),
		Processed:       classify.ProcessedTables(res, ds, ds.Analyses),
		Counts:          res.Counts(),
		Downloadable:    len(classify.FilterDownloadable(ds, res.Files)),
	}, nil
}

// cloningMappings collects the cloning and mappings datasets of the
// dataset's related datasets.
func cloningMappings(ds *record.Dataset) []classify.CloningMapping {
	var out []classify.CloningMapping
	for _, ed := range ds.ElementsDatasets() {
		out = append(out, classify.CloningMapping{Dataset: ed.ID, Files: ed.Files})
	}
	return out
}

// GraphResult is the graph tab. Graph is nil when NotApplicable is set.
type GraphResult struct {
	Graph         *graph.Graph `json:"graph,omitempty"`
	NotApplicable bool         `json:"not_applicable,omitempty"`
	Message       string       `json:"message,omitempty"`
	Assembly      string       `json:"assembly"`
	Annotation    string       `json:"annotation,omitempty"`
	FileCount     int          `json:"file_count"`
}

// GraphView assembles the derivation graph for the selected assembly and
// analysis. A selection without file relationships is not an error: the
// result says the graph is not applicable.
func GraphView(s State) (*GraphResult, error) {
	ds := s.Dataset()
	if ds == nil {
		return nil, ErrNoDataset
	}
	assembly, annotation := s.SelectedAssembly()
	files, err := graphFiles(s, assembly, annotation)
	if err != nil {
		return nil, err
	}

	result := &GraphResult{Assembly: assembly, Annotation: annotation, FileCount: len(files)}
	g, err := graph.Assemble(files, s.Highlighted, ds, graph.Options{
		InfoNodeID:         s.InfoNodeID,
		SelectedAssembly:   assembly,
		SelectedAnnotation: annotation,
		Colorize:           s.Colorize,
		LoggedIn:           s.Capabilities.LoggedIn,
		NonSeriesFiles:     s.AllFiles,
		IsSeries:           ds.IsSeries(),
	})
	if graph.IsNoRelationships(err) {
		logging.Warn("graph not applicable", "dataset", ds.Accession, "assembly", assembly, "annotation", annotation)
		result.NotApplicable = true
		result.Message = GraphNotApplicable
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Graph = g
	return result, nil
}

// graphFiles returns the files the graph draws. With an analysis selected
// these are its files, the files they derive from, and the raw data.
func graphFiles(s State, assembly, annotation string) ([]record.File, error) {
	ds := s.Dataset()
	base := s.AllFiles
	if ds.IsSeries() {
		base = analysis.SeriesFiles(ds)
		if !s.Inclusion {
			base = record.WithoutInclusionStatuses(base)
		}
	}

	selected := s.Selected()
	if selected == nil || assembly == "" {
		return base, nil
	}

	lookup := record.IndexByID(s.AllFiles)
	seen := make(map[string]bool)
	var out []record.File
	add := func(f *record.File) {
		if !seen[f.ID] {
			seen[f.ID] = true
			out = append(out, *f)
		}
	}

	for i := range base {
		if !selected.HasFile(base[i].ID) {
			continue
		}
		add(&base[i])
		chain, err := graph.CollectDerivedFroms(&base[i], ds.ID, assembly, annotation, lookup)
		if err != nil {
			return nil, err
		}
		for _, id := range chain.Keys() {
			if f := lookup[id]; f != nil {
				add(f)
			}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	for i := range base {
		if base[i].IsRawData() {
			add(&base[i])
		}
	}
	return out, nil
}

// Browser is what the genome browser is handed.
type Browser struct {
	Files      []record.File `json:"files"`
	Assembly   string        `json:"assembly"`
	Annotation string        `json:"annotation,omitempty"`
	Browser    string        `json:"browser,omitempty"`
	Browsers   []string      `json:"browsers,omitempty"`
}

// BrowserView returns the visualizable files of the selection for the
// selected assembly.
func BrowserView(s State) *Browser {
	assembly, annotation := s.SelectedAssembly()
	files := record.Visualizable(s.FilteredFiles)
	if value := s.Filters.Assembly(); value != "" {
		files = facet.FilterItems(files, facet.KeyAssembly, []string{value})
	}
	return &Browser{
		Files:      files,
		Assembly:   assembly,
		Annotation: annotation,
		Browser:    s.Browser,
		Browsers:   s.Browsers(),
	}
}
