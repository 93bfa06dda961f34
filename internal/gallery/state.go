// Package gallery holds the file gallery's interactive state. State is a
// value; Reduce applies one event and returns the next state. Views are
// pure projections of a state.
package gallery

import (
	"encoding/json"
	"strings"

	"github.com/encoded/filegallery/internal/analysis"
	"github.com/encoded/filegallery/internal/facet"
	"github.com/encoded/filegallery/internal/portal"
	"github.com/encoded/filegallery/internal/record"
)

// Tab is one of the gallery's views.
type Tab string

const (
	TabTables  Tab = "tables"
	TabBrowser Tab = "browser"
	TabGraph   Tab = "graph"
)

// ParseTab returns the tab with the given name.
func ParseTab(s string) (Tab, bool) {
	switch t := Tab(strings.ToLower(s)); t {
	case TabTables, TabBrowser, TabGraph:
		return t, true
	}
	return "", false
}

// Part flags which pieces of data a DataLoaded event carries.
type Part uint8

const (
	PartDataset Part = 1 << iota
	PartFiles
	PartRelated
	PartAudits
	PartProfiles
)

// Data is everything fetched for one dataset. Pieces arrive independently.
type Data struct {
	Dataset      *record.Dataset
	Files        []record.File
	RelatedFiles []record.File
	Audits       map[string]map[string][]portal.Audit
	Profiles     map[string]json.RawMessage
	Loaded       Part
}

// Has reports whether all of parts have arrived.
func (d *Data) Has(parts Part) bool {
	return d != nil && d.Loaded&parts == parts
}

// Capabilities are the viewer's permissions.
type Capabilities struct {
	LoggedIn bool `json:"logged_in"`
	Admin    bool `json:"admin"`
}

// State is one snapshot of the gallery. Slices and maps reachable from a
// State are never modified after the state is returned; Reduce replaces
// them instead.
type State struct {
	Tab          Tab          `json:"tab"`
	Capabilities Capabilities `json:"capabilities"`
	// Inclusion shows archived, revoked, deleted and replaced files.
	Inclusion bool `json:"inclusion"`
	Colorize  bool `json:"colorize"`

	Filters          facet.Filters          `json:"filters"`
	Analyses         []analysis.Compiled    `json:"analyses"`
	SelectedAnalysis int                    `json:"selected_analysis"`
	PipelineLab      string                 `json:"pipeline_lab,omitempty"`
	Browser          string                 `json:"browser,omitempty"`
	InfoNodeID       string                 `json:"info_node,omitempty"`
	Assemblies       []facet.AssemblyOption `json:"assemblies"`

	// AllFiles is every loaded file surviving the inclusion filter.
	AllFiles []record.File `json:"-"`
	// FilteredFiles is the selected analysis' files (or AllFiles without
	// analyses) passing every facet filter but the assembly.
	FilteredFiles []record.File `json:"-"`
	// Highlighted holds the files matching the facet filters when more
	// than the assembly is selected.
	Highlighted []record.File `json:"-"`

	Data *Data `json:"-"`
}

// NewState returns the state before any data arrives. Admins see
// inclusion-status files by default.
func NewState(caps Capabilities) State {
	return State{
		Capabilities: caps,
		Inclusion:    caps.Admin,
		Filters:      facet.Filters{},
		Data:         &Data{},
	}
}

// Dataset returns the loaded dataset, or nil.
func (s State) Dataset() *record.Dataset {
	if s.Data == nil {
		return nil
	}
	return s.Data.Dataset
}

// SelectedAssembly splits the assembly filter into assembly and genome
// annotation. Both are empty when all assemblies are selected.
func (s State) SelectedAssembly() (assembly, annotation string) {
	value := s.Filters.Assembly()
	if value == "" || value == facet.AllAssemblies {
		return "", ""
	}
	assembly, annotation, _ = strings.Cut(value, " ")
	return assembly, annotation
}

// Selected returns the selected compiled analysis, or nil.
func (s State) Selected() *analysis.Compiled {
	if s.SelectedAnalysis < 0 || s.SelectedAnalysis >= len(s.Analyses) {
		return nil
	}
	return &s.Analyses[s.SelectedAnalysis]
}

// Browsers returns the genome browsers available for the selected assembly.
func (s State) Browsers() []string {
	ds := s.Dataset()
	assembly, _ := s.SelectedAssembly()
	if ds == nil || assembly == "" {
		return nil
	}
	return ds.Visualize[assembly]
}

// AuditsFor returns the audits of an analysis by @id, keyed by level name.
func (s State) AuditsFor(analysisID string) map[string][]portal.Audit {
	if s.Data == nil {
		return nil
	}
	return s.Data.Audits[analysisID]
}

// initialTab is the browser when any file can be visualized, the graph when
// any file came out of an analysis step, and the tables otherwise.
func initialTab(files []record.File) Tab {
	if len(record.Visualizable(files)) > 0 {
		return TabBrowser
	}
	for i := range files {
		if files[i].Step() != nil {
			return TabGraph
		}
	}
	return TabTables
}

// loadedFiles returns the searched and related files, subject to the
// inclusion filter.
func loadedFiles(d *Data, inclusion bool) []record.File {
	if d == nil {
		return nil
	}
	files := make([]record.File, 0, len(d.Files)+len(d.RelatedFiles))
	files = append(files, d.Files...)
	files = append(files, d.RelatedFiles...)
	files = record.Dedupe(files)
	if !inclusion {
		files = record.WithoutInclusionStatuses(files)
	}
	return files
}
