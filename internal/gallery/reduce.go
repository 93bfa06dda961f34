package gallery

import (
	"encoding/json"

	"github.com/encoded/filegallery/internal/analysis"
	"github.com/encoded/filegallery/internal/facet"
	"github.com/encoded/filegallery/internal/portal"
	"github.com/encoded/filegallery/internal/record"
)

// Event is an input to Reduce.
type Event interface {
	event()
}

// DataLoaded delivers the pieces of fetched data flagged in Parts.
type DataLoaded struct {
	Parts        Part
	Dataset      *record.Dataset
	Files        []record.File
	RelatedFiles []record.File
	Audits       map[string]map[string][]portal.Audit
	Profiles     map[string]json.RawMessage
}

// TabSelected switches the visible tab.
type TabSelected struct{ Tab Tab }

// AssemblySelected selects an "assembly[ annotation]" facet value.
type AssemblySelected struct{ Assembly string }

// AnalysisSelected selects a compiled analysis by index.
type AnalysisSelected struct{ Index int }

// InclusionToggled shows or hides inclusion-status files.
type InclusionToggled struct{}

// FacetToggled switches one facet value on or off.
type FacetToggled struct {
	Facet string
	Value string
}

// FiltersCleared drops every facet filter but the assembly.
type FiltersCleared struct{}

// BrowserSelected picks the genome browser.
type BrowserSelected struct{ Browser string }

// NodeSelected opens the details of a graph node; an empty id closes them.
type NodeSelected struct{ ID string }

func (DataLoaded) event()       {}
func (TabSelected) event()      {}
func (AssemblySelected) event() {}
func (AnalysisSelected) event() {}
func (InclusionToggled) event() {}
func (FacetToggled) event()     {}
func (FiltersCleared) event()   {}
func (BrowserSelected) event()  {}
func (NodeSelected) event()     {}

// Reduce returns the state following s after e. s is not modified.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case DataLoaded:
		s.Data = mergeData(s.Data, e)
		if s.Tab == "" && s.Data.Has(PartDataset) {
			files := append(append([]record.File(nil), s.Data.Dataset.Files...), s.Data.Files...)
			s.Tab = initialTab(files)
		}
		return update(s, true)

	case TabSelected:
		if e.Tab == s.Tab {
			return s
		}
		s.Tab = e.Tab
		return update(s, true)

	case AssemblySelected:
		return selectAssembly(s, e.Assembly)

	case AnalysisSelected:
		if e.Index < 0 || e.Index >= len(s.Analyses) {
			return s
		}
		selected := s.Analyses[e.Index]
		s.SelectedAnalysis = e.Index
		s.PipelineLab = selected.PipelineLab
		s.Filters = facet.AddFilter(s.Filters, selected.Assembly, facet.KeyAssembly)
		return update(s, false)

	case InclusionToggled:
		s.Inclusion = !s.Inclusion
		return update(s, true)

	case FacetToggled:
		if e.Facet == facet.KeyAssembly {
			return selectAssembly(s, e.Value)
		}
		s.Filters = facet.Toggle(s.Filters, e.Value, e.Facet)
		return update(s, false)

	case FiltersCleared:
		s.Filters = facet.Clear(s.Filters)
		return update(s, false)

	case BrowserSelected:
		s.Browser = e.Browser
		return s

	case NodeSelected:
		if s.InfoNodeID == e.ID {
			s.InfoNodeID = ""
		} else {
			s.InfoNodeID = e.ID
		}
		return s
	}
	return s
}

func mergeData(old *Data, e DataLoaded) *Data {
	d := &Data{}
	if old != nil {
		*d = *old
	}
	if e.Parts&PartDataset != 0 {
		d.Dataset = e.Dataset
	}
	if e.Parts&PartFiles != 0 {
		d.Files = e.Files
	}
	if e.Parts&PartRelated != 0 {
		d.RelatedFiles = e.RelatedFiles
	}
	if e.Parts&PartAudits != 0 {
		d.Audits = e.Audits
	}
	if e.Parts&PartProfiles != 0 {
		d.Profiles = e.Profiles
	}
	d.Loaded |= e.Parts
	return d
}

// selectAssembly replaces the assembly filter and moves the analysis
// selection to the best entry for it.
func selectAssembly(s State, value string) State {
	s.Filters = facet.AddFilter(s.Filters, value, facet.KeyAssembly)
	s = update(s, false)
	if len(s.Analyses) > 0 && value != facet.AllAssemblies {
		s.SelectedAnalysis = analysis.BestMatchIndex(s.Analyses, value, s.PipelineLab)
		s.PipelineLab = s.Analyses[s.SelectedAnalysis].PipelineLab
		s = update(s, false)
	}
	return s
}

// update re-derives everything that depends on the data, the tab, and the
// filters. When the tab, the inclusion flag, or the data changed, the
// assembly filter is reset for the tab: all assemblies on the tables, the
// selected analysis' assembly on the graph and browser, or the
// highest-ranked assembly when there are no analyses.
func update(s State, changed bool) State {
	ds := s.Dataset()
	s.AllFiles = loadedFiles(s.Data, s.Inclusion)
	browserTab := s.Tab == TabBrowser
	s.Assemblies = facet.AssemblyList(s.AllFiles, browserTab)

	s.Analyses = nil
	if ds != nil {
		s.Analyses = analysis.Compile(ds.Analyses, s.AllFiles, analysis.ModeChooseAnalysis, false)
		if browserTab {
			s.Analyses = browserAnalyses(s.Analyses, s.AllFiles)
		}
	}

	if changed {
		current := s.Filters.Assembly()
		switch {
		case s.Tab == TabTables:
			s.Filters = facet.AddFilter(s.Filters, facet.AllAssemblies, facet.KeyAssembly)
		case len(s.Analyses) > 0:
			if current == "" || current == facet.AllAssemblies {
				s.SelectedAnalysis = analysis.DefaultIndex(s.Analyses)
			} else {
				s.SelectedAnalysis = analysis.BestMatchIndex(s.Analyses, current, s.PipelineLab)
			}
			selected := s.Analyses[s.SelectedAnalysis]
			s.PipelineLab = selected.PipelineLab
			if selected.Assembly != current {
				s.Filters = facet.AddFilter(s.Filters, selected.Assembly, facet.KeyAssembly)
			}
		default:
			if current == "" || current == facet.AllAssemblies || !facet.Contains(s.Assemblies, current) {
				s.Filters = facet.AddFilter(s.Filters, facet.HighestAssembly(s.Assemblies), facet.KeyAssembly)
			}
		}
	}
	if s.SelectedAnalysis >= len(s.Analyses) {
		s.SelectedAnalysis = 0
	}

	files := s.AllFiles
	if selected := s.Selected(); selected != nil {
		files = nil
		for _, f := range s.AllFiles {
			if selected.HasFile(f.ID) {
				files = append(files, f)
			}
		}
	}
	s.FilteredFiles = facet.ApplyExceptAssembly(files, s.Filters)

	s.Highlighted = nil
	if len(s.Filters) > 1 {
		s.Highlighted = facet.Apply(s.AllFiles, s.Filters)
	}

	s.Browser = resetBrowser(s.Browser, s.Browsers())
	return s
}

// browserAnalyses keeps the compiled analyses with a visualizable file.
func browserAnalyses(compiled []analysis.Compiled, files []record.File) []analysis.Compiled {
	visualizable := make(map[string]bool)
	for _, f := range record.Visualizable(files) {
		visualizable[f.ID] = true
	}
	var out []analysis.Compiled
	for _, c := range compiled {
		for _, id := range c.Files {
			if visualizable[id] {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// resetBrowser keeps current when it is available, else picks the first
// available browser.
func resetBrowser(current string, browsers []string) string {
	for _, b := range browsers {
		if b == current {
			return current
		}
	}
	if len(browsers) > 0 {
		return browsers[0]
	}
	return ""
}
