package facet

import (
	"slices"

	"github.com/encoded/filegallery/internal/record"
)

// Term is one value of a facet with the number of files carrying it.
type Term struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facet lists the terms of one facet key in first-seen order.
type Facet struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Terms []Term `json:"terms"`

	index map[string]int
}

func newFacet(key string) *Facet {
	return &Facet{Key: key, Terms: []Term{}, index: make(map[string]int)}
}

func (f *Facet) add(value string, n int) {
	if i, ok := f.index[value]; ok {
		f.Terms[i].Count += n
		return
	}
	f.index[value] = len(f.Terms)
	f.Terms = append(f.Terms, Term{Value: value, Count: n})
}

// Count returns the count of a term and whether the term is listed.
func (f *Facet) Count(value string) (int, bool) {
	i, ok := f.index[value]
	if !ok {
		return 0, false
	}
	return f.Terms[i].Count, true
}

// CreateFacetObject counts the values of key across files. With only one
// filter selected, the counts cover every file of the selected assembly.
// Otherwise they cover the files passing all filters, plus files of the
// selected assembly that selecting their term would bring in. A selected
// term that matches nothing is listed with a zero count.
func CreateFacetObject(key string, files []record.File, filters Filters) *Facet {
	facet := newFacet(key)

	byAssembly := files
	if a, ok := filters[KeyAssembly]; ok {
		byAssembly = FilterItems(files, KeyAssembly, a)
	}

	if len(filters) == 1 {
		for i := range byAssembly {
			if v, ok := facetValue(&byAssembly[i], key); ok {
				facet.add(v, 1)
			}
		}
		return facet
	}

	filtered := make(map[string]bool)
	for i := range files {
		f := &files[i]
		if !MatchAll(f, filters) {
			continue
		}
		filtered[f.ID] = true
		if v, ok := facetValue(f, key); ok {
			facet.add(v, 1)
		}
	}

	for i := range byAssembly {
		f := &byAssembly[i]
		v, ok := facetValue(f, key)
		if !ok || filtered[f.ID] {
			continue
		}
		if MatchAll(f, AddFilter(filters, v, key)) {
			facet.add(v, 1)
		} else if _, listed := facet.Count(v); !listed && slices.Contains(filters[key], v) {
			facet.add(v, 0)
		}
	}
	return facet
}

// facetValue returns the facet value of f, skipping files without
// replicates on the replicate facet.
func facetValue(f *record.File, key string) (string, bool) {
	v := Property(f, key)
	if key == KeyReplicates && v == "" {
		return "", false
	}
	return v, true
}

// Panel is the facet sidebar for one tab.
type Panel struct {
	Assemblies []AssemblyOption `json:"assemblies"`
	Facets     []*Facet         `json:"facets"`
	Clearable  bool             `json:"clearable"`
}

// BuildPanel builds the sidebar facets over files. On the browser tab only
// visualizable files count. Annotation datasets get no replicate facet.
func BuildPanel(files []record.File, filters Filters, browserTab bool, experimentType string) *Panel {
	files = record.Dedupe(files)
	if browserTab {
		files = record.Visualizable(files)
	}

	p := &Panel{
		Assemblies: AssemblyList(files, false),
		Clearable:  Clearable(filters),
	}
	titled := func(f *Facet, title string) *Facet {
		f.Title = title
		return f
	}
	p.Facets = append(p.Facets,
		titled(CreateFacetObject(KeyFileType, files, filters), "File format"),
		titled(CreateFacetObject(KeyOutputType, files, filters), "Output type"),
	)
	if experimentType != "Annotation" {
		p.Facets = append(p.Facets, titled(CreateFacetObject(KeyReplicates, files, filters), "Replicates"))
	}
	return p
}
