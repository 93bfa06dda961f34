// Package analysis compiles a dataset's analyses into the selectable entries
// of the analysis chooser and processed-data tables.
package analysis

import (
	"sort"

	"github.com/encoded/filegallery/internal/record"
)

// Mode selects how compiled titles are decorated.
type Mode int

const (
	// ModeNone leaves titles untouched.
	ModeNone Mode = iota
	// ModeChooseAnalysis appends " (accession)" to titles that occur more
	// than once.
	ModeChooseAnalysis
	// ModeProcessedData appends " (accession)" to every title.
	ModeProcessedData
)

// Compiled is one selectable analysis/assembly entry.
type Compiled struct {
	Title                   string   `json:"title"`
	PipelineLab             string   `json:"pipelineLab"`
	Assembly                string   `json:"assembly"`
	Status                  string   `json:"status"`
	Accession               string   `json:"accession"`
	PipelineVersion         string   `json:"pipeline_version"`
	PipelineAwardRfa        string   `json:"pipelineAwardRfa"`
	AssemblyAnnotationValue float64  `json:"assemblyAnnotationValue"`
	Files                   []string `json:"files"`
}

// HasFile reports whether the compiled entry includes the file.
func (c *Compiled) HasFile(id string) bool {
	for _, f := range c.Files {
		if f == id {
			return true
		}
	}
	return false
}

func qualifies(a *record.Analysis, allowMixed bool) bool {
	if allowMixed {
		return true
	}
	return a.Assembly != "" && a.Assembly != "mixed" && a.GenomeAnnotation != "mixed"
}

func assemblyKey(a *record.Analysis) string {
	if a.GenomeAnnotation != "" {
		return a.Assembly + " " + a.GenomeAnnotation
	}
	return a.Assembly
}

// group is an insertion-ordered grouping of analyses.
type group struct {
	keys  []string
	items map[string][]*record.Analysis
}

func newGroup() *group {
	return &group{items: make(map[string][]*record.Analysis)}
}

func (g *group) add(key string, a *record.Analysis) {
	if _, ok := g.items[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.items[key] = append(g.items[key], a)
}

// Compile groups qualifying analyses by accession, then by assembly and
// annotation, and emits one entry per group holding the union of the
// group's files that are present in files. Groups without present files are
// skipped. Analyses with no assembly or a mixed assembly or annotation
// qualify only when allowMixed is set. The result is sorted by descending
// AssemblyAnnotationValue, keeping input order among equal values.
func Compile(analyses []record.Analysis, files []record.File, mode Mode, allowMixed bool) []Compiled {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.ID] = true
	}

	byLab := newGroup()
	for i := range analyses {
		if qualifies(&analyses[i], allowMixed) {
			byLab.add(analyses[i].Accession, &analyses[i])
		}
	}

	compiled := []Compiled{}
	for _, lab := range byLab.keys {
		byAssembly := newGroup()
		for _, a := range byLab.items[lab] {
			byAssembly.add(assemblyKey(a), a)
		}

		for _, assembly := range byAssembly.keys {
			members := byAssembly.items[assembly]
			seen := make(map[string]bool)
			var groupFiles []string
			for _, a := range members {
				for _, id := range a.Files {
					if present[id] && !seen[id] {
						seen[id] = true
						groupFiles = append(groupFiles, id)
					}
				}
			}
			if len(groupFiles) == 0 {
				continue
			}

			first := members[0]
			compiled = append(compiled, Compiled{
				Title:                   first.Title,
				PipelineLab:             lab,
				Assembly:                assembly,
				Status:                  first.Status,
				Accession:               first.Accession,
				PipelineVersion:         first.PipelineVersion,
				PipelineAwardRfa:        first.PipelineAwardRfa(),
				AssemblyAnnotationValue: AssemblyAnnotationValue(first.Assembly, first.GenomeAnnotation),
				Files:                   groupFiles,
			})
		}
	}

	switch mode {
	case ModeChooseAnalysis:
		counts := make(map[string]int, len(compiled))
		for _, c := range compiled {
			counts[c.Title]++
		}
		for i := range compiled {
			if counts[compiled[i].Title] > 1 {
				compiled[i].Title = compiled[i].Title + " (" + compiled[i].Accession + ")"
			}
		}
	case ModeProcessedData:
		for i := range compiled {
			compiled[i].Title = compiled[i].Title + " (" + compiled[i].Accession + ")"
		}
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].AssemblyAnnotationValue > compiled[j].AssemblyAnnotationValue
	})
	return compiled
}

// Find returns the entry with the given accession, or nil.
func Find(compiled []Compiled, accession string) *Compiled {
	for i := range compiled {
		if compiled[i].Accession == accession {
			return &compiled[i]
		}
	}
	return nil
}
