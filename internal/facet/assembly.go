// Package facet builds the file gallery's facet sidebar: the assembly and
// annotation choices, term counts for file facets, and the filters the user
// selects from them.
package facet

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/encoded/filegallery/internal/analysis"
	"github.com/encoded/filegallery/internal/record"
)

// AllAssemblies is the assembly facet value that matches every file.
const AllAssemblies = "All assemblies"

// allAssembliesValue ranks AllAssemblies in the assembly list.
const allAssembliesValue = 100

// AssemblyPriority orders assemblies in the assembly/annotation selector.
var AssemblyPriority = []string{
	"GRCh38",
	"hg19",
	"GRCm39",
	"mm10",
	"mm10-minimal",
	"mm9",
	"dm6",
	"dm3",
	"ce11",
	"ce10",
	"J02459.1",
}

var annotationNumber = regexp.MustCompile(`^[A-Z]+(\d+)`)

// AssemblyAnnotation is one choice in the assembly/annotation selector.
type AssemblyAnnotation struct {
	Assembly   string `json:"assembly"`
	Annotation string `json:"annotation,omitempty"`
}

// Value returns the assembly facet value for the choice.
func (a AssemblyAnnotation) Value() string {
	if a.Annotation != "" {
		return a.Assembly + " " + a.Annotation
	}
	return a.Assembly
}

func assemblyRank(assembly string) int {
	for i, a := range AssemblyPriority {
		if a == assembly {
			return i
		}
	}
	return len(AssemblyPriority)
}

func annotationRank(annotation string) (int, bool) {
	m := annotationNumber.FindStringSubmatch(annotation)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CollectAssembliesAnnotations returns the distinct assembly/annotation
// pairs of the processed files, ordered by AssemblyPriority and, within an
// assembly, highest-numbered annotation first. Assemblies missing from
// AssemblyPriority sort last.
func CollectAssembliesAnnotations(files []record.File) []AssemblyAnnotation {
	var out []AssemblyAnnotation
	seen := make(map[string]bool)
	for _, f := range files {
		if f.IsRawData() || f.Assembly == "" {
			continue
		}
		key := f.Assembly + "!" + f.GenomeAnnotation
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, AssemblyAnnotation{Assembly: f.Assembly, Annotation: f.GenomeAnnotation})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := assemblyRank(out[i].Assembly), assemblyRank(out[j].Assembly)
		if ri != rj {
			return ri < rj
		}
		ni, oki := annotationRank(out[i].Annotation)
		nj, okj := annotationRank(out[j].Annotation)
		if oki != okj {
			return oki
		}
		return ni > nj
	})
	return out
}

// AssemblyOption is an entry of the assembly facet with its rank.
type AssemblyOption struct {
	Value string  `json:"value"`
	Rank  float64 `json:"rank"`
}

// AssemblyList returns the assembly facet entries for files, starting with
// AllAssemblies. On the browser tab only visualizable files count.
func AssemblyList(files []record.File, browserTab bool) []AssemblyOption {
	if browserTab {
		files = record.Visualizable(files)
	}
	list := []AssemblyOption{{Value: AllAssemblies, Rank: allAssembliesValue}}
	seen := map[string]bool{AllAssemblies: true}
	for _, f := range files {
		if f.Assembly == "" {
			continue
		}
		value := AssemblyAnnotation{Assembly: f.Assembly, Annotation: f.GenomeAnnotation}.Value()
		if seen[value] {
			continue
		}
		seen[value] = true
		list = append(list, AssemblyOption{
			Value: value,
			Rank:  analysis.AssemblyAnnotationValue(f.Assembly, f.GenomeAnnotation),
		})
	}
	return list
}

// HighestAssembly returns the highest-ranked entry other than AllAssemblies,
// the later one on ties. It returns AllAssemblies when there is no other.
func HighestAssembly(list []AssemblyOption) string {
	best := AllAssemblies
	var bestRank float64
	for _, opt := range list {
		if opt.Value == AllAssemblies {
			continue
		}
		if best == AllAssemblies || opt.Rank >= bestRank {
			best, bestRank = opt.Value, opt.Rank
		}
	}
	return best
}

// Contains reports whether value is an entry of the list.
func Contains(list []AssemblyOption, value string) bool {
	for _, opt := range list {
		if opt.Value == value {
			return true
		}
	}
	return false
}
