package facet

import (
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/encoded/filegallery/internal/record"
)

// Facet keys.
const (
	KeyAssembly   = "assembly"
	KeyFileType   = "file_type"
	KeyOutputType = "output_type"
	KeyReplicates = "biological_replicates"
)

// Filters maps a facet key to its selected values. The assembly facet holds
// at most one value; values of other facets are alternatives.
type Filters map[string][]string

// Keys returns the facet keys, assembly first and the rest sorted.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		if k != KeyAssembly {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := f[KeyAssembly]; ok {
		keys = append([]string{KeyAssembly}, keys...)
	}
	return keys
}

// Assembly returns the selected assembly facet value, or "".
func (f Filters) Assembly() string {
	if v := f[KeyAssembly]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Clone returns a deep copy of the filters.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = slices.Clone(v)
	}
	return out
}

// AddFilter returns a copy of filters with value added under facet. An
// assembly value replaces the current one.
func AddFilter(filters Filters, value, facet string) Filters {
	out := filters.Clone()
	if _, ok := out[facet]; ok && facet != KeyAssembly {
		out[facet] = append(out[facet], value)
	} else {
		out[facet] = []string{value}
	}
	return out
}

// Toggle returns a copy of filters with value switched on or off under
// facet. Selecting an assembly always replaces the current one. Removing
// the last value of a facet removes the facet.
func Toggle(filters Filters, value, facet string) Filters {
	out := filters.Clone()
	current, ok := out[facet]
	if !ok || facet == KeyAssembly {
		out[facet] = []string{value}
		return out
	}
	i := slices.Index(current, value)
	switch {
	case i < 0:
		out[facet] = append(current, value)
	case len(current) > 1:
		out[facet] = slices.Delete(current, i, i+1)
	default:
		delete(out, facet)
	}
	return out
}

// Clear drops every filter except the assembly.
func Clear(filters Filters) Filters {
	out := Filters{}
	if a, ok := filters[KeyAssembly]; ok && len(a) > 0 {
		out[KeyAssembly] = []string{a[0]}
	}
	return out
}

// Clearable reports whether filters other than the assembly are selected.
func Clearable(filters Filters) bool {
	for k := range filters {
		if k != KeyAssembly {
			return true
		}
	}
	return false
}

// ReplicateLabel returns the replicate numbers sorted and joined by ", ".
func ReplicateLabel(reps []int) string {
	sorted := slices.Clone(reps)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, r := range sorted {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}

// Property returns the facet value of a file for key.
func Property(f *record.File, key string) string {
	switch key {
	case KeyAssembly:
		return f.Assembly
	case KeyFileType:
		return f.FileType
	case KeyOutputType:
		return f.OutputType
	case KeyReplicates:
		return ReplicateLabel(f.BiologicalReplicates)
	case "file_format":
		return f.FileFormat
	case "output_category":
		return f.OutputCategory
	case "status":
		return f.Status
	case "lab":
		if f.Lab != nil {
			return f.Lab.Title
		}
	}
	return ""
}

// Match reports whether a file passes the values selected for key. With
// one assembly value, raw data and AllAssemblies always pass and files
// with an annotation are compared as "assembly annotation".
func Match(f *record.File, key string, values []string) bool {
	if len(values) > 1 {
		return slices.Contains(values, Property(f, key))
	}
	if len(values) == 0 {
		return false
	}
	if key == KeyAssembly {
		if values[0] == AllAssemblies || f.IsRawData() {
			return true
		}
		return AssemblyAnnotation{Assembly: f.Assembly, Annotation: f.GenomeAnnotation}.Value() == values[0]
	}
	return Property(f, key) == values[0]
}

// FilterItems returns the files passing the values selected for key.
func FilterItems(files []record.File, key string, values []string) []record.File {
	var out []record.File
	for i := range files {
		if Match(&files[i], key, values) {
			out = append(out, files[i])
		}
	}
	return out
}

// MatchAll reports whether a file passes every filter.
func MatchAll(f *record.File, filters Filters) bool {
	for k, v := range filters {
		if !Match(f, k, v) {
			return false
		}
	}
	return true
}

// Apply returns the files passing every filter.
func Apply(files []record.File, filters Filters) []record.File {
	var out []record.File
	for i := range files {
		if MatchAll(&files[i], filters) {
			out = append(out, files[i])
		}
	}
	return out
}

// ApplyExceptAssembly returns the files passing every filter but the
// assembly.
func ApplyExceptAssembly(files []record.File, filters Filters) []record.File {
	rest := filters.Clone()
	delete(rest, KeyAssembly)
	return Apply(files, rest)
}

// ConvertFiltersToQuery serializes the filters as search query terms
// "key.facet=value". AllAssemblies is omitted. With inclusion on, released
// and in-progress statuses are requested explicitly.
func ConvertFiltersToQuery(filters Filters, key string, inclusionOn bool) string {
	var parts []string
	add := func(term, value string) {
		parts = append(parts, url.QueryEscape(key+"."+term)+"="+url.QueryEscape(value))
	}
	for _, term := range filters.Keys() {
		for _, value := range filters[term] {
			if value != AllAssemblies {
				add(term, value)
			}
		}
	}
	if inclusionOn {
		add("status", "released")
		add("status", "in progress")
	}
	return strings.Join(parts, "&")
}
