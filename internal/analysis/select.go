package analysis

import (
	"sort"
	"strconv"
	"strings"

	"github.com/encoded/filegallery/internal/record"
)

// Default-selection precedence, most preferred first.
var (
	AwardSuffixes = []string{"ENCODE4", "ENCODE3", "ENCODE2", "Mixed", "Lab custom"}
	Statuses      = []string{"released", "in progress", "archived", "revoked", "deleted"}
)

// filterByField returns the entries whose field contains the first filter
// any entry matches. With no match it returns a copy of the input.
func filterByField(group []Compiled, filters []string, field func(*Compiled) string) []Compiled {
	for _, filter := range filters {
		var matched []Compiled
		for i := range group {
			if strings.Contains(field(&group[i]), filter) {
				matched = append(matched, group[i])
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}
	out := make([]Compiled, len(group))
	copy(out, group)
	return out
}

func versionNumber8(c *Compiled) int64 {
	digits := onlyDigits(c.PipelineAwardRfa) + onlyDigits(c.PipelineVersion)
	if len(digits) < 8 {
		digits += strings.Repeat("0", 8-len(digits))
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sortByVersion orders entries by the digits of award RFA and pipeline
// version, right-padded to eight digits, highest first.
func sortByVersion(group []Compiled) {
	sort.SliceStable(group, func(i, j int) bool {
		return versionNumber8(&group[i]) > versionNumber8(&group[j])
	})
}

// narrowAssembly keeps the entries sharing the first entry's assembly. Groups
// of more than two entries are left alone.
func narrowAssembly(group []Compiled) []Compiled {
	if len(group) == 0 || len(group) > 2 {
		return group
	}
	var out []Compiled
	for _, c := range group {
		if c.Assembly == group[0].Assembly {
			out = append(out, c)
		}
	}
	return out
}

// DefaultIndex picks the analysis the chooser starts on: narrow by award
// suffix in title, then by status, order by version, narrow by assembly, and
// take the first survivor. It returns the index of the first entry sharing
// the survivor's title, or 0 when nothing matches.
func DefaultIndex(compiled []Compiled) int {
	if len(compiled) == 0 {
		return 0
	}
	group := filterByField(compiled, AwardSuffixes, func(c *Compiled) string { return c.Title })
	group = filterByField(group, Statuses, func(c *Compiled) string { return c.Status })
	sortByVersion(group)
	group = narrowAssembly(group)

	selected := compiled[0]
	if len(group) > 0 {
		selected = group[0]
	}
	for i := range compiled {
		if compiled[i].Title == selected.Title {
			return i
		}
	}
	return 0
}

// BestMatchIndex finds the entry for the assembly that also matches the last
// selected pipeline lab, else the first entry for the assembly, else 0.
func BestMatchIndex(compiled []Compiled, assembly, pipelineLab string) int {
	first := -1
	for i := range compiled {
		if compiled[i].Assembly != assembly {
			continue
		}
		if compiled[i].PipelineLab == pipelineLab {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	if first < 0 {
		return 0
	}
	return first
}

// FileIDs returns the distinct file ids of the analyses in order.
func FileIDs(analyses []record.Analysis) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range analyses {
		for _, id := range a.Files {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// SeriesFiles returns the dataset's embedded files that belong to one of its
// analyses, or nil when the dataset is not a series.
func SeriesFiles(dataset *record.Dataset) []record.File {
	if !dataset.IsSeries() {
		return nil
	}
	ids := make(map[string]bool)
	for _, id := range FileIDs(dataset.Analyses) {
		ids[id] = true
	}
	var out []record.File
	for _, f := range dataset.Files {
		if ids[f.ID] {
			out = append(out, f)
		}
	}
	return out
}

// FilterSeriesFiles narrows a series' searched files to preferred-default
// files in the given analyses. Without analyses it returns files unchanged;
// when the analyses list no files every preferred-default file is kept.
func FilterSeriesFiles(files []record.File, analyses []record.Analysis) []record.File {
	if len(analyses) == 0 {
		return files
	}
	ids := FileIDs(analyses)
	inAnalyses := make(map[string]bool, len(ids))
	for _, id := range ids {
		inAnalyses[id] = true
	}
	var out []record.File
	for _, f := range files {
		if f.PreferredDefault && (len(ids) == 0 || inAnalyses[f.ID]) {
			out = append(out, f)
		}
	}
	return out
}
