package classify

import (
	"fmt"
	"sort"

	"github.com/encoded/filegallery/internal/record"
)

// PairInfo records how a paired-end reads file sorts next to its mate.
type PairInfo struct {
	// SortID is the lower of the two mates' titles.
	SortID string `json:"pair_sort_id"`
	// SortKey is SortID plus the file's paired_end, or "-I" for index reads.
	SortKey string `json:"pair_sort_key"`
}

// PairedGroup is a set of paired reads sharing a biological replicate and
// library.
type PairedGroup struct {
	Key   string        `json:"key"`
	Files []record.File `json:"files"`
}

// RawSequencing is the row layout of the raw sequencing table.
type RawSequencing struct {
	Paired   []PairedGroup       `json:"paired"`
	Unpaired []record.File       `json:"unpaired"`
	Pairs    map[string]PairInfo `json:"pairs"`
}

// zeroFill left-pads n with zeros to four digits.
func zeroFill(n int) string {
	return fmt.Sprintf("%04d", n)
}

// Pair finds the properly paired files among files. Two files pair when
// each names the other in paired_with and they either share the same single
// biological replicate or neither has one.
func Pair(files []record.File) map[string]PairInfo {
	byID := record.IndexByID(files)
	pairs := make(map[string]PairInfo)

	for i := range files {
		file := &files[i]
		if _, ok := pairs[file.ID]; ok {
			continue
		}
		if file.PairedWith == "" {
			continue
		}
		partner, ok := byID[file.PairedWith]
		if !ok || partner.PairedWith != file.ID {
			continue
		}
		if !replicatesPair(file, partner) {
			continue
		}

		sortID := partner.Title
		if file.Title < partner.Title {
			sortID = file.Title
		}
		pairs[partner.ID] = PairInfo{SortID: sortID, SortKey: sortID + "-" + partner.PairedEnd}
		pairs[file.ID] = PairInfo{SortID: sortID, SortKey: sortID + "-" + file.PairedEnd}
	}
	return pairs
}

func replicatesPair(a, b *record.File) bool {
	repA, okA := a.SingleReplicate()
	repB, okB := b.SingleReplicate()
	if okA && okB {
		return repA == repB
	}
	return len(a.BiologicalReplicates) == 0 && len(b.BiologicalReplicates) == 0
}

// FindIndexFile returns the index reads file whose index_of matches the
// given reads. For paired reads both files must match; for single-ended
// reads pass nil as file1.
func FindIndexFile(indexFiles []record.File, file0, file1 *record.File) *record.File {
	for i := range indexFiles {
		idx := &indexFiles[i]
		if len(idx.IndexOf) == 0 || idx.IndexOf[0] != file0.ID {
			continue
		}
		if len(idx.IndexOf) == 2 && (file1 == nil || idx.IndexOf[1] != file1.ID) {
			continue
		}
		return idx
	}
	return nil
}

// LayoutRawSequencing arranges reads and index reads into table rows.
// Paired reads are grouped by zero-filled replicate plus library accession
// ("Z" when the file lacks a single replicate), groups ordered by key and rows
// by pair sort key. Unpaired reads are ordered by biological replicate with
// each one's index reads file directly after it.
func LayoutRawSequencing(files, indexFiles []record.File) *RawSequencing {
	layout := &RawSequencing{Pairs: Pair(files)}

	var paired, unpaired []record.File
	for _, f := range files {
		if _, ok := layout.Pairs[f.ID]; ok {
			paired = append(paired, f)
		} else {
			unpaired = append(unpaired, f)
		}
	}

	sort.SliceStable(unpaired, func(i, j int) bool {
		return SortBioReps(&unpaired[i], &unpaired[j]) < 0
	})
	for _, f := range unpaired {
		layout.Unpaired = append(layout.Unpaired, f)
		for _, idx := range indexFiles {
			if idx.IndexOf.Contains(f.ID) {
				layout.Unpaired = append(layout.Unpaired, idx)
				break
			}
		}
	}

	var pairedIndex []record.File
	for _, idx := range indexFiles {
		for _, p := range paired {
			if !idx.IndexOf.Contains(p.ID) {
				continue
			}
			sortID := layout.Pairs[p.ID].SortID
			layout.Pairs[idx.ID] = PairInfo{SortID: sortID, SortKey: sortID + "-I"}
			pairedIndex = append(pairedIndex, idx)
			break
		}
	}
	paired = append(paired, pairedIndex...)

	groups := make(map[string][]record.File)
	for _, f := range paired {
		key := "Z"
		if rep, ok := f.SingleReplicate(); ok {
			key = zeroFill(rep) + f.LibraryAccession()
		}
		groups[key] = append(groups[key], f)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		rows := groups[k]
		sort.SliceStable(rows, func(i, j int) bool {
			return layout.Pairs[rows[i].ID].SortKey < layout.Pairs[rows[j].ID].SortKey
		})
		layout.Paired = append(layout.Paired, PairedGroup{Key: k, Files: rows})
	}
	return layout
}

// RawArrayGroups is the row layout of the non-sequencing raw data table.
type RawArrayGroups struct {
	Grouped    []PairedGroup `json:"grouped"`
	NonGrouped []record.File `json:"non_grouped"`
}

// GroupRawArray groups raw data files by zero-filled first biological
// replicate plus library accession ("Z" without a library). Groups of more
// than one file are returned in key order; singletons are returned
// separately in input order.
func GroupRawArray(files []record.File) *RawArrayGroups {
	groups := make(map[string][]record.File)
	var order []string
	for _, f := range files {
		key := ""
		if len(f.BiologicalReplicates) > 0 {
			key = zeroFill(f.BiologicalReplicates[0])
		}
		if lib := f.LibraryAccession(); lib != "" {
			key += lib
		} else {
			key += "Z"
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	out := &RawArrayGroups{}
	var keys []string
	for _, k := range order {
		if len(groups[k]) > 1 {
			keys = append(keys, k)
		} else {
			out.NonGrouped = append(out.NonGrouped, groups[k][0])
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Grouped = append(out.Grouped, PairedGroup{Key: k, Files: groups[k]})
	}
	return out
}
