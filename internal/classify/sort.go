package classify

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/encoded/filegallery/internal/record"
)

// SortBioReps compares two files by their biological replicate lists,
// element by element. A file that runs out of replicates first sorts after
// the other; two files without replicates compare equal.
func SortBioReps(a, b *record.File) int {
	if a == nil || b == nil {
		return 0
	}
	for i := 0; ; i++ {
		hasA := i < len(a.BiologicalReplicates)
		hasB := i < len(b.BiologicalReplicates)
		switch {
		case hasA && hasB:
			if d := a.BiologicalReplicates[i] - b.BiologicalReplicates[i]; d != 0 {
				return d
			}
		case hasA:
			return -1
		case hasB:
			return 1
		default:
			return 0
		}
	}
}

// CompareAccession orders files with an accession before files without one,
// then by case-folded title.
func CompareAccession(a, b *record.File) int {
	if (a.Accession == "") != (b.Accession == "") {
		if a.Accession != "" {
			return -1
		}
		return 1
	}
	fold := cases.Fold()
	ta, tb := fold.String(a.Title), fold.String(b.Title)
	switch {
	case ta < tb:
		return -1
	case ta > tb:
		return 1
	default:
		return 0
	}
}

// SortByAccession sorts files in place with CompareAccession.
func SortByAccession(files []record.File) {
	sort.SliceStable(files, func(i, j int) bool {
		return CompareAccession(&files[i], &files[j]) < 0
	})
}

// ReplicationDisplay returns the replicate column heading for a dataset's
// replication type.
func ReplicationDisplay(replicationType string) string {
	if replicationType == "anisogenic" {
		return "Anisogenic replicate"
	}
	return "Isogenic replicate"
}

// FilterDownloadable returns the files a batch download would include.
// Restricted files and files without content are never included. Released
// datasets offer only released and archived files; other datasets exclude
// revoked, deleted, and replaced files.
func FilterDownloadable(dataset *record.Dataset, files []record.File) []record.File {
	out := make([]record.File, 0, len(files))
	for _, f := range files {
		if f.Restricted || f.NoFileAvailable {
			continue
		}
		if dataset.Status == "released" {
			if f.Status != "released" && f.Status != "archived" {
				continue
			}
		} else if f.Status == "revoked" || f.Status == "deleted" || f.Status == "replaced" {
			continue
		}
		out = append(out, f)
	}
	return out
}
