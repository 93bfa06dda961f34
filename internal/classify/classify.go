package classify

import (
	"github.com/encoded/filegallery/internal/record"
)

// CloningMapping is a cloning or mappings dataset whose files get their own
// table when shown alongside a functional characterization dataset.
type CloningMapping struct {
	Dataset string       `json:"dataset"`
	Files   record.Links `json:"files"`
}

type analysisFiles struct {
	accession string
	files     map[string]bool
}

// Classifier assigns files to buckets for one dataset.
type Classifier struct {
	isReference bool
	isFCE       bool

	seriesFileIDs     map[string]bool
	elementRefIDs     map[string]bool
	cloningMappingIDs map[string]bool
	analyses          []analysisFiles
}

// New creates a Classifier for the dataset. Analyses are consulted with
// released ones first, so a file in both a released and an unreleased
// analysis lands in the released one's table.
func New(dataset *record.Dataset, analyses []record.Analysis, cloningMappings []CloningMapping) *Classifier {
	c := &Classifier{
		isReference:       dataset.IsReference(),
		isFCE:             dataset.IsFunctionalCharacterization(),
		seriesFileIDs:     make(map[string]bool),
		elementRefIDs:     make(map[string]bool),
		cloningMappingIDs: make(map[string]bool),
	}

	if dataset.IsSeries() {
		for _, a := range dataset.Analyses {
			for _, id := range a.Files {
				c.seriesFileIDs[id] = true
			}
		}
	}
	for _, f := range dataset.ElementReferenceFiles() {
		c.elementRefIDs[f.ID] = true
	}
	for _, cm := range cloningMappings {
		for _, id := range cm.Files {
			c.cloningMappingIDs[id] = true
		}
	}

	for _, a := range releasedFirst(analyses) {
		af := analysisFiles{accession: a.Accession, files: make(map[string]bool, len(a.Files))}
		for _, id := range a.Files {
			af.files[id] = true
		}
		c.analyses = append(c.analyses, af)
	}
	return c
}

// releasedFirst returns a copy of analyses with released ones moved to the
// front, otherwise keeping their order.
func releasedFirst(analyses []record.Analysis) []record.Analysis {
	out := make([]record.Analysis, 0, len(analyses))
	for _, a := range analyses {
		if a.Status == "released" {
			out = append(out, a)
		}
	}
	for _, a := range analyses {
		if a.Status != "released" {
			out = append(out, a)
		}
	}
	return out
}

// IsElementReference reports whether the file came from the dataset's
// element references.
func (c *Classifier) IsElementReference(id string) bool {
	return c.elementRefIDs[id]
}

// Bucket classifies a single file. The first matching rule wins.
func (c *Classifier) Bucket(f *record.File) Bucket {
	if c.cloningMappingIDs[f.ID] {
		return BucketCloningMappings
	}
	if c.seriesFileIDs[f.ID] {
		return BucketSeries
	}
	if f.IsRawData() {
		switch f.OutputType {
		case record.OutputReads:
			return BucketRaw
		case record.OutputIndexReads:
			return BucketIndex
		default:
			return BucketRawArray
		}
	}
	if (c.elementRefIDs[f.ID] && c.isFCE) || (f.OutputCategory == record.CategoryReference && c.isReference) {
		return BucketReference
	}
	for _, a := range c.analyses {
		if a.files[f.ID] {
			return AnalysisBucket(a.accession)
		}
	}
	return BucketOther
}

// Result holds classified files.
type Result struct {
	// Files is the de-duplicated input.
	Files []record.File

	// Order lists buckets in order of their first file.
	Order []Bucket

	buckets map[Bucket][]record.File
}

// Get returns the files in a bucket, in input order.
func (r *Result) Get(b Bucket) []record.File {
	return r.buckets[b]
}

// AnalysisBuckets returns the analysis buckets in order of their first file.
func (r *Result) AnalysisBuckets() []Bucket {
	var out []Bucket
	for _, b := range r.Order {
		if b.Kind == KindAnalysis {
			out = append(out, b)
		}
	}
	return out
}

// Counts returns the number of files per bucket key.
func (r *Result) Counts() map[string]int {
	counts := make(map[string]int, len(r.buckets))
	for b, files := range r.buckets {
		counts[b.Key()] = len(files)
	}
	return counts
}

// Classify de-duplicates files by @id and assigns each to exactly one bucket.
func (c *Classifier) Classify(files []record.File) *Result {
	res := &Result{
		Files:   record.Dedupe(files),
		buckets: make(map[Bucket][]record.File),
	}
	for i := range res.Files {
		b := c.Bucket(&res.Files[i])
		if _, ok := res.buckets[b]; !ok {
			res.Order = append(res.Order, b)
		}
		res.buckets[b] = append(res.buckets[b], res.Files[i])
	}
	return res
}
