// Package classify sorts a dataset's files into the tables the gallery shows.
package classify

// Kind identifies the table a file belongs in.
type Kind int

// Bucket kinds in classification precedence order.
const (
	KindCloningMappings Kind = iota
	KindSeries
	KindRaw
	KindIndex
	KindRawArray
	KindReference
	KindAnalysis
	KindOther
)

// Bucket is a classification result. Analysis buckets carry the accession of
// the analysis whose files the bucket holds.
type Bucket struct {
	Kind      Kind
	Accession string
}

// Fixed buckets.
var (
	BucketCloningMappings = Bucket{Kind: KindCloningMappings}
	BucketSeries          = Bucket{Kind: KindSeries}
	BucketRaw             = Bucket{Kind: KindRaw}
	BucketIndex           = Bucket{Kind: KindIndex}
	BucketRawArray        = Bucket{Kind: KindRawArray}
	BucketReference       = Bucket{Kind: KindReference}
	BucketOther           = Bucket{Kind: KindOther}
)

// AnalysisBucket returns the bucket for files of the analysis with the given
// accession.
func AnalysisBucket(accession string) Bucket {
	return Bucket{Kind: KindAnalysis, Accession: accession}
}

// Key returns the bucket's table key.
func (b Bucket) Key() string {
	switch b.Kind {
	case KindCloningMappings:
		return "cloningMappings"
	case KindSeries:
		return "series"
	case KindRaw:
		return "raw"
	case KindIndex:
		return "index"
	case KindRawArray:
		return "rawArray"
	case KindReference:
		return "ref"
	case KindAnalysis:
		return b.Accession
	default:
		return "Other"
	}
}

func (b Bucket) String() string {
	return b.Key()
}

// MarshalText encodes the bucket as its key so buckets can key JSON objects.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.Key()), nil
}
