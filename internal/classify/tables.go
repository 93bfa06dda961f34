package classify

import (
	"strings"

	"github.com/encoded/filegallery/internal/analysis"
	"github.com/encoded/filegallery/internal/record"
)

// Table is one processed-data table.
type Table struct {
	Key      string        `json:"key"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Files    []record.File `json:"files"`
}

// ProcessedTables lays out the processed-data tables: one per series
// analysis, then one per analysis bucket, then the Other bucket. A series
// table whose analysis belongs to a related dataset is titled after that
// dataset. Analysis titles come from the processed-data compilation,
// falling back to the compilation that admits mixed assemblies.
func ProcessedTables(res *Result, dataset *record.Dataset, analyses []record.Analysis) []Table {
	var tables []Table

	series := res.Get(BucketSeries)
	var seriesKeys []string
	seriesFiles := make(map[string][]record.File)
	for _, f := range series {
		if len(f.Analyses) == 0 {
			continue
		}
		key := f.Analyses[0]
		if _, ok := seriesFiles[key]; !ok {
			seriesKeys = append(seriesKeys, key)
		}
		seriesFiles[key] = append(seriesFiles[key], f)
	}
	for _, key := range seriesKeys {
		tables = append(tables, seriesTable(dataset, key, seriesFiles[key]))
	}

	compiled := analysis.Compile(analyses, res.Files, analysis.ModeProcessedData, false)
	compiledMixed := analysis.Compile(analyses, res.Files, analysis.ModeProcessedData, true)
	for _, b := range res.AnalysisBuckets() {
		title := ""
		if c := analysis.Find(compiled, b.Accession); c != nil {
			title = c.Title
		} else if c := analysis.Find(compiledMixed, b.Accession); c != nil {
			title = c.Title
		}
		tables = append(tables, Table{Key: b.Key(), Title: tableTitle(title), Files: res.Get(b)})
	}

	if other := res.Get(BucketOther); len(other) > 0 {
		tables = append(tables, Table{Key: BucketOther.Key(), Title: tableTitle("Other"), Files: other})
	}
	return tables
}

func seriesTable(dataset *record.Dataset, key string, files []record.File) Table {
	t := Table{Key: key, Files: files}
	for i := range dataset.Analyses {
		a := &dataset.Analyses[i]
		if a.ID != key {
			continue
		}
		if len(dataset.Type) > 0 {
			rd := dataset.RelatedDatasetFor(a.Datasets)
			if title, subtitle, ok := SeriesTitle(dataset.Type[0], rd); ok {
				t.Title, t.Subtitle = title, subtitle
				return t
			}
		}
		t.Title = tableTitle(a.Title + " (" + a.Accession + ")")
		return t
	}
	t.Title = tableTitle("")
	return t
}

func tableTitle(prefix string) string {
	return strings.TrimSpace(prefix + " processed data")
}
