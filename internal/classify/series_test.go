package classify

import (
	"testing"

	"github.com/encoded/filegallery/internal/record"
)

func float(v float64) *float64 { return &v }

func relatedWith(biosamples ...record.Biosample) *record.RelatedDataset {
	rd := &record.RelatedDataset{
		ID:            "/experiments/ENCSR200REL/",
		Accession:     "ENCSR200REL",
		AssayTermName: "ChIP-seq",
		Target:        &record.Target{Label: "CTCF"},
		Assembly:      []string{"GRCh38", "hg19"},
	}
	for _, b := range biosamples {
		rd.Replicates = append(rd.Replicates, record.Replicate{Library: &record.Library{Biosample: &b}})
	}
	return rd
}

func TestSeriesTitle(t *testing.T) {
	const common = "ENCSR200REL CTCF ChIP-seq GRCh38, hg19"

	tests := []struct {
		name         string
		seriesType   string
		rd           *record.RelatedDataset
		wantTitle    string
		wantSubtitle string
	}{
		{
			name:       "basic puts assay before target",
			seriesType: "ReferenceEpigenome",
			rd:         relatedWith(),
			wantTitle:  "ENCSR200REL ChIP-seq CTCF GRCh38, hg19",
		},
		{
			name:       "basic without target or assembly",
			seriesType: "MatchedSet",
			rd:         &record.RelatedDataset{Accession: "ENCSR201REL", AssayTermName: "DNase-seq"},
			wantTitle:  "ENCSR201REL DNase-seq",
		},
		{
			name:       "disease series lists sorted diseases once",
			seriesType: "DiseaseSeries",
			rd: relatedWith(
				record.Biosample{ID: "/biosamples/B1/", DiseaseTermName: []string{"multiple sclerosis"}},
				record.Biosample{ID: "/biosamples/B2/", DiseaseTermName: []string{"Alzheimer's disease", "multiple sclerosis"}},
			),
			wantTitle:    common,
			wantSubtitle: "Alzheimer's disease, multiple sclerosis",
		},
		{
			name:         "disease series without diseases",
			seriesType:   "DiseaseSeries",
			rd:           relatedWith(record.Biosample{ID: "/biosamples/B1/"}),
			wantTitle:    common,
			wantSubtitle: "Non-diseased samples",
		},
		{
			name:         "gene silencing shows target",
			seriesType:   "GeneSilencingSeries",
			rd:           relatedWith(),
			wantTitle:    common,
			wantSubtitle: "CTCF",
		},
		{
			name:         "gene silencing control",
			seriesType:   "GeneSilencingSeries",
			rd:           &record.RelatedDataset{Accession: "ENCSR202REL", AssayTermName: "RNA-seq"},
			wantTitle:    "ENCSR202REL RNA-seq",
			wantSubtitle: "(control)",
		},
		{
			name:       "organism development life stages and ages",
			seriesType: "OrganismDevelopmentSeries",
			rd: relatedWith(
				record.Biosample{ID: "/biosamples/B1/", LifeStage: "embryonic", AgeDisplay: "11.5 days"},
				record.Biosample{ID: "/biosamples/B2/", LifeStage: "adult", AgeDisplay: "32 years", AgeUnits: "year"},
				record.Biosample{ID: "/biosamples/B3/", LifeStage: "postnatal"},
				record.Biosample{ID: "/biosamples/B4/", LifeStage: "embryonic", AgeDisplay: "11.5 days"},
			),
			wantTitle:    common,
			wantSubtitle: "embryonic 11.5 days, 32 years, postnatal",
		},
		{
			name:         "organism development unknown",
			seriesType:   "OrganismDevelopmentSeries",
			rd:           relatedWith(),
			wantTitle:    common,
			wantSubtitle: "unknown",
		},
		{
			name:       "treatment concentration from first biosample",
			seriesType: "TreatmentConcentrationSeries",
			rd: relatedWith(
				record.Biosample{ID: "/biosamples/B1/", Treatments: []record.Treatment{{TermName: "dexamethasone", Amount: 0.5, AmountUnits: "nM"}}},
				record.Biosample{ID: "/biosamples/B2/", Treatments: []record.Treatment{{TermName: "dexamethasone", Amount: 5, AmountUnits: "nM"}}},
			),
			wantTitle:    common,
			wantSubtitle: "dexamethasone 0.5 nM",
		},
		{
			name:         "treatment concentration untreated",
			seriesType:   "TreatmentConcentrationSeries",
			rd:           relatedWith(record.Biosample{ID: "/biosamples/B1/"}),
			wantTitle:    common,
			wantSubtitle: "No treatment",
		},
		{
			name:       "treatment time durations",
			seriesType: "TreatmentTimeSeries",
			rd: relatedWith(
				record.Biosample{ID: "/biosamples/B1/", Treatments: []record.Treatment{{TermName: "dexamethasone", Duration: 1, DurationUnits: "hour"}}},
				record.Biosample{ID: "/biosamples/B2/", Treatments: []record.Treatment{{TermName: "dexamethasone", Duration: 12, DurationUnits: "hour"}}},
				record.Biosample{ID: "/biosamples/B3/"},
			),
			wantTitle:    common,
			wantSubtitle: "dexamethasone 1 hour, dexamethasone 12 hours",
		},
		{
			name:         "treatment time untreated",
			seriesType:   "TreatmentTimeSeries",
			rd:           relatedWith(),
			wantTitle:    common,
			wantSubtitle: "No treatments",
		},
		{
			name:       "functional characterization examined loci",
			seriesType: "FunctionalCharacterizationSeries",
			rd: func() *record.RelatedDataset {
				rd := relatedWith()
				rd.ExaminedLoci = []record.ExaminedLocus{
					{Gene: &record.Gene{Symbol: "GATA1"}, ExpressionPercentile: float(95), ExpressionMeasurementMethod: "HCR-FlowFISH"},
					{Gene: &record.Gene{Symbol: "MYC"}, ExpressionRangeMinimum: float(0), ExpressionRangeMaximum: float(20)},
					{Gene: &record.Gene{Symbol: "HBG1"}},
				}
				return rd
			}(),
			wantTitle:    common,
			wantSubtitle: "GATA1 (95th percentile), MYC (0-20%), HBG1 HCR-FlowFISH",
		},
		{
			name:       "long assay names are cut at a word",
			seriesType: "CollectionSeries",
			rd: &record.RelatedDataset{
				Accession:     "ENCSR203REL",
				AssayTermName: "single-nucleus ATAC-seq and transcription profiling by array assay",
			},
			wantTitle: "ENCSR203REL single-nucleus ATAC-seq and…",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, subtitle, ok := SeriesTitle(tt.seriesType, tt.rd)
			if !ok {
				t.Fatalf("SeriesTitle(%s) found no composer", tt.seriesType)
			}
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if subtitle != tt.wantSubtitle {
				t.Errorf("subtitle = %q, want %q", subtitle, tt.wantSubtitle)
			}
		})
	}
}

func TestSeriesTitle_NoComposer(t *testing.T) {
	if _, _, ok := SeriesTitle("Experiment", relatedWith()); ok {
		t.Error("SeriesTitle() composed a title for an experiment")
	}
	if _, _, ok := SeriesTitle("DiseaseSeries", nil); ok {
		t.Error("SeriesTitle() composed a title without a related dataset")
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ChIP-seq", "ChIP-seq"},
		{"exactly ten", "exactly…"},
		{"abcdefghijklmno", "abcdefghi…"},
	}
	for _, tt := range tests {
		if got := truncateWords(tt.input, 10); got != tt.want {
			t.Errorf("truncateWords(%q, 10) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
