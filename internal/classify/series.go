package classify

import (
	"sort"
	"strconv"
	"strings"

	"github.com/encoded/filegallery/internal/record"
)

// MaxSeriesAssayLen bounds the assay term name in series titles.
const MaxSeriesAssayLen = 40

type seriesComposer func(rd *record.RelatedDataset) (title, subtitle string)

// seriesComposers maps a series @type to the composer of its table titles.
// Series types not listed keep the analysis title.
var seriesComposers = map[string]seriesComposer{
	"AggregateSeries":                  basicSeriesTitle,
	"CollectionSeries":                 basicSeriesTitle,
	"DifferentialAccessibilitySeries":  basicSeriesTitle,
	"DifferentiationSeries":            basicSeriesTitle,
	"DiseaseSeries":                    diseaseSeriesTitle,
	"FunctionalCharacterizationSeries": functionalCharacterizationSeriesTitle,
	"GeneSilencingSeries":              geneSilencingSeriesTitle,
	"MatchedSet":                       basicSeriesTitle,
	"MultiomicsSeries":                 basicSeriesTitle,
	"OrganismDevelopmentSeries":        organismDevelopmentSeriesTitle,
	"PulseChaseTimeSeries":             basicSeriesTitle,
	"ReferenceEpigenome":               basicSeriesTitle,
	"ReplicationTimingSeries":          basicSeriesTitle,
	"SingleCellRnaSeries":              basicSeriesTitle,
	"TreatmentConcentrationSeries":     treatmentConcentrationSeriesTitle,
	"TreatmentTimeSeries":              treatmentTimeSeriesTitle,
}

// SeriesTitle composes the title and subtitle of a series table from the
// related dataset its analysis belongs to. It reports false for series
// types without a composer.
func SeriesTitle(seriesType string, rd *record.RelatedDataset) (title, subtitle string, ok bool) {
	compose, ok := seriesComposers[seriesType]
	if !ok || rd == nil {
		return "", "", false
	}
	title, subtitle = compose(rd)
	return title, subtitle, true
}

func targetLabel(rd *record.RelatedDataset) string {
	if rd.Target == nil {
		return ""
	}
	return rd.Target.Label
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// basicSeriesTitle puts the assay before the target.
func basicSeriesTitle(rd *record.RelatedDataset) (string, string) {
	return joinNonEmpty(
		rd.Accession,
		truncateWords(rd.AssayTermName, MaxSeriesAssayLen),
		targetLabel(rd),
		strings.Join(rd.Assembly, ", "),
	), ""
}

// commonSeriesTitle puts the target before the assay.
func commonSeriesTitle(rd *record.RelatedDataset) string {
	return joinNonEmpty(
		rd.Accession,
		targetLabel(rd),
		truncateWords(rd.AssayTermName, MaxSeriesAssayLen),
		strings.Join(rd.Assembly, ", "),
	)
}

func diseaseSeriesTitle(rd *record.RelatedDataset) (string, string) {
	seen := make(map[string]bool)
	var diseases []string
	for _, b := range rd.Biosamples() {
		for _, d := range b.DiseaseTermName {
			if !seen[d] {
				seen[d] = true
				diseases = append(diseases, d)
			}
		}
	}
	if len(diseases) == 0 {
		return commonSeriesTitle(rd), "Non-diseased samples"
	}
	sort.Strings(diseases)
	return commonSeriesTitle(rd), strings.Join(diseases, ", ")
}

func functionalCharacterizationSeriesTitle(rd *record.RelatedDataset) (string, string) {
	loci := make([]string, 0, len(rd.ExaminedLoci))
	method := ""
	for _, l := range rd.ExaminedLoci {
		if s := formatLocus(l); s != "" {
			loci = append(loci, s)
		}
		if method == "" {
			method = l.ExpressionMeasurementMethod
		}
	}
	return commonSeriesTitle(rd), joinNonEmpty(strings.Join(loci, ", "), method)
}

// formatLocus renders a locus as its gene symbol with the expression
// percentile or range, e.g. "GATA1 (95th percentile)" or "MYC (10-20%)".
func formatLocus(l record.ExaminedLocus) string {
	symbol := ""
	if l.Gene != nil {
		symbol = l.Gene.Symbol
	}
	switch {
	case l.ExpressionPercentile != nil:
		return symbol + " (" + formatNumber(*l.ExpressionPercentile) + "th percentile)"
	case l.ExpressionRangeMinimum != nil && l.ExpressionRangeMaximum != nil:
		return symbol + " (" + formatNumber(*l.ExpressionRangeMinimum) + "-" + formatNumber(*l.ExpressionRangeMaximum) + "%)"
	default:
		return symbol
	}
}

func geneSilencingSeriesTitle(rd *record.RelatedDataset) (string, string) {
	target := targetLabel(rd)
	if target == "" {
		target = "(control)"
	}
	return commonSeriesTitle(rd), target
}

func organismDevelopmentSeriesTitle(rd *record.RelatedDataset) (string, string) {
	seen := make(map[string]bool)
	var stages []string
	for _, b := range rd.Biosamples() {
		s := joinNonEmpty(b.LifeStage, b.AgeDisplay)
		if b.AgeUnits == "year" {
			s = b.AgeDisplay
		}
		if s != "" && !seen[s] {
			seen[s] = true
			stages = append(stages, s)
		}
	}
	if len(stages) == 0 {
		return commonSeriesTitle(rd), "unknown"
	}
	return commonSeriesTitle(rd), strings.Join(stages, ", ")
}

// treatmentConcentrationSeriesTitle reads the first treatment of the first
// biosample only.
func treatmentConcentrationSeriesTitle(rd *record.RelatedDataset) (string, string) {
	concentration := "No treatment"
	if biosamples := rd.Biosamples(); len(biosamples) > 0 && len(biosamples[0].Treatments) > 0 {
		if t := biosamples[0].Treatments[0]; t.Amount != 0 {
			concentration = t.TermName + " " + formatNumber(t.Amount) + " " + t.AmountUnits
		}
	}
	return commonSeriesTitle(rd), concentration
}

func treatmentTimeSeriesTitle(rd *record.RelatedDataset) (string, string) {
	seen := make(map[string]bool)
	var durations []string
	for _, b := range rd.Biosamples() {
		if len(b.Treatments) == 0 {
			continue
		}
		t := b.Treatments[0]
		s := t.TermName + " " + formatNumber(t.Duration) + " " + t.DurationUnits
		if t.Duration > 1 {
			s += "s"
		}
		if !seen[s] {
			seen[s] = true
			durations = append(durations, s)
		}
	}
	if len(durations) == 0 {
		return commonSeriesTitle(rd), "No treatments"
	}
	return commonSeriesTitle(rd), strings.Join(durations, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncateWords shortens s to under maxLen characters at a word boundary
// and appends an ellipsis. A single long word is cut mid-word.
func truncateWords(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	cut := []rune(strings.TrimSpace(s))
	if len(cut) > maxLen-1 {
		cut = cut[:maxLen-1]
	}
	short := string(cut)
	if i := strings.LastIndex(short, " "); i >= 0 {
		short = short[:i]
	}
	return short + "…"
}
