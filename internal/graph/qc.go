package graph

import "github.com/encoded/filegallery/internal/record"

var qcAbbreviations = map[string]string{
	"AtacAlignmentQualityMetric":             "AL",
	"AtacAlignmentEnrichmentQualityMetric":   "AE",
	"AtacLibraryQualityMetric":               "LB",
	"AtacPeakEnrichmentQualityMetric":        "PE",
	"AtacReplicationQualityMetric":           "RP",
	"BigwigcorrelateQualityMetric":           "BC",
	"BismarkQualityMetric":                   "BK",
	"BpnetQualityMetric":                     "BP",
	"ChipAlignmentQualityMetric":             "AL",
	"ChipAlignmentEnrichmentQualityMetric":   "AE",
	"ChipLibraryQualityMetric":               "LB",
	"ChipPeakEnrichmentQualityMetric":        "PE",
	"ChipReplicationQualityMetric":           "RP",
	"ChipSeqFilterQualityMetric":             "CF",
	"ComplexityXcorrQualityMetric":           "CX",
	"CorrelationQualityMetric":               "CN",
	"CpgCorrelationQualityMetric":            "CC",
	"DnaseAlignmentQualityMetric":            "DA",
	"DuplicatesQualityMetric":                "DS",
	"EdwbamstatsQualityMetric":               "EB",
	"FilteringQualityMetric":                 "FG",
	"GeneQuantificationQualityMetric":        "GQ",
	"GenericQualityMetric":                   "GN",
	"GeneTypeQuantificationQualityMetric":    "GT",
	"HistoneChipSeqQualityMetric":            "HC",
	"HotspotQualityMetric":                   "HS",
	"IDRQualityMetric":                       "ID",
	"IdrSummaryQualityMetric":                "IS",
	"MadQualityMetric":                       "MD",
	"SamtoolsFlagstatsQualityMetric":         "SF",
	"SamtoolsStatsQualityMetric":             "SS",
	"StarQualityMetric":                      "SR",
	"TrimmingQualityMetric":                  "TG",
	"MicroRnaMappingQualityMetric":           "MM",
	"MicroRnaQuantificationQualityMetric":    "MQ",
	"LongReadRnaMappingQualityMetric":        "LM",
	"LongReadRnaQuantificationQualityMetric": "LQ",
	"GembsAlignmentQualityMetric":            "AL",
	"DnaseFootprintingQualityMetric":         "DF",
	"ChiaPetAlignmentQualityMetric":          "AL",
	"ChiaPetChrInteractionsQualityMetric":    "CI",
	"ChiaPetPeakEnrichmentQualityMetric":     "PE",
	"ScAtacAlignmentQualityMetric":           "AL",
	"ScAtacReadQualityMetric":                "RQ",
	"ScAtacMultipletQualityMetric":           "MQ",
	"ScAtacLibraryComplexityQualityMetric":   "LC",
	"ScAtacAnalysisQualityMetric":            "AQ",
	"ScAtacCountsSummaryQualityMetric":       "CS",
}

// QCAbbreviation returns the two-letter label drawn for a quality metric.
func QCAbbreviation(qc record.QualityMetric) string {
	if abbr, ok := qcAbbreviations[qc.PrimaryType()]; ok {
		return abbr
	}
	return "QC"
}
