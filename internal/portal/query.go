package portal

import (
	"strings"
)

// FileColumns are the fields requested for a dataset's files. The list is
// what the portal's file search expects, duplicate entry included.
var FileColumns = []string{
	"title",
	"accession",
	"dataset",
	"assembly",
	"technical_replicates",
	"biological_replicates",
	"file_format",
	"file_type",
	"file_format_type",
	"file_format_type",
	"file_size",
	"assay_term_name",
	"biosample_ontology.term_name",
	"biosample_ontology.organ_slims",
	"simple_biosample_summary",
	"origin_batches",
	"target.label",
	"href",
	"derived_from",
	"genome_annotation",
	"replicate.library.accession",
	"paired_end",
	"paired_with",
	"preferred_default",
	"run_type",
	"read_length",
	"mapped_read_length",
	"cropped_read_length",
	"cropped_read_length_tolerance",
	"mapped_run_type",
	"read_length_units",
	"output_category",
	"output_type",
	"index_of",
	"quality_metrics",
	"lab.title",
	"award.project",
	"step_run",
	"date_created",
	"analyses",
	"analysis_step_version",
	"restricted",
	"submitter_comment",
	"status",
	"annotation_type",
	"annotation_subtype",
	"biochemical_inputs",
	"encyclopedia_version",
}

// Search suffixes for batched object requests.
const (
	AnalysisAuditSearch = "/search/?type=Analysis&field=audit"
	FileSearch          = "/search/?type=File&limit=all"
)

// FileQuery returns the search query for the files of a dataset.
func FileQuery(datasetID string) string {
	fields := make([]string, len(FileColumns))
	for i, col := range FileColumns {
		fields[i] = "field=" + col
	}
	return "limit=all&type=File&dataset=" + datasetID + "&" + strings.Join(fields, "&")
}
