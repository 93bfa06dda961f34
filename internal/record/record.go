// Package record defines the portal metadata the file gallery works on:
// files, analyses, datasets, quality metrics, and analysis steps.
package record

import (
	"strings"
)

// Output categories and file types the gallery dispatches on.
const (
	CategoryRawData   = "raw data"
	CategoryReference = "reference"

	FileTypeFastq = "fastq"

	FormatBigWig = "bigWig"
	FormatBigBed = "bigBed"

	OutputReads      = "reads"
	OutputIndexReads = "index reads"
)

// InclusionStatuses are hidden from tables and graphs unless the user opts in.
var InclusionStatuses = []string{"archived", "revoked", "deleted", "replaced"}

// Library is the part of a replicate's library the gallery reads.
type Library struct {
	Accession string     `json:"accession,omitempty"`
	Biosample *Biosample `json:"biosample,omitempty"`
}

// Biosample is the biosample of a library, as embedded in series related
// datasets.
type Biosample struct {
	ID              string      `json:"@id"`
	DiseaseTermName []string    `json:"disease_term_name,omitempty"`
	LifeStage       string      `json:"life_stage,omitempty"`
	AgeDisplay      string      `json:"age_display,omitempty"`
	AgeUnits        string      `json:"age_units,omitempty"`
	Treatments      []Treatment `json:"treatments,omitempty"`
}

// Treatment is a biosample treatment.
type Treatment struct {
	TermName      string  `json:"treatment_term_name,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	AmountUnits   string  `json:"amount_units,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	DurationUnits string  `json:"duration_units,omitempty"`
}

// Replicate is the embedded replicate of a file.
type Replicate struct {
	Library *Library `json:"library,omitempty"`
}

// Lab is the submitting lab.
type Lab struct {
	Title string `json:"title,omitempty"`
}

// File is a single file record from the portal.
type File struct {
	ID                   string          `json:"@id"`
	Accession            string          `json:"accession,omitempty"`
	Title                string          `json:"title,omitempty"`
	FileType             string          `json:"file_type,omitempty"`
	FileFormat           string          `json:"file_format,omitempty"`
	OutputType           string          `json:"output_type,omitempty"`
	OutputCategory       string          `json:"output_category,omitempty"`
	Assembly             string          `json:"assembly,omitempty"`
	GenomeAnnotation     string          `json:"genome_annotation,omitempty"`
	BiologicalReplicates []int           `json:"biological_replicates,omitempty"`
	DerivedFrom          Links           `json:"derived_from,omitempty"`
	PairedWith           string          `json:"paired_with,omitempty"`
	PairedEnd            string          `json:"paired_end,omitempty"`
	RunType              string          `json:"run_type,omitempty"`
	Status               string          `json:"status,omitempty"`
	Dataset              string          `json:"dataset,omitempty"`
	StepVersion          *StepVersion    `json:"analysis_step_version,omitempty"`
	QualityMetrics       []QualityMetric `json:"quality_metrics,omitempty"`
	PreferredDefault     bool            `json:"preferred_default,omitempty"`
	IndexOf              Links           `json:"index_of,omitempty"`
	Replicate            *Replicate      `json:"replicate,omitempty"`
	Analyses             Links           `json:"analyses,omitempty"`
	Restricted           bool            `json:"restricted,omitempty"`
	NoFileAvailable      bool            `json:"no_file_available,omitempty"`
	Lab                  *Lab            `json:"lab,omitempty"`
	DateCreated          string          `json:"date_created,omitempty"`
	FileSize             int64           `json:"file_size,omitempty"`
	AssayTermName        string          `json:"assay_term_name,omitempty"`
}

// Step returns the analysis step that produced the file, or nil.
func (f *File) Step() *Step {
	if f.StepVersion == nil {
		return nil
	}
	return f.StepVersion.Step
}

// LibraryAccession returns the accession of the file's replicate library, or "".
func (f *File) LibraryAccession() string {
	if f.Replicate == nil || f.Replicate.Library == nil {
		return ""
	}
	return f.Replicate.Library.Accession
}

// SingleReplicate returns the file's biological replicate number when it has
// exactly one.
func (f *File) SingleReplicate() (int, bool) {
	if len(f.BiologicalReplicates) != 1 {
		return 0, false
	}
	return f.BiologicalReplicates[0], true
}

// IsRawData reports whether the file is raw data.
func (f *File) IsRawData() bool {
	return f.OutputCategory == CategoryRawData
}

// IsVisualizable reports whether a genome browser can show the file.
func (f *File) IsVisualizable() bool {
	return (f.FileFormat == FormatBigWig || f.FileFormat == FormatBigBed) && f.Status == "released"
}

// HasInclusionStatus reports whether the file's status is normally hidden.
func (f *File) HasInclusionStatus() bool {
	for _, s := range InclusionStatuses {
		if f.Status == s {
			return true
		}
	}
	return false
}

// StatusClass converts the file's status into a CSS-safe token,
// e.g. "in progress" becomes "in-progress".
func (f *File) StatusClass() string {
	return strings.ReplaceAll(strings.ToLower(f.Status), " ", "-")
}

// QualityMetric is a QC object attached to a file.
type QualityMetric struct {
	ID     string   `json:"@id"`
	Type   []string `json:"@type,omitempty"`
	Status string   `json:"status,omitempty"`
}

// PrimaryType returns the most specific type of the metric.
func (q QualityMetric) PrimaryType() string {
	if len(q.Type) == 0 {
		return ""
	}
	return q.Type[0]
}

// StepVersion wraps the analysis step a file was produced by.
type StepVersion struct {
	ID   string `json:"@id,omitempty"`
	Step *Step  `json:"analysis_step,omitempty"`
}

// Step is an analysis step within a pipeline.
type Step struct {
	ID        string   `json:"@id"`
	StepTypes []string `json:"analysis_step_types,omitempty"`
	Pipelines Links    `json:"pipelines,omitempty"`
}

// Analysis groups the files a pipeline run produced.
type Analysis struct {
	ID                string   `json:"@id"`
	Accession         string   `json:"accession,omitempty"`
	Title             string   `json:"title,omitempty"`
	Status            string   `json:"status,omitempty"`
	Assembly          string   `json:"assembly,omitempty"`
	GenomeAnnotation  string   `json:"genome_annotation,omitempty"`
	PipelineAwardRfas []string `json:"pipeline_award_rfas,omitempty"`
	PipelineVersion   string   `json:"pipeline_version,omitempty"`
	Files             Links    `json:"files,omitempty"`
	Datasets          Links    `json:"datasets,omitempty"`
}

// PipelineAwardRfa returns the first award RFA of the analysis pipeline.
func (a *Analysis) PipelineAwardRfa() string {
	if len(a.PipelineAwardRfas) == 0 {
		return ""
	}
	return a.PipelineAwardRfas[0]
}

// ElementReference carries reference files for functional characterization
// datasets.
type ElementReference struct {
	Files []File `json:"files,omitempty"`
}

// Target is an assay target.
type Target struct {
	Label string `json:"label,omitempty"`
}

// Gene is the gene of an examined locus.
type Gene struct {
	Symbol string `json:"symbol,omitempty"`
}

// ExaminedLocus is a locus a functional characterization assay examined.
// Expression values are pointers because zero is a meaningful value.
type ExaminedLocus struct {
	Gene                        *Gene    `json:"gene,omitempty"`
	ExpressionPercentile        *float64 `json:"expression_percentile,omitempty"`
	ExpressionRangeMinimum      *float64 `json:"expression_range_minimum,omitempty"`
	ExpressionRangeMaximum      *float64 `json:"expression_range_maximum,omitempty"`
	ExpressionMeasurementMethod string   `json:"expression_measurement_method,omitempty"`
}

// ElementsDataset is a cloning or mappings dataset and its file @ids.
type ElementsDataset struct {
	ID    string `json:"@id"`
	Files Links  `json:"files,omitempty"`
}

// RelatedDataset is a member dataset of a series.
type RelatedDataset struct {
	ID               string           `json:"@id"`
	Type             []string         `json:"@type,omitempty"`
	Accession        string           `json:"accession,omitempty"`
	Target           *Target          `json:"target,omitempty"`
	AssayTermName    string           `json:"assay_term_name,omitempty"`
	Assembly         []string         `json:"assembly,omitempty"`
	Replicates       []Replicate      `json:"replicates,omitempty"`
	ExaminedLoci     []ExaminedLocus  `json:"examined_loci,omitempty"`
	ElementsCloning  ElementsDatasets `json:"elements_cloning,omitempty"`
	ElementsMappings ElementsDatasets `json:"elements_mappings,omitempty"`
}

// Biosamples returns the biosamples of all replicate libraries, each
// biosample once.
func (r *RelatedDataset) Biosamples() []Biosample {
	seen := make(map[string]bool)
	var out []Biosample
	for _, rep := range r.Replicates {
		if rep.Library == nil || rep.Library.Biosample == nil {
			continue
		}
		b := rep.Library.Biosample
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		out = append(out, *b)
	}
	return out
}

// Dataset is an experiment, annotation, series, or other file-bearing object.
type Dataset struct {
	ID                 string             `json:"@id"`
	Type               []string           `json:"@type,omitempty"`
	Accession          string             `json:"accession,omitempty"`
	Status             string             `json:"status,omitempty"`
	AssayTermName      string             `json:"assay_term_name,omitempty"`
	ContributingFiles  Links              `json:"contributing_files,omitempty"`
	RelatedFiles       Links              `json:"related_files,omitempty"`
	Analyses           []Analysis         `json:"analyses,omitempty"`
	Files              []File             `json:"files,omitempty"`
	ElementsReferences []ElementReference `json:"elements_references,omitempty"`
	Visualize          Visualize          `json:"visualize,omitempty"`
	RelatedDatasets    []RelatedDataset   `json:"related_datasets,omitempty"`
}

// RelatedDatasetFor returns the first related dataset among the given
// dataset @ids, or nil.
func (d *Dataset) RelatedDatasetFor(ids Links) *RelatedDataset {
	for i := range d.RelatedDatasets {
		if ids.Contains(d.RelatedDatasets[i].ID) {
			return &d.RelatedDatasets[i]
		}
	}
	return nil
}

// ElementsDatasets returns the cloning datasets, then the mappings
// datasets, of all related datasets.
func (d *Dataset) ElementsDatasets() []ElementsDataset {
	var cloning, mappings []ElementsDataset
	for _, rd := range d.RelatedDatasets {
		cloning = append(cloning, rd.ElementsCloning...)
		mappings = append(mappings, rd.ElementsMappings...)
	}
	return append(cloning, mappings...)
}

// ElementsFileIDs returns the @ids of all cloning and mappings files,
// each once.
func (d *Dataset) ElementsFileIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ed := range d.ElementsDatasets() {
		for _, id := range ed.Files {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// HasType reports whether the dataset carries the given @type.
func (d *Dataset) HasType(t string) bool {
	for _, dt := range d.Type {
		if dt == t {
			return true
		}
	}
	return false
}

// IsSeries reports whether the dataset is any kind of series.
func (d *Dataset) IsSeries() bool {
	for _, dt := range d.Type {
		if strings.Contains(dt, "Series") {
			return true
		}
	}
	return false
}

// IsReference reports whether the dataset is a Reference of any casing.
func (d *Dataset) IsReference() bool {
	for _, dt := range d.Type {
		if strings.EqualFold(dt, "reference") {
			return true
		}
	}
	return false
}

// IsFunctionalCharacterization reports whether the dataset is a functional
// characterization experiment or series.
func (d *Dataset) IsFunctionalCharacterization() bool {
	return d.HasType("FunctionalCharacterizationExperiment") || d.HasType("FunctionalCharacterizationSeries")
}

// ElementReferenceFiles flattens the files of all element references.
func (d *Dataset) ElementReferenceFiles() []File {
	var files []File
	for _, ref := range d.ElementsReferences {
		files = append(files, ref.Files...)
	}
	return files
}

// AccessionFromID extracts the last non-empty path segment of an @id,
// e.g. "/files/ENCFF001AAA/" yields "ENCFF001AAA".
func AccessionFromID(id string) string {
	parts := strings.Split(id, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}

// IndexByID maps file @ids to the files, first occurrence winning.
func IndexByID(files []File) map[string]*File {
	byID := make(map[string]*File, len(files))
	for i := range files {
		if _, ok := byID[files[i].ID]; !ok {
			byID[files[i].ID] = &files[i]
		}
	}
	return byID
}

// Dedupe removes files with repeated @ids, keeping the first occurrence.
func Dedupe(files []File) []File {
	seen := make(map[string]bool, len(files))
	out := make([]File, 0, len(files))
	for _, f := range files {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out
}

// WithoutInclusionStatuses drops files whose status is normally hidden.
func WithoutInclusionStatuses(files []File) []File {
	out := make([]File, 0, len(files))
	for _, f := range files {
		if !f.HasInclusionStatus() {
			out = append(out, f)
		}
	}
	return out
}

// Visualizable returns the files a genome browser can show.
func Visualizable(files []File) []File {
	var out []File
	for _, f := range files {
		if f.IsVisualizable() {
			out = append(out, f)
		}
	}
	return out
}
