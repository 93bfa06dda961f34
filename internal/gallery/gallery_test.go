package gallery

import (
	"github.com/encoded/filegallery/internal/record"
)

const testDataset = "/experiments/ENCSR000GAL/"

func alignStep() *record.StepVersion {
	return &record.StepVersion{ID: "/sv/align/", Step: &record.Step{ID: "/analysis-steps/align/", StepTypes: []string{"alignment"}}}
}

func signalStep() *record.StepVersion {
	return &record.StepVersion{ID: "/sv/signal/", Step: &record.Step{ID: "/analysis-steps/signal/", StepTypes: []string{"signal generation"}}}
}

// galleryFiles are reads R1 aligned to GRCh38 (B1) and mm10 (B2), a GRCh38
// signal W1 from B1, and an archived GRCh38 signal X1.
func galleryFiles() []record.File {
	return []record.File{
		{ID: "/files/R1/", Accession: "R1", Title: "R1", FileType: "fastq", OutputType: "reads", OutputCategory: "raw data",
			Dataset: testDataset, BiologicalReplicates: []int{1}, Status: "released"},
		{ID: "/files/B1/", Accession: "B1", Title: "B1", FileType: "bam", FileFormat: "bam", OutputType: "alignments", Assembly: "GRCh38",
			Dataset: testDataset, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/R1/"}, StepVersion: alignStep(), Status: "released"},
		{ID: "/files/B2/", Accession: "B2", Title: "B2", FileType: "bam", FileFormat: "bam", OutputType: "alignments", Assembly: "mm10",
			Dataset: testDataset, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/R1/"}, StepVersion: alignStep(), Status: "released"},
		{ID: "/files/W1/", Accession: "W1", Title: "W1", FileType: "bigWig", FileFormat: "bigWig", OutputType: "signal", Assembly: "GRCh38",
			Dataset: testDataset, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/B1/"}, StepVersion: signalStep(), Status: "released"},
		{ID: "/files/X1/", Accession: "X1", Title: "X1", FileType: "bigWig", FileFormat: "bigWig", OutputType: "signal", Assembly: "GRCh38",
			Dataset: testDataset, BiologicalReplicates: []int{1}, DerivedFrom: record.Links{"/files/B1/"}, StepVersion: signalStep(), Status: "archived"},
	}
}

func galleryDataset() *record.Dataset {
	return &record.Dataset{
		ID:        testDataset,
		Accession: "ENCSR000GAL",
		Type:      []string{"Experiment", "Dataset"},
		Status:    "released",
		Analyses: []record.Analysis{
			{ID: "/analyses/ENCAN001AAA/", Accession: "ENCAN001AAA", Title: "ENCODE4 GRCh38", Status: "released",
				Assembly: "GRCh38", Files: record.Links{"/files/B1/", "/files/W1/", "/files/X1/"}},
			{ID: "/analyses/ENCAN002AAA/", Accession: "ENCAN002AAA", Title: "ENCODE4 mm10", Status: "released",
				Assembly: "mm10", Files: record.Links{"/files/B2/"}},
		},
		Files:     galleryFiles(),
		Visualize: record.Visualize{"GRCh38": {"UCSC", "Ensembl"}},
	}
}

// loaded returns the state after the dataset and its files arrive.
func loaded(caps Capabilities) State {
	s := NewState(caps)
	s = Reduce(s, DataLoaded{Parts: PartDataset, Dataset: galleryDataset()})
	return Reduce(s, DataLoaded{Parts: PartFiles | PartRelated, Files: galleryFiles()})
}

func ids(files []record.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Accession
	}
	return out
}
