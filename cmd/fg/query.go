package main

import (
	"fmt"

	"github.com/encoded/filegallery/internal/storage"
	"github.com/spf13/cobra"
)

// DefaultQueryLimit caps query results unless --limit says otherwise.
const DefaultQueryLimit = 50

var queryFilter storage.FileFilter

func init() {
	f := queryCmd.Flags()
	f.StringVarP(&viewOpts.dataset, "dataset", "d", "", "Dataset accession (default: the only fetched dataset)")
	f.StringVarP(&queryFilter.Assembly, "assembly", "a", "", "Genome assembly, e.g. GRCh38")
	f.StringVar(&queryFilter.GenomeAnnotation, "annotation", "", "Genome annotation, e.g. V29")
	f.StringVar(&queryFilter.FileType, "file-type", "", "File type, e.g. bam or bed narrowPeak")
	f.StringVar(&queryFilter.OutputType, "output-type", "", "Output type, e.g. signal p-value")
	f.StringVar(&queryFilter.OutputCategory, "output-category", "", "Output category, e.g. raw data")
	f.StringVar(&queryFilter.Status, "status", "", "File status, e.g. released")
	f.StringVar(&queryFilter.Replicates, "replicates", "", `Biological replicates, e.g. "1" or "1, 2"`)
	f.IntVarP(&queryFilter.Limit, "limit", "n", DefaultQueryLimit, "Maximum results (0 for all)")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the cached files of a dataset",
	Long: `Query the files of a fetched dataset, including its related files, by
their metadata. All given filters must match.

Examples:
  # Released bam files on GRCh38
  fg query --assembly GRCh38 --file-type bam --status released

  # Files of replicate 1 only
  fg query --replicates 1`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	acc, path := mustResolveSnapshot(root)
	if cfg := mustLoadConfig(root); !cmd.Flags().Changed("limit") && cfg.MaxFiles > 0 {
		queryFilter.Limit = cfg.MaxFiles
	}

	db := mustOpenDatabase(root)
	defer db.Close()
	if err := ensureIndexed(db, acc, path); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	files, err := db.QueryFiles(acc, queryFilter)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if !humanOutput {
		if files == nil {
			return outputJSON([]struct{}{})
		}
		return outputJSON(files)
	}
	if len(files) == 0 {
		fmt.Println("No files found")
		return nil
	}
	printFilesHuman(files, "")
	fmt.Printf("\n%d files\n", len(files))
	return nil
}
