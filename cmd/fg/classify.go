package main

import (
	"fmt"

	"github.com/encoded/filegallery/internal/gallery"
	"github.com/spf13/cobra"
)

func init() {
	addViewFlags(classifyCmd, false)
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Sort the files of a dataset into gallery tables",
	Long: `Sort the files of a fetched dataset into the tables of the file gallery:
raw sequencing files (paired by run), raw array files, reference files,
cloning mappings, and processed files per analysis.

Facet filters narrow the files before they are sorted.`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	s := mustLoadState(gallery.TabTables)
	tables, err := gallery.TableView(s)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(tables)
	}

	if raw := tables.RawSequencing; raw != nil && (len(raw.Paired) > 0 || len(raw.Unpaired) > 0) {
		fmt.Println("Raw sequencing data")
		for _, group := range raw.Paired {
			fmt.Printf("  %s\n", group.Key)
			printFilesHuman(group.Files, "    ")
		}
		printFilesHuman(raw.Unpaired, "  ")
	}
	if arr := tables.RawArray; arr != nil && (len(arr.Grouped) > 0 || len(arr.NonGrouped) > 0) {
		fmt.Println("Raw data")
		for _, group := range arr.Grouped {
			fmt.Printf("  %s\n", group.Key)
			printFilesHuman(group.Files, "    ")
		}
		printFilesHuman(arr.NonGrouped, "  ")
	}
	if len(tables.Reference) > 0 {
		fmt.Println("Reference data")
		printFilesHuman(tables.Reference, "  ")
	}
	if len(tables.CloningMappings) > 0 {
		fmt.Println("Cloning mappings")
		printFilesHuman(tables.CloningMappings, "  ")
	}
	for _, t := range tables.Processed {
		fmt.Println(t.Title)
		if t.Subtitle != "" {
			fmt.Printf("  %s\n", t.Subtitle)
		}
		printFilesHuman(t.Files, "  ")
	}
	fmt.Printf("\n%d downloadable files\n", tables.Downloadable)
	return nil
}
