package main

import (
	"fmt"
	"os"

	"github.com/encoded/filegallery/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from the snapshots",
	Long: `Rebuild the SQLite query database from the dataset snapshots.

Use this after copying snapshots into the workspace or if the database
becomes corrupted.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status   string `json:"status"`
	Datasets int    `json:"datasets"`
	Files    int    `json:"files"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db := mustOpenDatabase(root)
	defer db.Close()

	datasets, files, err := db.RebuildFromDir(config.DatasetsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d datasets and %d files\n", datasets, files)
	} else {
		outputJSON(RebuildResult{
			Status:   "rebuilt",
			Datasets: datasets,
			Files:    files,
		})
	}
	return nil
}
