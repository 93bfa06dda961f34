package main

import (
	"fmt"
	"os"

	"github.com/encoded/filegallery/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new file gallery workspace",
	Long: `Initialize a new file gallery workspace in the current directory.

Creates:
  .fg/
  ├── config.json     # Default config
  ├── datasets/       # Fetched dataset snapshots
  └── cache/          # Query database and audits (safe to delete)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsWorkspace(root) {
		exitWithError(ExitError, "directory already contains a file gallery workspace")
	}
	if err := config.Init(root); err != nil {
		exitWithError(ExitError, "initializing workspace: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized file gallery workspace in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}
	return nil
}
