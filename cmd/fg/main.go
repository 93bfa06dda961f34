// Package main provides the fg CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/encoded/filegallery/internal/config"
	"github.com/encoded/filegallery/internal/logging"
	"github.com/encoded/filegallery/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// debugLogging turns on debug-level logs on stderr
var debugLogging bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fg",
	Short: "ENCODE file gallery CLI",
	Long: `fg fetches ENCODE datasets and renders their file gallery offline.

Core features:
  - File tables: raw, reference, and per-analysis processed files
  - Analysis chooser with assembly/annotation ranking
  - Derivation graph of processing steps, as JSON or an HTML page
  - Facets, genome browser selection, and portal search queries

Fetched datasets are stored as JSONL snapshots with an ephemeral SQLite
cache for queries. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Options{Debug: debugLogging})
		cwd, _ := os.Getwd()
		config.LoadEnv(cwd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Log debug messages to stderr")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a workspace.
// Checks the global config workspace first, then the current working directory.
func getStartingDirectory() (string, int) {
	gc, err := config.LoadGlobalConfig()
	if err != nil {
		return "", outputError(ExitConfigError, "%v", err)
	}
	if gc.Workspace != "" {
		return gc.Workspace, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindWorkspace finds the workspace root, exits on error.
func mustFindWorkspace() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindWorkspace(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return root
}

// mustOpenDatabase opens the SQLite cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads the workspace configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadGlobalConfig loads the user configuration, exits on error.
func mustLoadGlobalConfig() *config.GlobalConfig {
	gc, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return gc
}
