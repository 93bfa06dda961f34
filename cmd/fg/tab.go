package main

import (
	"fmt"

	"github.com/encoded/filegallery/internal/gallery"
	"github.com/spf13/cobra"
)

func init() {
	addViewFlags(tabCmd, true)
	rootCmd.AddCommand(tabCmd)
}

var tabCmd = &cobra.Command{
	Use:   "tab",
	Short: "Show the gallery state and the selected tab",
	Long: `Replay the selections given as flags against a fetched dataset and show
the resulting gallery state with the content of the selected tab.

Without --tab the tab is chosen from the files: the genome browser when any
file can be visualized, the graph when any file came out of an analysis
step, and the tables otherwise.

Examples:
  # The browser tab with the Ensembl browser
  fg tab --tab browser --browser Ensembl

  # The graph of a specific analysis, highlighting bam files
  fg tab --tab graph --analysis ENCAN123ABC --filter file_type=bam`,
	Args: cobra.NoArgs,
	RunE: runTab,
}

// TabResult is the response for the tab command. Only the selected tab's
// view is set.
type TabResult struct {
	State   gallery.State        `json:"state"`
	Tables  *gallery.Tables      `json:"tables,omitempty"`
	Graph   *gallery.GraphResult `json:"graph,omitempty"`
	Browser *gallery.Browser     `json:"browser,omitempty"`
}

func runTab(cmd *cobra.Command, args []string) error {
	s := mustLoadState("")
	result := TabResult{State: s}

	var err error
	switch s.Tab {
	case gallery.TabTables:
		result.Tables, err = gallery.TableView(s)
	case gallery.TabGraph:
		result.Graph, err = gallery.GraphView(s)
	case gallery.TabBrowser:
		result.Browser = gallery.BrowserView(s)
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(result)
	}

	fmt.Printf("Tab:       %s\n", s.Tab)
	fmt.Printf("Assembly:  %s\n", s.Filters.Assembly())
	if sel := s.Selected(); sel != nil {
		fmt.Printf("Analysis:  %s\n", sel.Title)
	}
	fmt.Printf("Inclusion: %t\n", s.Inclusion)
	switch {
	case result.Tables != nil:
		fmt.Printf("Tables:    %d processed, %d downloadable files\n", len(result.Tables.Processed), result.Tables.Downloadable)
	case result.Graph != nil && result.Graph.NotApplicable:
		fmt.Printf("Graph:     %s\n", result.Graph.Message)
	case result.Graph != nil:
		fmt.Printf("Graph:     %d nodes, %d edges\n", len(result.Graph.Graph.Nodes()), len(result.Graph.Graph.Edges()))
	case result.Browser != nil:
		fmt.Printf("Browser:   %s (%s)\n", result.Browser.Browser, formatIDList(result.Browser.Browsers))
		printFilesHuman(result.Browser.Files, "  ")
	}
	return nil
}
