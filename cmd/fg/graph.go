package main

import (
	"fmt"
	"os"

	"github.com/encoded/filegallery/internal/gallery"
	"github.com/spf13/cobra"
)

func init() {
	addViewFlags(graphCmd, false)
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Assemble the derivation graph of the selected analysis",
	Long: `Assemble the file derivation graph of a fetched dataset for the selected
assembly and analysis: files, the analysis steps that produced them, and
their quality metrics.

When the selection has no file relationships, the graph is reported as not
applicable and the command exits with status 4.`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	s := mustLoadState(gallery.TabGraph)
	result, err := gallery.GraphView(s)
	if err != nil {
		exitWithError(ExitDataError, "assembling graph: %v", err)
	}

	if humanOutput {
		if result.NotApplicable {
			fmt.Println(result.Message)
		} else {
			fmt.Printf("Graph of %d files for %s: %d nodes, %d edges\n",
				result.FileCount, result.Assembly, len(result.Graph.Nodes()), len(result.Graph.Edges()))
		}
	} else {
		outputJSON(result)
	}

	if result.NotApplicable {
		os.Exit(ExitNoGraph)
	}
	return nil
}
