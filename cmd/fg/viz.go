package main

import (
	"fmt"
	"os"

	"github.com/encoded/filegallery/internal/gallery"
	"github.com/encoded/filegallery/internal/viz"
	"github.com/spf13/cobra"
)

var vizOutput string
var vizLayout string

func init() {
	addViewFlags(vizCmd, false)
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "dag", "Layout algorithm: dag, force, or grid")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Render the derivation graph as an HTML page",
	Long: `Render the derivation graph of the selected analysis as an interactive
HTML page.

Files are rectangles, coloured by status when colorize is set in the config.
Analysis steps are rounded boxes and quality metrics hang off their files.
Without file relationships the page shows a notice instead of a graph.

Examples:
  # Generate HTML to stdout
  fg viz > graph.html

  # Graph of the GRCh38 analysis, written to a file
  fg viz --assembly GRCh38 --output graph.html

  # Force-directed layout
  fg viz --layout force --output graph.html`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	s := mustLoadState(gallery.TabGraph)
	result, err := gallery.GraphView(s)
	if err != nil {
		exitWithError(ExitDataError, "assembling graph: %v", err)
	}

	opts := viz.HTMLOptions{Layout: vizLayout}
	var data *viz.GraphData
	if result.NotApplicable {
		data = &viz.GraphData{Title: s.Dataset().Accession, Nodes: []viz.Node{}, Edges: []viz.Edge{}}
		opts.Message = result.Message
	} else {
		data = viz.FromGraph(result.Graph)
	}

	html, err := viz.GenerateHTML(data, opts)
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(vizOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if !humanOutput {
		fmt.Printf("{\"output\":\"%s\"}\n", vizOutput)
	} else {
		fmt.Printf("Visualization written to %s\n", vizOutput)
	}
	return nil
}
