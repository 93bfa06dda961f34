package main

import (
	"fmt"

	"github.com/encoded/filegallery/internal/facet"
	"github.com/encoded/filegallery/internal/gallery"
	"github.com/spf13/cobra"
)

// FacetQueryKey prefixes facet terms in the portal search query.
const FacetQueryKey = "files"

func init() {
	addViewFlags(facetsCmd, true)
	rootCmd.AddCommand(facetsCmd)
}

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show the facet sidebar for the current selection",
	Long: `Show the assembly list and the file format, output type, and replicate
facets with their counts, as the facet sidebar of the selected tab shows
them.

The query field holds the selected filters as portal search terms.`,
	Args: cobra.NoArgs,
	RunE: runFacets,
}

// FacetsResult is the response for the facets command.
type FacetsResult struct {
	*facet.Panel
	Tab     gallery.Tab   `json:"tab"`
	Filters facet.Filters `json:"filters"`
	Query   string        `json:"query"`
}

func runFacets(cmd *cobra.Command, args []string) error {
	s := mustLoadState("")
	ds := s.Dataset()

	experimentType := ""
	if len(ds.Type) > 0 {
		experimentType = ds.Type[0]
	}
	result := FacetsResult{
		Panel:   facet.BuildPanel(s.AllFiles, s.Filters, s.Tab == gallery.TabBrowser, experimentType),
		Tab:     s.Tab,
		Filters: s.Filters,
		Query:   facet.ConvertFiltersToQuery(s.Filters, FacetQueryKey, s.Inclusion),
	}

	if !humanOutput {
		return outputJSON(result)
	}

	selected := s.Filters.Assembly()
	fmt.Println("Assembly")
	for _, a := range result.Assemblies {
		marker := " "
		if a.Value == selected {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, a.Value)
	}
	for _, f := range result.Facets {
		fmt.Println(f.Title)
		for _, t := range f.Terms {
			marker := " "
			for _, v := range s.Filters[f.Key] {
				if v == t.Value {
					marker = "*"
				}
			}
			fmt.Printf("  %s %s (%d)\n", marker, t.Value, t.Count)
		}
	}
	if result.Query != "" {
		fmt.Printf("\nQuery: %s\n", result.Query)
	}
	return nil
}
