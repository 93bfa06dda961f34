package main

import (
	"fmt"
	"sort"

	"github.com/encoded/filegallery/internal/analysis"
	"github.com/encoded/filegallery/internal/gallery"
	"github.com/encoded/filegallery/internal/portal"
	"github.com/spf13/cobra"
)

func init() {
	addViewFlags(analysesCmd, true)
	rootCmd.AddCommand(analysesCmd)
}

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "List the entries of the analysis chooser",
	Long: `List the analyses of a fetched dataset as the analysis chooser shows them,
one entry per analysis and assembly, best assembly first.

The selected and default entries are marked, and audits fetched with the
dataset are attached.`,
	Args: cobra.NoArgs,
	RunE: runAnalyses,
}

// AnalysisEntry is one chooser entry in the analyses response.
type AnalysisEntry struct {
	analysis.Compiled
	Index    int                       `json:"index"`
	Selected bool                      `json:"selected,omitempty"`
	Default  bool                      `json:"default,omitempty"`
	Audits   map[string][]portal.Audit `json:"audits,omitempty"`
}

// AnalysesResult is the response for the analyses command.
type AnalysesResult struct {
	Tab      gallery.Tab     `json:"tab"`
	Assembly string          `json:"assembly"`
	Analyses []AnalysisEntry `json:"analyses"`
}

func runAnalyses(cmd *cobra.Command, args []string) error {
	s := mustLoadState("")

	ids := make(map[string]string)
	if ds := s.Dataset(); ds != nil {
		for _, a := range ds.Analyses {
			ids[a.Accession] = a.ID
		}
	}

	result := AnalysesResult{Tab: s.Tab, Assembly: s.Filters.Assembly(), Analyses: []AnalysisEntry{}}
	defaultIdx := -1
	if len(s.Analyses) > 0 {
		defaultIdx = analysis.DefaultIndex(s.Analyses)
	}
	for i, c := range s.Analyses {
		result.Analyses = append(result.Analyses, AnalysisEntry{
			Compiled: c,
			Index:    i,
			Selected: i == s.SelectedAnalysis,
			Default:  i == defaultIdx,
			Audits:   s.AuditsFor(ids[c.Accession]),
		})
	}

	if !humanOutput {
		return outputJSON(result)
	}
	if len(result.Analyses) == 0 {
		fmt.Println("No analyses")
		return nil
	}
	for _, e := range result.Analyses {
		marker := " "
		if e.Selected {
			marker = "*"
		}
		fmt.Printf("%s %d. %s [%s] %d files\n", marker, e.Index, e.Title, e.Status, len(e.Files))
		levels := make([]string, 0, len(e.Audits))
		for level := range e.Audits {
			levels = append(levels, level)
		}
		sort.Strings(levels)
		for _, level := range levels {
			fmt.Printf("     %s: %d\n", level, len(e.Audits[level]))
		}
	}
	return nil
}
