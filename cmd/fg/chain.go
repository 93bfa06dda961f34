package main

import (
	"errors"
	"fmt"

	"github.com/encoded/filegallery/internal/graph"
	"github.com/encoded/filegallery/internal/record"
	"github.com/spf13/cobra"
)

func init() {
	addViewFlags(chainCmd, false)
	rootCmd.AddCommand(chainCmd)
}

var chainCmd = &cobra.Command{
	Use:   "chain <file>",
	Short: "Show the derived_from ancestry of a file",
	Long: `Walk the derived_from links of a file upward and list every ancestor with
the file derived from it.

The walk stops at files outside the dataset. Ancestors whose assembly
conflicts with the selected one are skipped. Without a selected assembly the
file's own assembly is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runChain,
}

// ChainLink is one ancestor in the chain response. Child is empty for the
// starting file.
type ChainLink struct {
	ID      string `json:"id"`
	Child   string `json:"child,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

// ChainResult is the response for the chain command.
type ChainResult struct {
	File       string      `json:"file"`
	Assembly   string      `json:"assembly,omitempty"`
	Annotation string      `json:"annotation,omitempty"`
	Links      []ChainLink `json:"links"`
}

// findFile looks a file up by @id or accession.
func findFile(files map[string]*record.File, arg string) *record.File {
	if f, ok := files[arg]; ok {
		return f
	}
	acc := snapshotAccession(arg)
	for _, f := range files {
		if f.Accession == acc || record.AccessionFromID(f.ID) == acc {
			return f
		}
	}
	return nil
}

func runChain(cmd *cobra.Command, args []string) error {
	s := mustLoadState("")
	ds := s.Dataset()
	all := record.IndexByID(s.AllFiles)

	file := findFile(all, args[0])
	if file == nil {
		exitWithError(ExitDataError, "file %s not found in %s", args[0], ds.Accession)
	}

	assembly, annotation := s.SelectedAssembly()
	if assembly == "" {
		assembly, annotation = file.Assembly, file.GenomeAnnotation
	}

	chain, err := graph.CollectDerivedFroms(file, ds.ID, assembly, annotation, all)
	if err != nil {
		var cycle *graph.CycleError
		if errors.As(err, &cycle) {
			exitWithError(ExitDataError, "%v", cycle)
		}
		exitWithError(ExitError, "%v", err)
	}

	result := ChainResult{File: file.ID, Assembly: assembly, Annotation: annotation, Links: []ChainLink{}}
	for _, id := range chain.Keys() {
		link := ChainLink{ID: id}
		if child := chain.Child(id); child != nil {
			link.Child = child.ID
		}
		_, known := all[id]
		link.Missing = !known
		result.Links = append(result.Links, link)
	}

	if !humanOutput {
		return outputJSON(result)
	}
	for _, link := range result.Links {
		switch {
		case link.Child == "":
			fmt.Printf("%s\n", link.ID)
		case link.Missing:
			fmt.Printf("%s -> %s (not loaded)\n", link.ID, link.Child)
		default:
			fmt.Printf("%s -> %s\n", link.ID, link.Child)
		}
	}
	return nil
}
