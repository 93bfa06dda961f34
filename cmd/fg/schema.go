package main

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/encoded/filegallery/internal/gallery"
	"github.com/encoded/filegallery/internal/graph"
	"github.com/encoded/filegallery/internal/storage"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema [document]",
	Short: "Print the JSON Schema of an output document",
	Long: `Print the JSON Schema of a document fg writes, for tools consuming its
output. Without an argument the available documents are listed.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: schemaNames(),
	RunE:      runSchema,
}

// schemaDocuments maps document names to a value of the document type.
var schemaDocuments = map[string]any{
	"analyses": AnalysesResult{},
	"browser":  gallery.Browser{},
	"chain":    ChainResult{},
	"facets":   FacetsResult{},
	"fetch":    FetchResult{},
	"graph":    gallery.GraphResult{},
	"snapshot": storage.Entry{},
	"state":    gallery.State{},
	"tab":      TabResult{},
	"tables":   gallery.Tables{},
}

func schemaNames() []string {
	names := make([]string, 0, len(schemaDocuments))
	for name := range schemaDocuments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// graphDocument is the shape graph.Graph marshals to.
type graphDocument struct {
	ID    string        `json:"id"`
	Nodes []*graph.Node `json:"nodes"`
	Edges []*graph.Edge `json:"edges"`
}

var graphType = reflect.TypeOf(graph.Graph{})

// GenerateSchema reflects the JSON Schema of a document value.
func GenerateSchema(value any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	reflector.Mapper = func(t reflect.Type) *jsonschema.Schema {
		if t == graphType {
			inner := jsonschema.Reflector{AllowAdditionalProperties: false, DoNotReference: true}
			s := inner.Reflect(&graphDocument{})
			s.Version = ""
			s.ID = ""
			return s
		}
		return nil
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflector.Reflect(reflect.New(t).Interface())
}

func runSchema(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		names := schemaNames()
		if humanOutput {
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		}
		return outputJSON(names)
	}

	doc, ok := schemaDocuments[args[0]]
	if !ok {
		exitWithError(ExitError, "unknown document %q (valid: %s)", args[0], formatIDList(schemaNames()))
	}
	return outputJSON(GenerateSchema(doc))
}
