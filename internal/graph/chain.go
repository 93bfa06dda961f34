package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/encoded/filegallery/internal/record"
)

// ErrCycleDetected is returned when derived_from links loop back on
// themselves.
var ErrCycleDetected = errors.New("derived_from cycle detected")

// CycleError reports the derived_from path that closed a loop.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// Chain maps every ancestor id of a file to the child it was reached from.
// The file itself maps to nil, for its own child to fill in. Iteration
// follows discovery order.
type Chain struct {
	fileMap
}

func newChain() *Chain {
	return &Chain{fileMap: fileMap{files: make(map[string]*record.File)}}
}

// Child returns the file derived from id along the chain.
func (c *Chain) Child(id string) *record.File {
	return c.Get(id)
}

// compatible reports whether a file can appear under the selected assembly
// and annotation. Files without an assembly are always compatible.
func compatible(f *record.File, assembly, annotation string) bool {
	return f.Assembly == "" || (f.Assembly == assembly && f.GenomeAnnotation == annotation)
}

// CollectDerivedFroms walks derived_from links upward from file. The walk
// stops at files with no derived_from, at files outside the dataset, and at
// ids missing from allFiles, which are recorded with file as their child.
// In-dataset ancestors whose assembly or annotation conflicts with the
// selection are skipped along with everything above them. A derived_from
// loop yields a *CycleError.
func CollectDerivedFroms(file *record.File, datasetID, assembly, annotation string, allFiles map[string]*record.File) (*Chain, error) {
	c := &collector{
		datasetID:  datasetID,
		assembly:   assembly,
		annotation: annotation,
		allFiles:   allFiles,
		onPath:     make(map[string]bool),
	}
	return c.collect(file)
}

type collector struct {
	datasetID  string
	assembly   string
	annotation string
	allFiles   map[string]*record.File
	onPath     map[string]bool
	path       []string
}

func (c *collector) collect(file *record.File) (*Chain, error) {
	c.onPath[file.ID] = true
	c.path = append(c.path, file.ID)
	defer func() {
		delete(c.onPath, file.ID)
		c.path = c.path[:len(c.path)-1]
	}()

	acc := newChain()
	if len(file.DerivedFrom) > 0 && file.Dataset == c.datasetID {
		for _, parentID := range file.DerivedFrom {
			parent := c.allFiles[parentID]
			if parent == nil {
				acc.set(parentID, file)
				continue
			}
			if !compatible(parent, c.assembly, c.annotation) {
				continue
			}
			if c.onPath[parentID] {
				path := make([]string, len(c.path), len(c.path)+1)
				copy(path, c.path)
				return nil, &CycleError{Path: append(path, parentID)}
			}

			branch, err := c.collect(parent)
			if err != nil {
				return nil, err
			}
			for _, id := range branch.Keys() {
				child := branch.Get(id)
				if child == nil {
					child = file
				}
				acc.set(id, child)
			}
		}
	}
	acc.set(file.ID, nil)
	return acc, nil
}
