package graph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/encoded/filegallery/internal/record"
)

// Coalescing thresholds.
const (
	// MinimumCoalesceCount is the smallest group drawn as one coalesced node.
	MinimumCoalesceCount = 5
	// MinimumReadsCoalesceCount is the number of reads files that must be
	// exceeded before reads coalesce at all.
	MinimumReadsCoalesceCount = 100
)

// ErrNoRelationships means no file in the selection derives from or feeds
// another, so there is nothing to draw.
var ErrNoRelationships = errors.New("no graph: no file relationships for the selected assembly/annotation")

// IsNoRelationships reports whether err means there is no graph to draw.
func IsNoRelationships(err error) bool {
	return errors.Is(err, ErrNoRelationships)
}

// Options control graph assembly.
type Options struct {
	// InfoNodeID is the id of the node whose details are open; it and its
	// edges get the active class.
	InfoNodeID         string
	SelectedAssembly   string
	SelectedAnnotation string
	// Colorize adds a status class to file nodes.
	Colorize bool
	// LoggedIn shows unreleased quality metrics.
	LoggedIn bool
	// NonSeriesFiles supply output types for contributing files of a series.
	NonSeriesFiles []record.File
	IsSeries       bool
}

type coalescedGroup struct {
	hash  string
	files []string
	// parent is the replicate node of reads groups.
	parent string
}

// assembler holds the state of one Assemble call.
type assembler struct {
	dataset     *record.Dataset
	opts        Options
	highlighted map[string]bool

	derivedIDs map[string]string
}

// derivedFileIDs returns the file's sorted derived_from ids joined by commas.
func (a *assembler) derivedFileIDs(f *record.File) string {
	if ids, ok := a.derivedIDs[f.ID]; ok {
		return ids
	}
	ids := strings.Join(f.DerivedFrom.Sorted(), ",")
	a.derivedIDs[f.ID] = ids
	return ids
}

func qcNodeID(metric record.QualityMetric, f *record.File) string {
	return "qc:" + metric.ID + f.ID
}

func repNodeID(rep int) string {
	return "rep:" + strconv.Itoa(rep)
}

func (a *assembler) matchesSelection(f *record.File) bool {
	if f.Assembly != a.opts.SelectedAssembly {
		return false
	}
	if f.GenomeAnnotation == "" || a.opts.SelectedAnnotation == "" {
		return true
	}
	return f.GenomeAnnotation == a.opts.SelectedAnnotation
}

func (a *assembler) active(id string) string {
	if id != "" && a.opts.InfoNodeID == id {
		return "active"
	}
	return ""
}

func joinClasses(classes ...string) string {
	var parts []string
	for _, c := range classes {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// Assemble builds the derivation graph for the files matching the selected
// assembly and annotation. Files highlighted by facet filters get the
// highlight class. It returns ErrNoRelationships when no matching file
// takes part in a derivation, and a *CycleError for looping derived_from
// links.
func Assemble(files []record.File, highlighted []record.File, dataset *record.Dataset, opts Options) (*Graph, error) {
	a := &assembler{
		dataset:     dataset,
		opts:        opts,
		highlighted: make(map[string]bool, len(highlighted)),
		derivedIDs:  make(map[string]string),
	}
	for _, f := range highlighted {
		a.highlighted[f.ID] = true
	}
	return a.assemble(files)
}

func (a *assembler) assemble(files []record.File) (*Graph, error) {
	allFiles := newFileMap()
	matching := newFileMap()
	qcMetrics := make(map[string][]record.QualityMetric)
	pipelines := make(map[string][]string)
	allowNoAssembly := a.dataset.AssayTermName == "RNA Bind-n-Seq"

	for i := range files {
		f := &files[i]
		allFiles.set(f.ID, f)

		if !allowNoAssembly && !a.matchesSelection(f) {
			continue
		}
		step := f.Step()
		if step != nil && len(f.DerivedFrom) == 0 {
			continue
		}
		matching.set(f.ID, f)

		for _, qc := range f.QualityMetrics {
			if a.opts.LoggedIn || qc.Status == "released" {
				qcMetrics[f.ID] = append(qcMetrics[f.ID], qc)
			}
		}
		if step != nil {
			pipelines[step.ID] = step.Pipelines
		}
	}

	lookup := make(map[string]*record.File, allFiles.Len())
	for _, id := range allFiles.Keys() {
		lookup[id] = allFiles.Get(id)
	}

	// Invert the derivation chains into parent -> children.
	derivedFroms := newChildren()
	derivedFromList := newFileMap()
	for _, id := range append([]string(nil), matching.Keys()...) {
		chain, err := CollectDerivedFroms(matching.Get(id), a.dataset.ID, a.opts.SelectedAssembly, a.opts.SelectedAnnotation, lookup)
		if err != nil {
			return nil, err
		}
		for _, parentID := range chain.Keys() {
			child := chain.Child(parentID)
			if child == nil {
				continue
			}
			derivedFroms.add(parentID, child)
			derivedFromList.set(parentID, allFiles.Get(parentID))
		}
	}
	for _, id := range derivedFromList.Keys() {
		matching.set(id, derivedFromList.Get(id))
	}

	// Drop islands: files that neither derive from nor feed another file.
	connected := newFileMap()
	for _, id := range matching.Keys() {
		f := matching.Get(id)
		hasParents := false
		if f != nil {
			for _, p := range f.DerivedFrom {
				if derivedFromList.Has(p) {
					hasParents = true
					break
				}
			}
		}
		if hasParents || derivedFroms.has(id) {
			connected.set(id, f)
		}
	}
	matching = connected
	if matching.Len() == 0 {
		return nil, ErrNoRelationships
	}

	replicates := make(map[int]bool)
	for _, id := range matching.Keys() {
		if f := matching.Get(id); f != nil {
			if rep, ok := f.SingleReplicate(); ok && rep != 0 {
				replicates[rep] = true
			}
		}
	}

	coalesced := make(map[string]string)

	usedContributing := make(map[string]bool)
	var contributingOrder []string
	for _, id := range a.dataset.ContributingFiles {
		if derivedFroms.has(id) && !usedContributing[id] {
			usedContributing[id] = true
			contributingOrder = append(contributingOrder, id)
		}
	}
	contributingGroups := groupBy(contributingOrder, func(id string) string {
		return groupHash(childIDs(derivedFroms.get(id), ""))
	})
	var contributingCoalesced []coalescedGroup
	for _, g := range contributingGroups {
		if len(g.files) < MinimumCoalesceCount {
			continue
		}
		for _, id := range g.files {
			coalesced[id] = contributingNodeID(g.hash)
			delete(usedContributing, id)
			matching.del(id)
		}
		contributingCoalesced = append(contributingCoalesced, g)
	}

	var readsIDs []string
	for _, id := range allFiles.Keys() {
		if derivedFroms.has(id) && allFiles.Get(id).FileType == record.FileTypeFastq {
			readsIDs = append(readsIDs, id)
		}
	}
	var readsCoalesced []coalescedGroup
	if len(readsIDs) > MinimumReadsCoalesceCount {
		var candidates []string
		for _, id := range readsIDs {
			if _, ok := allFiles.Get(id).SingleReplicate(); ok && coalesced[id] == "" {
				candidates = append(candidates, id)
			}
		}
		readsGroups := groupBy(candidates, func(id string) string {
			rep, _ := allFiles.Get(id).SingleReplicate()
			return groupHash(childIDs(derivedFroms.get(id), "-"+strconv.Itoa(rep)))
		})
		for _, g := range readsGroups {
			if len(g.files) < MinimumCoalesceCount {
				continue
			}
			rep, _ := allFiles.Get(g.files[0]).SingleReplicate()
			g.parent = repNodeID(rep)
			for _, id := range g.files {
				coalesced[id] = readsNodeID(g.hash)
				matching.del(id)
				allFiles.del(id)
			}
			readsCoalesced = append(readsCoalesced, g)
		}
	}

	missing := make(map[string]bool)
	var missingOrder []string
	for _, id := range derivedFroms.ids {
		if !allFiles.Has(id) && coalesced[id] == "" && !usedContributing[id] {
			missing[id] = true
			missingOrder = append(missingOrder, id)
		}
	}

	g := New(a.dataset.Accession)

	reps := make([]int, 0, len(replicates))
	for rep := range replicates {
		reps = append(reps, rep)
	}
	sort.Ints(reps)
	for _, rep := range reps {
		g.AddNode(&Node{
			ID:       repNodeID(rep),
			Label:    "Replicate " + strconv.Itoa(rep),
			Type:     TypeRep,
			Shape:    ShapeRect,
			CSSClass: "pipeline-replicate",
		})
	}

	for _, id := range matching.Keys() {
		f := matching.Get(id)
		if f == nil {
			if !missing[id] {
				a.addContributingNode(g, id)
			}
			continue
		}
		a.addFileNode(g, f, qcMetrics[id])
		a.addStep(g, f, pipelines, derivedFroms, allFiles, coalesced, missing, usedContributing)
	}

	for _, grp := range contributingCoalesced {
		nodeID := contributingNodeID(grp.hash)
		g.AddNode(&Node{
			ID:           nodeID,
			Label:        fmt.Sprintf("%d contributing files", len(grp.files)),
			Type:         TypeCoalesced,
			Shape:        ShapeStack,
			CornerRadius: 16,
			CSSClass:     joinClasses("pipeline-node-file contributing", a.active(nodeID)),
			Ref:          grp.files,
		})
	}
	for _, grp := range readsCoalesced {
		nodeID := readsNodeID(grp.hash)
		parent := ""
		if g.GetNode(grp.parent) != nil {
			parent = grp.parent
		}
		g.AddNode(&Node{
			ID:           nodeID,
			Label:        fmt.Sprintf("%d reads", len(grp.files)),
			Type:         TypeCoalesced,
			Shape:        ShapeStack,
			CornerRadius: 16,
			CSSClass:     joinClasses("pipeline-node-file reads", a.active(nodeID)),
			Parent:       parent,
			Ref:          grp.files,
		})
	}
	for _, id := range missingOrder {
		g.AddNode(&Node{
			ID:           "file:" + id,
			Label:        record.AccessionFromID(id) + " (unknown)",
			Type:         TypeFile,
			Shape:        ShapeRect,
			CornerRadius: 16,
			CSSClass:     "pipeline-node-file error",
		})
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("assembling graph: %w", err)
	}
	return g, nil
}

func (a *assembler) addContributingNode(g *Graph, id string) {
	nodeID := "file:" + id
	label := record.AccessionFromID(id)
	if a.opts.IsSeries {
		for _, f := range a.opts.NonSeriesFiles {
			if f.ID == id {
				label += " (" + f.OutputType + ")"
				break
			}
		}
	}
	highlight := ""
	if a.highlighted[id] {
		highlight = "highlight"
	}
	g.AddNode(&Node{
		ID:           nodeID,
		Label:        label,
		Type:         TypeFile,
		Shape:        ShapeRect,
		CornerRadius: 16,
		CSSClass:     joinClasses("pipeline-node-file contributing", a.active(nodeID), highlight),
		Contributing: id,
	})
}

func (a *assembler) fileClass(f *record.File, nodeID string) string {
	highlight, status := "", ""
	if a.highlighted[f.ID] {
		highlight = "highlight"
	}
	if a.opts.Colorize {
		status = "graph-node--" + f.StatusClass()
	}
	return joinClasses("pipeline-node-file", a.active(nodeID), highlight, status)
}

func (a *assembler) replicateParent(g *Graph, f *record.File) string {
	if rep, ok := f.SingleReplicate(); ok {
		if id := repNodeID(rep); g.GetNode(id) != nil {
			return id
		}
	}
	return ""
}

func (a *assembler) addFileNode(g *Graph, f *record.File, metrics []record.QualityMetric) {
	nodeID := "file:" + f.ID
	label := f.Title + " (" + f.OutputType + ")"
	if f.PreferredDefault {
		label += "  ⭐"
	}

	sorted := append([]record.QualityMetric(nil), metrics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PrimaryType() < sorted[j].PrimaryType()
	})
	var metricNodes []MetricNode
	for _, m := range sorted {
		qcID := qcNodeID(m, f)
		metricNodes = append(metricNodes, MetricNode{
			ID:       qcID,
			Label:    QCAbbreviation(m),
			CSSClass: joinClasses("pipeline-node-qc-metric", a.active(qcID)),
			Ref:      m,
			FileID:   f.ID,
		})
	}

	g.AddNode(&Node{
		ID:           nodeID,
		Label:        label,
		Type:         TypeFile,
		Shape:        ShapeRect,
		CornerRadius: 16,
		CSSClass:     a.fileClass(f, nodeID),
		Parent:       a.replicateParent(g, f),
		Ref:          f,
		Metrics:      metricNodes,
	})
}

// addStep adds the analysis step that produced f and the edges around it.
// Files that derive from others without a recorded step get a placeholder
// "Software unknown" step.
func (a *assembler) addStep(g *Graph, f *record.File, pipelines map[string][]string, derivedFroms *children,
	allFiles *fileMap, coalesced map[string]string, missing, usedContributing map[string]bool) {
	derivedIDs := a.derivedFileIDs(f)
	step := f.Step()

	var stepID, label, class string
	var stepPipelines []string
	switch {
	case step != nil:
		stepID = "step:" + derivedIDs + step.ID
		label = strings.Join(step.StepTypes, ", ")
		stepPipelines = pipelines[step.ID]
		class = joinClasses("pipeline-node-analysis-step", a.active(stepID))
	case derivedIDs != "":
		stepID = "error:" + derivedIDs
		label = "Software unknown"
		class = joinClasses("pipeline-node-analysis-step", a.active(stepID), "error")
	default:
		return
	}

	if g.GetNode(stepID) == nil {
		n := &Node{
			ID:           stepID,
			Label:        label,
			Type:         TypeStep,
			Shape:        ShapeRect,
			CornerRadius: 4,
			CSSClass:     class,
			Parent:       a.replicateParent(g, f),
			Pipelines:    stepPipelines,
			FileID:       f.ID,
		}
		if step != nil {
			n.Ref = step
			n.StepVersion = f.StepVersion
		}
		g.AddNode(n)
	}

	fileNodeID := "file:" + f.ID
	g.AddEdge(stepID, fileNodeID, a.edgeClass(fileNodeID, stepID))

	for _, parentID := range f.DerivedFrom.Sorted() {
		if !derivedFroms.has(parentID) {
			continue
		}
		var from string
		switch {
		case coalesced[parentID] != "":
			from = coalesced[parentID]
		case allFiles.Has(parentID) || missing[parentID] || usedContributing[parentID]:
			from = "file:" + parentID
		default:
			continue
		}
		if g.GetEdge(from, stepID) == nil {
			g.AddEdge(from, stepID, a.edgeClass(from, stepID))
		}
	}
}

func (a *assembler) edgeClass(nodeID, stepID string) string {
	if a.opts.InfoNodeID != "" && (a.opts.InfoNodeID == nodeID || a.opts.InfoNodeID == stepID) {
		return "active"
	}
	return ""
}

// childIDs returns the sorted ids of children, each with suffix appended.
func childIDs(kids []*record.File, suffix string) []string {
	ids := make([]string, len(kids))
	for i, k := range kids {
		ids[i] = k.ID + suffix
	}
	sort.Strings(ids)
	return ids
}

// groupBy buckets ids by key, keeping first-appearance order of keys.
// Contributing and reads groups get separate id spaces so a hash shared by
// one of each still yields two nodes.
func contributingNodeID(hash string) string { return "coalesced-contrib:" + hash }

func readsNodeID(hash string) string { return "coalesced-reads:" + hash }

func groupBy(ids []string, key func(string) string) []coalescedGroup {
	var groups []coalescedGroup
	index := make(map[string]int)
	for _, id := range ids {
		k := key(id)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, coalescedGroup{hash: k})
		}
		groups[i].files = append(groups[i].files, id)
	}
	return groups
}
