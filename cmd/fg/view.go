package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/encoded/filegallery/internal/config"
	"github.com/encoded/filegallery/internal/facet"
	"github.com/encoded/filegallery/internal/gallery"
	"github.com/encoded/filegallery/internal/logging"
	"github.com/encoded/filegallery/internal/portal"
	"github.com/encoded/filegallery/internal/record"
	"github.com/encoded/filegallery/internal/storage"
	"github.com/spf13/cobra"
)

// viewOptions are the selections shared by the offline views.
type viewOptions struct {
	dataset   string
	tab       string
	assembly  string
	analysis  string
	filters   []string
	inclusion bool
	browser   string
	node      string
}

var viewOpts viewOptions

// addViewFlags registers the selection flags on cmd. The tab flag is only
// offered by commands that do not imply a tab.
func addViewFlags(cmd *cobra.Command, withTab bool) {
	f := cmd.Flags()
	f.StringVarP(&viewOpts.dataset, "dataset", "d", "", "Dataset accession (default: the only fetched dataset)")
	if withTab {
		f.StringVar(&viewOpts.tab, "tab", "", "Tab: tables, browser, or graph (default: chosen from the files)")
	}
	f.StringVarP(&viewOpts.assembly, "assembly", "a", "", `Assembly facet value, e.g. "GRCh38" or "All assemblies"`)
	f.StringVar(&viewOpts.analysis, "analysis", "", "Analysis accession or chooser index")
	f.StringArrayVarP(&viewOpts.filters, "filter", "f", nil, "Facet filter as key=value (repeatable)")
	f.BoolVar(&viewOpts.inclusion, "inclusion", false, "Include archived, revoked, deleted, and replaced files")
	f.StringVar(&viewOpts.browser, "browser", "", "Genome browser")
	f.StringVar(&viewOpts.node, "node", "", "Graph node to open the details of")
}

// snapshotAccession normalizes a dataset argument to an accession.
func snapshotAccession(arg string) string {
	return record.AccessionFromID(strings.TrimSpace(arg))
}

// resolveSnapshot picks the snapshot to show: the named dataset, or the only
// one fetched.
func resolveSnapshot(root, dataset string) (string, string, error) {
	if dataset != "" {
		acc := snapshotAccession(dataset)
		path := config.SnapshotPath(root, acc)
		if _, err := os.Stat(path); err != nil {
			return "", "", fmt.Errorf("no snapshot for %s\n\nRun 'fg fetch %s' first.", acc, acc)
		}
		return acc, path, nil
	}

	paths, err := filepath.Glob(filepath.Join(config.DatasetsPath(root), "*.jsonl"))
	if err != nil {
		return "", "", fmt.Errorf("listing snapshots: %w", err)
	}
	switch len(paths) {
	case 0:
		return "", "", errors.New("no datasets fetched\n\nRun 'fg fetch <dataset>' first.")
	case 1:
		return strings.TrimSuffix(filepath.Base(paths[0]), ".jsonl"), paths[0], nil
	}
	accs := make([]string, len(paths))
	for i, p := range paths {
		accs[i] = strings.TrimSuffix(filepath.Base(p), ".jsonl")
	}
	return "", "", fmt.Errorf("multiple datasets fetched (%s); pass --dataset", formatIDList(accs))
}

// mustResolveSnapshot resolves the snapshot of the view flags, exits on error.
func mustResolveSnapshot(root string) (string, string) {
	acc, path, err := resolveSnapshot(root, viewOpts.dataset)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return acc, path
}

// ensureIndexed refreshes the query cache when a snapshot changed on disk.
func ensureIndexed(db *storage.DB, accession, path string) error {
	stale, err := db.IsStale(accession, path)
	if err != nil {
		return err
	}
	if !stale {
		return nil
	}
	n, err := db.Index(path)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", accession, err)
	}
	logging.Info("reindexed stale snapshot", "accession", accession, "files", n)
	return nil
}

// selectAnalysis finds a chooser entry by index or accession. Among entries
// sharing the accession, the one for the selected assembly wins.
func selectAnalysis(s gallery.State, value string) (int, bool) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, n >= 0 && n < len(s.Analyses)
	}
	current := s.Filters.Assembly()
	found := -1
	for i, a := range s.Analyses {
		if a.Accession != value && a.Accession != snapshotAccession(value) {
			continue
		}
		if found < 0 || a.Assembly == current {
			found = i
		}
	}
	return found, found >= 0
}

// buildState replays a snapshot and the view selections through the
// gallery reducer. An empty tab leaves the choice to the flags or the data.
func buildState(snap *storage.Snapshot, audits map[string]map[string][]portal.Audit,
	caps gallery.Capabilities, cfg *config.Config, tab gallery.Tab, opts viewOptions) (gallery.State, error) {
	s := gallery.NewState(caps)
	s.Colorize = cfg.Colorize
	if cfg.Inclusion {
		s.Inclusion = true
	}
	if opts.inclusion {
		s.Inclusion = true
	}

	s = gallery.Reduce(s, gallery.DataLoaded{
		Parts:        gallery.PartDataset | gallery.PartFiles | gallery.PartRelated | gallery.PartAudits,
		Dataset:      snap.Dataset,
		Files:        snap.Files,
		RelatedFiles: snap.RelatedFiles,
		Audits:       audits,
	})

	if tab == "" && opts.tab != "" {
		t, ok := gallery.ParseTab(opts.tab)
		if !ok {
			return s, fmt.Errorf("invalid tab %q (valid: tables, browser, graph)", opts.tab)
		}
		tab = t
	}
	if tab != "" {
		s = gallery.Reduce(s, gallery.TabSelected{Tab: tab})
	}

	assembly := opts.assembly
	if assembly == "" && s.Tab != gallery.TabTables {
		assembly = cfg.DefaultAssembly
	}
	if assembly != "" {
		if !facet.Contains(s.Assemblies, assembly) {
			return s, fmt.Errorf("assembly %q not in dataset", assembly)
		}
		s = gallery.Reduce(s, gallery.AssemblySelected{Assembly: assembly})
	}

	if opts.analysis != "" {
		idx, ok := selectAnalysis(s, opts.analysis)
		if !ok {
			return s, fmt.Errorf("analysis %q not found", opts.analysis)
		}
		s = gallery.Reduce(s, gallery.AnalysisSelected{Index: idx})
	}

	for _, f := range opts.filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" || value == "" {
			return s, fmt.Errorf("invalid filter %q (want key=value)", f)
		}
		s = gallery.Reduce(s, gallery.FacetToggled{Facet: key, Value: value})
	}

	browser := opts.browser
	if browser == "" && cfg.Browser != "" && slices.Contains(s.Browsers(), cfg.Browser) {
		browser = cfg.Browser
	}
	if browser != "" {
		s = gallery.Reduce(s, gallery.BrowserSelected{Browser: browser})
	}
	if opts.node != "" {
		s = gallery.Reduce(s, gallery.NodeSelected{ID: opts.node})
	}
	return s, nil
}

// mustLoadState loads the selected snapshot into a gallery state, exits on
// error.
func mustLoadState(tab gallery.Tab) gallery.State {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)
	gc := mustLoadGlobalConfig()
	acc, path := mustResolveSnapshot(root)

	snap, err := storage.ReadSnapshot(path)
	if err != nil {
		exitWithError(ExitDataError, "reading snapshot: %v", err)
	}
	audits, err := readAudits(root, acc)
	if err != nil {
		logging.Warn("ignoring unreadable audits", "accession", acc, "err", err)
	}

	caps := gallery.Capabilities{LoggedIn: gc.LoggedIn, Admin: gc.Admin}
	s, err := buildState(snap, audits, caps, cfg, tab, viewOpts)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return s
}
