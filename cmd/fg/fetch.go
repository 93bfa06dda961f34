package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/encoded/filegallery/internal/config"
	"github.com/encoded/filegallery/internal/gallery"
	"github.com/encoded/filegallery/internal/logging"
	"github.com/encoded/filegallery/internal/portal"
	"github.com/encoded/filegallery/internal/record"
	"github.com/encoded/filegallery/internal/storage"
	"github.com/spf13/cobra"
)

// DefaultFetchTimeout bounds one fetch of a dataset and everything around it.
const DefaultFetchTimeout = 2 * time.Minute

var fetchTimeout time.Duration

var fetchCmd = &cobra.Command{
	Use:   "fetch <dataset>",
	Short: "Fetch a dataset and its files from the portal",
	Long: `Fetch a dataset, its files, related files, and analysis audits from the
portal and store them as a snapshot in the workspace.

The dataset may be given as an accession or an @id. Fetching again replaces
the snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", DefaultFetchTimeout, "Give up after this long")
	rootCmd.AddCommand(fetchCmd)
}

// FetchResult is the response for the fetch command.
type FetchResult struct {
	Accession       string `json:"accession"`
	DatasetID       string `json:"dataset_id"`
	Path            string `json:"path"`
	Files           int    `json:"files"`
	RelatedFiles    int    `json:"related_files"`
	Analyses        int    `json:"analyses"`
	AuditedAnalyses int    `json:"audited_analyses"`
	Profiles        int    `json:"profiles"`
}

// auditEntry is one line of an audits cache file.
type auditEntry struct {
	Analysis string                    `json:"analysis"`
	Audits   map[string][]portal.Audit `json:"audits"`
}

func auditsPath(root, accession string) string {
	return filepath.Join(config.CachePath(root), accession+"-audits.jsonl")
}

// readAudits loads the cached analysis audits of a dataset. A missing file
// yields no audits.
func readAudits(root, accession string) (map[string]map[string][]portal.Audit, error) {
	entries, err := storage.ReadJSONL[auditEntry](auditsPath(root, accession))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]map[string][]portal.Audit, len(entries))
	for _, e := range entries {
		out[e.Analysis] = e.Audits
	}
	return out, nil
}

// writeAudits caches analysis audits in the order the dataset lists its
// analyses.
func writeAudits(root, accession string, ds *record.Dataset, audits map[string]map[string][]portal.Audit) error {
	var entries []auditEntry
	for _, a := range ds.Analyses {
		if levels, ok := audits[a.ID]; ok {
			entries = append(entries, auditEntry{Analysis: a.ID, Audits: levels})
		}
	}
	return storage.WriteJSONL(auditsPath(root, accession), entries)
}

// newPortalClient builds a portal client from the global config.
// Credentials from the environment take precedence.
func newPortalClient(gc *config.GlobalConfig) *portal.Client {
	var opts []portal.ClientOption
	if gc.PortalURL != "" {
		opts = append(opts, portal.WithBaseURL(gc.PortalURL))
	}
	if gc.RateLimit > 0 {
		opts = append(opts, portal.WithRateLimit(gc.RateLimit))
	}
	if key, secret := config.Credentials(); key != "" {
		opts = append(opts, portal.WithCredentials(key, secret))
	}
	return portal.NewClient(opts...)
}

func runFetch(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	gc := mustLoadGlobalConfig()
	config.LoadEnv(root)

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	session := gallery.NewSession(gallery.Capabilities{LoggedIn: gc.LoggedIn, Admin: gc.Admin}, false)
	loader := gallery.NewLoader(newPortalClient(gc), session)
	logging.Debug("fetching dataset", "dataset", args[0])
	if err := loader.Load(ctx, args[0]); err != nil {
		exitWithPortalError(err)
	}

	data := session.State().Data
	acc := data.Dataset.Accession
	if acc == "" {
		acc = record.AccessionFromID(data.Dataset.ID)
	}
	path := config.SnapshotPath(root, acc)

	if err := os.MkdirAll(config.DatasetsPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating datasets directory: %v", err)
	}
	snap := &storage.Snapshot{Dataset: data.Dataset, Files: data.Files, RelatedFiles: data.RelatedFiles}
	if err := storage.WriteSnapshot(path, snap); err != nil {
		exitWithError(ExitError, "writing snapshot: %v", err)
	}
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	if err := writeAudits(root, acc, data.Dataset, data.Audits); err != nil {
		exitWithError(ExitError, "writing audits: %v", err)
	}

	db := mustOpenDatabase(root)
	defer db.Close()
	if _, err := db.Index(path); err != nil {
		exitWithError(ExitError, "indexing snapshot: %v", err)
	}

	result := FetchResult{
		Accession:       acc,
		DatasetID:       data.Dataset.ID,
		Path:            path,
		Files:           len(data.Files),
		RelatedFiles:    len(data.RelatedFiles),
		Analyses:        len(data.Dataset.Analyses),
		AuditedAnalyses: len(data.Audits),
		Profiles:        len(data.Profiles),
	}
	if humanOutput {
		outputHuman("Fetched %s: %d files, %d related files, %d analyses\n",
			acc, result.Files, result.RelatedFiles, result.Analyses)
		outputHuman("Snapshot written to %s\n", path)
		return nil
	}
	return outputJSON(result)
}
