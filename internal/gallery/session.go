package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/encoded/filegallery/internal/logging"
	"github.com/encoded/filegallery/internal/portal"
	"github.com/encoded/filegallery/internal/record"
)

// Session holds the current state of one gallery and the generation of
// the load that feeds it.
type Session struct {
	mu         sync.Mutex
	state      State
	generation string
}

// NewSession returns a session in the state before any data arrives.
func NewSession(caps Capabilities, colorize bool) *Session {
	s := NewState(caps)
	s.Colorize = colorize
	return &Session{state: s}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a user event.
func (s *Session) Dispatch(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, e)
	return s.state
}

// Begin starts a new load generation. Results of earlier generations are
// discarded from then on.
func (s *Session) Begin() (string, error) {
	gen, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generating load id: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation = gen
	s.state = NewState(s.state.Capabilities).withColorize(s.state.Colorize)
	return gen, nil
}

// Apply applies a fetch result of the given generation. It reports false
// and leaves the state alone when the generation is stale.
func (s *Session) Apply(generation string, e Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		logging.Debug("discarding stale result", "generation", generation, "current", s.generation)
		return false
	}
	s.state = Reduce(s.state, e)
	return true
}

func (s State) withColorize(colorize bool) State {
	s.Colorize = colorize
	return s
}

// Fetcher is the portal access a Loader needs.
type Fetcher interface {
	GetDataset(ctx context.Context, id string) (*record.Dataset, error)
	RequestSearch(ctx context.Context, query string) ([]record.File, error)
	RequestFiles(ctx context.Context, ids []string) ([]record.File, error)
	AnalysisAudits(ctx context.Context, analysisIDs []string) (map[string]map[string][]portal.Audit, error)
	Profiles(ctx context.Context) (map[string]json.RawMessage, error)
}

// Loader fetches a dataset and the data around it into a session.
type Loader struct {
	fetcher Fetcher
	session *Session
}

// NewLoader creates a Loader.
func NewLoader(f Fetcher, s *Session) *Loader {
	return &Loader{fetcher: f, session: s}
}

// Load fetches the dataset, then its profiles, files, related files, and
// analysis audits concurrently. Each piece is applied as it arrives. The
// first error cancels the remaining fetches and is returned.
func (l *Loader) Load(ctx context.Context, datasetID string) error {
	gen, err := l.session.Begin()
	if err != nil {
		return err
	}

	dataset, err := l.fetcher.GetDataset(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("fetching dataset %s: %w", datasetID, err)
	}
	l.session.Apply(gen, DataLoaded{Parts: PartDataset, Dataset: dataset})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profiles, err := l.fetcher.Profiles(ctx)
		if err != nil {
			return fmt.Errorf("fetching profiles: %w", err)
		}
		l.session.Apply(gen, DataLoaded{Parts: PartProfiles, Profiles: profiles})
		return nil
	})

	g.Go(func() error {
		files, err := l.fetcher.RequestSearch(ctx, portal.FileQuery(dataset.ID))
		if err != nil {
			return fmt.Errorf("searching files: %w", err)
		}
		l.session.Apply(gen, DataLoaded{Parts: PartFiles, Files: files})
		return nil
	})

	g.Go(func() error {
		var related []record.File
		if ids := relatedFileIDs(dataset); len(ids) > 0 {
			var err error
			related, err = l.fetcher.RequestFiles(ctx, ids)
			if err != nil {
				return fmt.Errorf("fetching related files: %w", err)
			}
		}
		l.session.Apply(gen, DataLoaded{Parts: PartRelated, RelatedFiles: related})
		return nil
	})

	g.Go(func() error {
		ids := make([]string, 0, len(dataset.Analyses))
		for _, a := range dataset.Analyses {
			ids = append(ids, a.ID)
		}
		var audits map[string]map[string][]portal.Audit
		if len(ids) > 0 {
			var err error
			audits, err = l.fetcher.AnalysisAudits(ctx, ids)
			if err != nil {
				return fmt.Errorf("fetching analysis audits: %w", err)
			}
		}
		l.session.Apply(gen, DataLoaded{Parts: PartAudits, Audits: audits})
		return nil
	})

	return g.Wait()
}

// relatedFileIDs lists the dataset's related files followed by the cloning
// and mappings files of its related datasets.
func relatedFileIDs(d *record.Dataset) []string {
	ids := make([]string, 0, len(d.RelatedFiles))
	ids = append(ids, d.RelatedFiles...)
	for _, id := range d.ElementsFileIDs() {
		if !d.RelatedFiles.Contains(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
