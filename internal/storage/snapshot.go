package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/encoded/filegallery/internal/record"
)

// Entry kinds in a snapshot file.
const (
	KindDataset = "dataset"
	KindFile    = "file"
	KindRelated = "related"
)

// ErrNoDataset is returned for a snapshot without a dataset line.
var ErrNoDataset = errors.New("snapshot has no dataset entry")

// Entry is one line of a snapshot file.
type Entry struct {
	Kind    string          `json:"kind"`
	Dataset *record.Dataset `json:"dataset,omitempty"`
	File    *record.File    `json:"file,omitempty"`
}

// Snapshot is a dataset as fetched from the portal: the dataset record,
// the files found by the file search, and its related files.
type Snapshot struct {
	Dataset      *record.Dataset
	Files        []record.File
	RelatedFiles []record.File
}

// AllFiles returns the searched files followed by the related files.
func (s *Snapshot) AllFiles() []record.File {
	out := make([]record.File, 0, len(s.Files)+len(s.RelatedFiles))
	out = append(out, s.Files...)
	return append(out, s.RelatedFiles...)
}

// WriteSnapshot stores a snapshot as JSONL, dataset first.
func WriteSnapshot(path string, s *Snapshot) error {
	if s.Dataset == nil {
		return ErrNoDataset
	}
	entries := make([]Entry, 0, 1+len(s.Files)+len(s.RelatedFiles))
	entries = append(entries, Entry{Kind: KindDataset, Dataset: s.Dataset})
	for i := range s.Files {
		entries = append(entries, Entry{Kind: KindFile, File: &s.Files[i]})
	}
	for i := range s.RelatedFiles {
		entries = append(entries, Entry{Kind: KindRelated, File: &s.RelatedFiles[i]})
	}
	return WriteJSONL(path, entries)
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	entries, err := ReadJSONL[Entry](path)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{}
	for i, e := range entries {
		switch e.Kind {
		case KindDataset:
			s.Dataset = e.Dataset
		case KindFile, KindRelated:
			if e.File == nil {
				return nil, fmt.Errorf("entry %d: %s entry without file", i+1, e.Kind)
			}
			if e.Kind == KindFile {
				s.Files = append(s.Files, *e.File)
			} else {
				s.RelatedFiles = append(s.RelatedFiles, *e.File)
			}
		default:
			return nil, fmt.Errorf("entry %d: unknown kind %q", i+1, e.Kind)
		}
	}
	if s.Dataset == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDataset)
	}
	return s, nil
}

// HashFile returns the hex BLAKE2b-256 digest of a file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
