package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/encoded/filegallery/internal/facet"
	"github.com/encoded/filegallery/internal/record"
)

// DB wraps the SQLite cache of snapshot files.
type DB struct {
	db *sql.DB
}

// SnapshotInfo describes an indexed snapshot.
type SnapshotInfo struct {
	Accession string    `json:"accession"`
	DatasetID string    `json:"dataset_id"`
	Path      string    `json:"path"`
	Hash      string    `json:"hash"`
	FileCount int       `json:"file_count"`
	IndexedAt time.Time `json:"indexed_at"`
}

// FileFilter narrows QueryFiles. Empty fields match everything.
type FileFilter struct {
	Assembly         string
	GenomeAnnotation string
	FileType         string
	OutputType       string
	OutputCategory   string
	Status           string
	Replicates       string
	Limit            int
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			accession TEXT PRIMARY KEY,
			dataset_id TEXT NOT NULL,
			path TEXT NOT NULL,
			hash TEXT NOT NULL,
			file_count INTEGER NOT NULL,
			indexed_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS files (
			dataset TEXT NOT NULL,
			id TEXT NOT NULL,
			accession TEXT,
			assembly TEXT,
			genome_annotation TEXT,
			file_type TEXT,
			output_type TEXT,
			output_category TEXT,
			status TEXT,
			replicates TEXT,
			related INTEGER NOT NULL,
			file_json TEXT NOT NULL,
			PRIMARY KEY (dataset, id)
		);

		CREATE INDEX IF NOT EXISTS idx_files_assembly ON files(dataset, assembly);
	`
	_, err := db.Exec(schema)
	return err
}

// Index replaces the cached rows of one snapshot file with its content.
// It returns the number of files indexed.
func (d *DB) Index(path string) (int, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return 0, fmt.Errorf("reading snapshot: %w", err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return 0, err
	}
	accession := snap.Dataset.Accession
	if accession == "" {
		accession = record.AccessionFromID(snap.Dataset.ID)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM files WHERE dataset = ?", accession); err != nil {
		return 0, fmt.Errorf("clearing files of %s: %w", accession, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO files (
			dataset, id, accession, assembly, genome_annotation,
			file_type, output_type, output_category, status, replicates,
			related, file_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing files insert: %w", err)
	}
	defer stmt.Close()

	insert := func(f *record.File, related bool) error {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshaling file %s: %w", f.ID, err)
		}
		_, err = stmt.Exec(
			accession, f.ID, f.Accession, f.Assembly, f.GenomeAnnotation,
			f.FileType, f.OutputType, f.OutputCategory, f.Status,
			facet.ReplicateLabel(f.BiologicalReplicates),
			related, string(data),
		)
		if err != nil {
			return fmt.Errorf("inserting file %s: %w", f.ID, err)
		}
		return nil
	}
	for i := range snap.Files {
		if err := insert(&snap.Files[i], false); err != nil {
			return 0, err
		}
	}
	for i := range snap.RelatedFiles {
		if err := insert(&snap.RelatedFiles[i], true); err != nil {
			return 0, err
		}
	}

	count := len(snap.Files) + len(snap.RelatedFiles)
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO snapshots (accession, dataset_id, path, hash, file_count, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, accession, snap.Dataset.ID, path, hash, count, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("recording snapshot %s: %w", accession, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return count, nil
}

// RebuildFromDir clears the cache and indexes every snapshot in dir. It
// returns the number of snapshots and files indexed.
func (d *DB) RebuildFromDir(dir string) (int, int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return 0, 0, fmt.Errorf("listing snapshots: %w", err)
	}
	sort.Strings(paths)

	if _, err := d.db.Exec("DELETE FROM files"); err != nil {
		return 0, 0, fmt.Errorf("clearing files table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM snapshots"); err != nil {
		return 0, 0, fmt.Errorf("clearing snapshots table: %w", err)
	}

	files := 0
	for _, p := range paths {
		n, err := d.Index(p)
		if err != nil {
			return 0, 0, fmt.Errorf("indexing %s: %w", filepath.Base(p), err)
		}
		files += n
	}
	return len(paths), files, nil
}

// IsStale reports whether the snapshot at path differs from what was
// indexed for its accession, or was never indexed.
func (d *DB) IsStale(accession, path string) (bool, error) {
	var indexed string
	err := d.db.QueryRow("SELECT hash FROM snapshots WHERE accession = ?", accession).Scan(&indexed)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading snapshot hash: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}
	current, err := HashFile(path)
	if err != nil {
		return false, err
	}
	return current != indexed, nil
}

// Snapshots lists the indexed snapshots ordered by accession.
func (d *DB) Snapshots() ([]SnapshotInfo, error) {
	rows, err := d.db.Query(`
		SELECT accession, dataset_id, path, hash, file_count, indexed_at
		FROM snapshots ORDER BY accession
	`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var s SnapshotInfo
		var indexedAt int64
		if err := rows.Scan(&s.Accession, &s.DatasetID, &s.Path, &s.Hash, &s.FileCount, &indexedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		s.IndexedAt = time.Unix(indexedAt, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryFiles returns the cached files of a dataset matching the filter,
// ordered by accession.
func (d *DB) QueryFiles(dataset string, f FileFilter) ([]record.File, error) {
	where := []string{"dataset = ?"}
	args := []any{dataset}
	add := func(column, value string) {
		if value != "" {
			where = append(where, column+" = ?")
			args = append(args, value)
		}
	}
	add("assembly", f.Assembly)
	add("genome_annotation", f.GenomeAnnotation)
	add("file_type", f.FileType)
	add("output_type", f.OutputType)
	add("output_category", f.OutputCategory)
	add("status", f.Status)
	add("replicates", f.Replicates)

	query := "SELECT file_json FROM files WHERE " + strings.Join(where, " AND ") + " ORDER BY accession, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var out []record.File
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		var file record.File
		if err := json.Unmarshal([]byte(data), &file); err != nil {
			return nil, fmt.Errorf("decoding cached file: %w", err)
		}
		out = append(out, file)
	}
	return out, rows.Err()
}
