// Package artifact serializes the build outputs to disk and validates
// them after the fact.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianshen/atlas/internal/atlas"
)

// Artifact file names under the data output directory.
const (
	DatasetFile     = "dataset.json"
	SearchIndexFile = "search-index.json"
	DiagramsFile    = "diagrams.json"
)

// Writer writes the three JSON artifacts into one data directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteAll writes the full dataset, the search corpus and the diagram
// metadata. Each file is written atomically.
func (w *Writer) WriteAll(ds *atlas.Dataset, items []atlas.SearchItem) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := writeJSON(filepath.Join(w.dir, DatasetFile), ds); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(w.dir, SearchIndexFile), items); err != nil {
		return err
	}
	return writeJSON(filepath.Join(w.dir, DiagramsFile), ds.Diagrams)
}

// writeJSON pretty-prints v into path via a temp file and rename, so
// readers never observe a half-written artifact.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
