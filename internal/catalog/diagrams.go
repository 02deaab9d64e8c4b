package catalog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceExt is the diagram source file extension the scanner looks for.
const SourceExt = ".puml"

// DiagramDirs names the directories diagram assets are discovered in.
// SVG and PNG siblings live in parallel directories keyed by the same
// file stem as the source file.
type DiagramDirs struct {
	Source string
	SVG    string
	PNG    string
}

// DiscoverDiagrams lists all diagram source files in dirs.Source,
// probes their SVG/PNG siblings on disk and loads optional
// "<id>.meta.yaml" sidecars. A missing source directory yields an empty
// list; diagrams are optional, unlike the JSON catalogs.
func DiscoverDiagrams(dirs DiagramDirs) ([]DiagramFile, error) {
	entries, err := os.ReadDir(dirs.Source)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing diagram sources: %w", err)
	}

	var files []DiagramFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SourceExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), SourceExt)

		df := DiagramFile{
			ID:       id,
			PUMLPath: filepath.Join(dirs.Source, entry.Name()),
		}
		if p := filepath.Join(dirs.SVG, id+".svg"); fileExists(p) {
			df.SVGPath = p
		}
		if p := filepath.Join(dirs.PNG, id+".png"); fileExists(p) {
			df.PNGPath = p
		}
		df.Meta = loadDiagramMeta(filepath.Join(dirs.Source, id+".meta.yaml"))

		files = append(files, df)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// loadDiagramMeta reads a sidecar file if present. A malformed sidecar
// is logged and ignored; it only carries cosmetic overrides.
func loadDiagramMeta(path string) *DiagramMeta {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var meta DiagramMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		log.Printf("WARNING: ignoring malformed diagram sidecar %s: %v", path, err)
		return nil
	}
	return &meta
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DiagramIndex resolves element identifiers to diagram IDs via a
// prebuilt map of normalized IDs, replacing the quadratic scan over
// elements and diagrams.
type DiagramIndex struct {
	byNormalizedID map[string][]string
}

// NewDiagramIndex builds the lookup index over the discovered files.
func NewDiagramIndex(files []DiagramFile) *DiagramIndex {
	idx := &DiagramIndex{byNormalizedID: make(map[string][]string, len(files))}
	for _, f := range files {
		key := strings.ToLower(f.ID)
		idx.byNormalizedID[key] = append(idx.byNormalizedID[key], f.ID)
	}
	return idx
}

// Match returns the diagram IDs whose normalized file stem equals the
// element identifier with colons replaced by underscores, compared
// case-insensitively. Multiple matches are possible for ambiguous
// identifiers with mixed delimiters; callers decide how to report that.
func (idx *DiagramIndex) Match(elementID string) []string {
	key := strings.ToLower(strings.ReplaceAll(elementID, ":", "_"))
	return idx.byNormalizedID[key]
}
