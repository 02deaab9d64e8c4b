package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianshen/atlas/internal/atlas"
)

// Report holds the outcome of a validation pass. Warnings are
// non-fatal; any error makes the validation fail as a whole.
type Report struct {
	Warnings []string
	Errors   []string
}

// OK reports whether validation passed.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks the written artifacts for internal consistency: the
// three JSON files must exist, every diagram should have at least one
// image asset (warning only), and every diagram that declares a PDF
// path must have the PDF on disk (hard failure). The PDF check is the
// one deferred-consistency check not caught at build time, since
// rendering can fail independently of metadata generation.
func Validate(dataDir, publicDir string) (*Report, error) {
	report := &Report{}

	for _, name := range []string{DatasetFile, SearchIndexFile, DiagramsFile} {
		if _, err := os.Stat(filepath.Join(dataDir, name)); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("missing artifact %s", name))
		}
	}
	if !report.OK() {
		return report, nil
	}

	data, err := os.ReadFile(filepath.Join(dataDir, DiagramsFile))
	if err != nil {
		return nil, fmt.Errorf("reading diagram metadata: %w", err)
	}
	var diagrams []atlas.Diagram
	if err := json.Unmarshal(data, &diagrams); err != nil {
		return nil, fmt.Errorf("parsing diagram metadata: %w", err)
	}

	missingImages := 0
	for _, d := range diagrams {
		if d.SVGPath == "" && d.PNGPath == "" {
			missingImages++
		}
		if d.PDFPath != "" {
			if _, err := os.Stat(filepath.Join(publicDir, filepath.FromSlash(d.PDFPath))); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("diagram %s declares %s but the file is missing", d.ID, d.PDFPath))
			}
		}
	}
	if missingImages > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d diagram(s) have neither an SVG nor a PNG asset", missingImages))
	}

	return report, nil
}
