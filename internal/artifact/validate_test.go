package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/atlas/internal/atlas"
)

func writeArtifacts(t *testing.T, ds *atlas.Dataset) (string, string) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	publicDir := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(publicDir, 0o755))
	require.NoError(t, NewWriter(dataDir).WriteAll(ds, nil))
	return dataDir, publicDir
}

func TestValidateOK(t *testing.T) {
	ds := sampleDataset()
	ds.Diagrams[0].SVGPath = "/svg/E1_01.svg"
	dataDir, publicDir := writeArtifacts(t, ds)

	report, err := Validate(dataDir, publicDir)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, report.Warnings)
}

func TestValidateMissingArtifacts(t *testing.T) {
	report, err := Validate(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Len(t, report.Errors, 3)
}

func TestValidateDiagramWithoutImagesWarns(t *testing.T) {
	dataDir, publicDir := writeArtifacts(t, sampleDataset())

	report, err := Validate(dataDir, publicDir)
	require.NoError(t, err)
	assert.True(t, report.OK())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "neither an SVG nor a PNG")
}

func TestValidateDeclaredPDFMustExist(t *testing.T) {
	ds := sampleDataset()
	ds.Diagrams[0].SVGPath = "/svg/E1_01.svg"
	ds.Diagrams[0].PDFPath = "/pdf/E1_01.pdf"
	dataDir, publicDir := writeArtifacts(t, ds)

	report, err := Validate(dataDir, publicDir)
	require.NoError(t, err)
	assert.False(t, report.OK())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "E1_01")

	pdfDir := filepath.Join(publicDir, "pdf")
	require.NoError(t, os.MkdirAll(pdfDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pdfDir, "E1_01.pdf"), []byte("%PDF"), 0o644))

	report, err = Validate(dataDir, publicDir)
	require.NoError(t, err)
	assert.True(t, report.OK())
}
