package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/atlas/internal/catalog"
)

type fakeRenderer struct {
	calls atomic.Int64
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, svg []byte, _ string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("%PDF "), svg...), nil
}

func builderFixture(t *testing.T) (string, []catalog.DiagramFile) {
	t.Helper()
	srcDir := t.TempDir()
	old := time.Now().Add(-time.Hour)

	svg := filepath.Join(srcDir, "E1_01.svg")
	puml := filepath.Join(srcDir, "E1_01.puml")
	touch(t, svg, "<svg/>", old)
	touch(t, puml, "@startuml\n@enduml", old)

	return srcDir, []catalog.DiagramFile{
		{ID: "E1_01", SVGPath: svg, PUMLPath: puml},
		{ID: "NO_ASSETS"},
	}
}

func TestBuilderBuildAndRerun(t *testing.T) {
	_, files := builderFixture(t)
	public := t.TempDir()
	renderer := &fakeRenderer{}
	b := NewBuilder(Config{PublicDir: public, Concurrency: 2}, renderer)

	stats, err := b.Build(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Copied: 2, Rendered: 1}, stats)

	pdf, err := os.ReadFile(filepath.Join(public, "pdf", "E1_01.pdf"))
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "<svg/>")

	// An immediate rerun finds everything fresh and renders nothing.
	stats, err = b.Build(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 3}, stats)
	assert.Equal(t, int64(1), renderer.calls.Load())
}

func TestBuilderNilRendererCopiesOnly(t *testing.T) {
	_, files := builderFixture(t)
	public := t.TempDir()
	b := NewBuilder(Config{PublicDir: public}, nil)

	stats, err := b.Build(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Copied: 2}, stats)

	_, err = os.Stat(filepath.Join(public, "pdf", "E1_01.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuilderRenderFailureDoesNotAbort(t *testing.T) {
	_, files := builderFixture(t)
	public := t.TempDir()
	b := NewBuilder(Config{PublicDir: public}, &fakeRenderer{err: errors.New("browser gone")})

	stats, err := b.Build(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Copied: 2, Failed: 1}, stats)
}

func TestProbePaths(t *testing.T) {
	_, files := builderFixture(t)
	public := t.TempDir()
	b := NewBuilder(Config{PublicDir: public}, &fakeRenderer{})

	_, err := b.Build(context.Background(), files)
	require.NoError(t, err)

	p := b.ProbePaths("E1_01")
	assert.Equal(t, "/svg/E1_01.svg", p.SVG)
	assert.Equal(t, "/puml/E1_01.puml", p.PUML)
	assert.Equal(t, "/pdf/E1_01.pdf", p.PDF)
	assert.Empty(t, p.PNG)

	assert.Equal(t, Paths{}, b.ProbePaths("NO_ASSETS"))
}
