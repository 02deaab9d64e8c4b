package assets

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/julianshen/atlas/internal/catalog"
)

// Renderer rasterizes an SVG document into PDF bytes. The rendering
// mechanism itself (headless browser) is an external capability; this
// package only decides staleness and orchestrates read/render/write.
type Renderer interface {
	Render(ctx context.Context, svg []byte, title string) ([]byte, error)
}

// Config controls where assets land and how many renders run at once.
type Config struct {
	PublicDir   string // root of the mirrored asset tree
	Concurrency int    // parallel PDF renders; <= 0 means 1
}

// Stats summarizes one asset build pass.
type Stats struct {
	Copied   int
	Rendered int
	Skipped  int
	Failed   int
}

// Paths are the web paths of a diagram's assets relative to the public
// directory, empty when the file does not exist on disk.
type Paths struct {
	SVG  string
	PNG  string
	PUML string
	PDF  string
}

// Builder syncs diagram assets into the public tree.
type Builder struct {
	cfg      Config
	renderer Renderer
}

// NewBuilder creates a Builder. A nil renderer skips PDF rendering
// entirely; copies still happen.
func NewBuilder(cfg Config, renderer Renderer) *Builder {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Builder{cfg: cfg, renderer: renderer}
}

// Build syncs every diagram's assets. Each diagram is independent, so
// the loop runs on a bounded worker pool; a missing source for one
// asset type is skipped silently, and a failed render is logged and
// counted without failing the pass.
func (b *Builder) Build(ctx context.Context, files []catalog.DiagramFile) (Stats, error) {
	for _, sub := range []string{"svg", "png", "puml", "pdf"} {
		if err := os.MkdirAll(filepath.Join(b.cfg.PublicDir, sub), 0o755); err != nil {
			return Stats{}, fmt.Errorf("creating asset directory %s: %w", sub, err)
		}
	}

	var mu sync.Mutex
	var stats Stats

	p := pool.New().WithMaxGoroutines(b.cfg.Concurrency)
	for _, f := range files {
		f := f
		p.Go(func() {
			s := b.buildOne(ctx, f)
			mu.Lock()
			stats.Copied += s.Copied
			stats.Rendered += s.Rendered
			stats.Skipped += s.Skipped
			stats.Failed += s.Failed
			mu.Unlock()
		})
	}
	p.Wait()

	return stats, nil
}

// buildOne syncs one diagram's asset set.
func (b *Builder) buildOne(ctx context.Context, f catalog.DiagramFile) Stats {
	var s Stats

	copies := []struct {
		src string
		dst string
	}{
		{f.SVGPath, b.assetFile("svg", f.ID+".svg")},
		{f.PNGPath, b.assetFile("png", f.ID+".png")},
		{f.PUMLPath, b.assetFile("puml", f.ID+".puml")},
	}
	for _, c := range copies {
		if c.src == "" {
			continue
		}
		copied, err := CopyIfNewer(c.src, c.dst)
		switch {
		case err != nil:
			log.Printf("WARNING: copying asset for diagram %s: %v", f.ID, err)
			s.Failed++
		case copied:
			s.Copied++
		default:
			s.Skipped++
		}
	}

	if b.renderer == nil || f.SVGPath == "" {
		return s
	}

	pdfDst := b.assetFile("pdf", f.ID+".pdf")
	if !ShouldRenderPDF(f.SVGPath, pdfDst) {
		s.Skipped++
		return s
	}

	svg, err := os.ReadFile(f.SVGPath)
	if err != nil {
		log.Printf("WARNING: reading SVG for diagram %s: %v", f.ID, err)
		s.Failed++
		return s
	}

	pdf, err := b.renderer.Render(ctx, svg, f.ID)
	if err != nil {
		log.Printf("WARNING: rendering PDF for diagram %s: %v", f.ID, err)
		s.Failed++
		return s
	}

	if err := os.WriteFile(pdfDst, pdf, 0o644); err != nil {
		log.Printf("WARNING: writing PDF for diagram %s: %v", f.ID, err)
		s.Failed++
		return s
	}
	s.Rendered++
	return s
}

// ProbePaths checks which assets exist on disk for a diagram and
// returns their web paths. Presence is probed, never assumed.
func (b *Builder) ProbePaths(id string) Paths {
	var p Paths
	if b.assetExists("svg", id+".svg") {
		p.SVG = "/" + filepath.ToSlash(filepath.Join("svg", id+".svg"))
	}
	if b.assetExists("png", id+".png") {
		p.PNG = "/" + filepath.ToSlash(filepath.Join("png", id+".png"))
	}
	if b.assetExists("puml", id+".puml") {
		p.PUML = "/" + filepath.ToSlash(filepath.Join("puml", id+".puml"))
	}
	if b.assetExists("pdf", id+".pdf") {
		p.PDF = "/" + filepath.ToSlash(filepath.Join("pdf", id+".pdf"))
	}
	return p
}

func (b *Builder) assetFile(sub, name string) string {
	return filepath.Join(b.cfg.PublicDir, sub, name)
}

func (b *Builder) assetExists(sub, name string) bool {
	info, err := os.Stat(b.assetFile(sub, name))
	return err == nil && !info.IsDir()
}
