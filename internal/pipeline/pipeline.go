// Package pipeline orchestrates the full Atlas build:
// load -> link -> enrich -> index -> assets -> write.
// Data flows strictly downstream; no stage depends on a later one.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/julianshen/atlas/internal/artifact"
	"github.com/julianshen/atlas/internal/assets"
	"github.com/julianshen/atlas/internal/atlas"
	"github.com/julianshen/atlas/internal/catalog"
	"github.com/julianshen/atlas/internal/config"
	"github.com/julianshen/atlas/internal/enrich"
	"github.com/julianshen/atlas/internal/store"
)

// Options wires the pipeline's collaborators. Enricher and History
// may be nil; Renderer may be nil to skip PDF rendering.
type Options struct {
	Config   *config.Config
	Enricher *enrich.Enricher
	Renderer assets.Renderer
	History  *store.Store
}

// Run executes the full build pipeline. It either runs to completion
// or fails outright; recoverable conditions inside stages degrade with
// a logged warning instead of surfacing here.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	start := time.Now()

	// Stage 1: load. The two JSON reads and the output directory
	// creation have no data dependency, so they are issued jointly.
	fmt.Fprintf(os.Stderr, "atlas: loading catalog and process definitions...\n")
	var cat *catalog.Catalog
	var defs []catalog.ProcessDef

	var g errgroup.Group
	g.Go(func() error {
		var err error
		cat, err = catalog.LoadCatalog(cfg.Inputs.CatalogPath)
		return err
	})
	g.Go(func() error {
		var err error
		defs, err = catalog.LoadProcessDefs(cfg.Inputs.ProcessDefsPath)
		return err
	})
	g.Go(func() error {
		if err := os.MkdirAll(cfg.Output.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		return os.MkdirAll(cfg.Output.PublicDir, 0o755)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	// Stage 2: diagram discovery.
	files, err := catalog.DiscoverDiagrams(catalog.DiagramDirs{
		Source: cfg.Inputs.DiagramSourceDir,
		SVG:    cfg.Inputs.DiagramSVGDir,
		PNG:    cfg.Inputs.DiagramPNGDir,
	})
	if err != nil {
		return fmt.Errorf("discover diagrams: %w", err)
	}
	fmt.Fprintf(os.Stderr, "atlas: linking %d elements, %d process definitions, %d diagrams...\n",
		len(cat.Elements), len(defs), len(files))

	// Stage 3: link.
	graph := atlas.BuildGraph(cat, defs, files)

	// Stage 4: enrich processes with contextual references.
	if opts.Enricher != nil {
		fmt.Fprintf(os.Stderr, "atlas: enriching %d processes...\n", len(graph.Processes))
		enrichProcesses(ctx, graph, opts.Enricher, cfg.Build.Concurrency)
	}

	// Stage 5: assets.
	builder := assets.NewBuilder(assets.Config{
		PublicDir:   cfg.Output.PublicDir,
		Concurrency: cfg.Build.Concurrency,
	}, opts.Renderer)

	fmt.Fprintf(os.Stderr, "atlas: syncing assets for %d diagrams...\n", len(files))
	stats, err := builder.Build(ctx, files)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}

	// Asset presence is probed on disk after the sync, never assumed.
	for i := range graph.Diagrams {
		paths := builder.ProbePaths(graph.Diagrams[i].ID)
		graph.Diagrams[i].SVGPath = paths.SVG
		graph.Diagrams[i].PNGPath = paths.PNG
		graph.Diagrams[i].PUMLPath = paths.PUML
		graph.Diagrams[i].PDFPath = paths.PDF
	}

	// Stage 6: write artifacts.
	dataset := &atlas.Dataset{
		GeneratedAt: start.UTC(),
		Elements:    graph.Elements,
		Processes:   graph.Processes,
		Diagrams:    graph.Diagrams,
	}
	items := graph.SearchItems()

	fmt.Fprintf(os.Stderr, "atlas: writing artifacts (%d search items) to %s...\n",
		len(items), cfg.Output.DataDir)
	if err := artifact.NewWriter(cfg.Output.DataDir).WriteAll(dataset, items); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	recordRun(opts.History, store.RunRecord{
		ID:           uuid.NewString(),
		StartedAt:    start,
		Duration:     time.Since(start),
		Elements:     len(graph.Elements),
		Processes:    len(graph.Processes),
		Diagrams:     len(graph.Diagrams),
		RenderedPDFs: stats.Rendered,
		CopiedAssets: stats.Copied,
	})

	fmt.Fprintf(os.Stderr, "atlas: done in %s (%d copied, %d rendered, %d skipped, %d failed).\n",
		time.Since(start).Round(time.Millisecond), stats.Copied, stats.Rendered, stats.Skipped, stats.Failed)
	return nil
}

// enrichProcesses attaches contextual references to every process on a
// bounded worker pool. The enricher serializes its first cache load
// internally, so concurrent lookups are safe.
func enrichProcesses(ctx context.Context, graph *atlas.Graph, enricher *enrich.Enricher, concurrency int) {
	if concurrency <= 0 {
		concurrency = 1
	}

	// Each goroutine writes a distinct slice index, so no mutex is needed.
	p := pool.New().WithMaxGoroutines(concurrency)
	for i := range graph.Processes {
		i := i
		p.Go(func() {
			graph.Processes[i].References = enricher.FetchReferences(ctx, graph.Processes[i].Name, enrich.DefaultLimit)
		})
	}
	p.Wait()
}

// recordRun persists the run summary; history is best-effort and never
// fails the build.
func recordRun(history *store.Store, rec store.RunRecord) {
	if history == nil {
		return
	}
	if err := history.RecordRun(rec); err != nil {
		fmt.Fprintf(os.Stderr, "atlas: WARNING: recording run history: %v\n", err)
	}
}
