// cmd/atlas/build.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/julianshen/atlas/internal/assets"
	"github.com/julianshen/atlas/internal/enrich"
	"github.com/julianshen/atlas/internal/pipeline"
	"github.com/julianshen/atlas/internal/store"
)

func buildCmd() *cobra.Command {
	var (
		concurrencyFlag int
		noRenderFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the full aggregation and asset build pipeline",
		Long: `Read the element catalog, process definitions and diagram sources,
cross-link them, fetch contextual references, build the search index
and (re)render stale diagram assets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if concurrencyFlag > 0 {
				cfg.Build.Concurrency = concurrencyFlag
			}
			if noRenderFlag {
				cfg.Build.RenderPDF = false
			}

			// Enrichment is optional: no store URL means every term
			// resolves to an empty reference list.
			var enricher *enrich.Enricher
			if cfg.Vector.URL != "" {
				enricher = enrich.New(enrich.NewClient(cfg.Vector.URL, cfg.Vector.APIKey, cfg.Vector.Collection))
			} else {
				fmt.Fprintln(os.Stderr, "atlas: no vector store configured, skipping enrichment")
			}

			var renderer assets.Renderer
			if cfg.Build.RenderPDF {
				chrome, err := assets.NewChromeRenderer(cmd.Context())
				if err != nil {
					fmt.Fprintf(os.Stderr, "atlas: WARNING: PDF rendering disabled: %v\n", err)
				} else {
					defer chrome.Close()
					renderer = chrome
				}
			}

			history := openHistory(cfg.Build.HistoryDB)
			if history != nil {
				defer history.Close()
			}

			return pipeline.Run(cmd.Context(), pipeline.Options{
				Config:   cfg,
				Enricher: enricher,
				Renderer: renderer,
				History:  history,
			})
		},
	}

	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "max parallel renders and lookups (0 = config default)")
	cmd.Flags().BoolVar(&noRenderFlag, "no-render", false, "skip PDF rendering")

	return cmd
}

// openHistory opens the run history store; history is best-effort and
// never blocks a build.
func openHistory(dbPath string) *store.Store {
	if dbPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "atlas: WARNING: creating history directory: %v\n", err)
		return nil
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas: WARNING: opening history store: %v\n", err)
		return nil
	}
	return s
}
