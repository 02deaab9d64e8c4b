// cmd/atlas/search.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/julianshen/atlas/internal/artifact"
	"github.com/julianshen/atlas/internal/atlas"
	"github.com/julianshen/atlas/internal/search"
)

func searchCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Query the built search index",
		Long: `Load the search index artifact from the last build and rank it
against the query. Useful for checking relevance before deploying.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.Output.DataDir, artifact.SearchIndexFile)
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading search index (run 'atlas build' first): %w", err)
			}
			var items []atlas.SearchItem
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("parsing search index %s: %w", path, err)
			}

			query := strings.Join(args, " ")
			results := search.BuildIndex(items).Search(query, limitFlag)
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "atlas: no matches.")
				return nil
			}

			for _, r := range results {
				fmt.Printf("%.3f  %-8s %-40s %s\n", r.Score, r.Item.Type, r.Item.Title, r.Item.URL)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "maximum number of results")

	return cmd
}
