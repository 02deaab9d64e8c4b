// cmd/atlas/history.go
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianshen/atlas/internal/store"
)

func historyCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent build runs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Build.HistoryDB == "" {
				return fmt.Errorf("no history database configured")
			}

			s, err := store.NewStore(cfg.Build.HistoryDB)
			if err != nil {
				return fmt.Errorf("opening history store: %w", err)
			}
			defer s.Close()

			runs, err := s.RecentRuns(limitFlag)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(os.Stderr, "atlas: no recorded runs.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tDURATION\tELEMENTS\tPROCESSES\tDIAGRAMS\tRENDERED\tCOPIED")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.Duration.Round(time.Millisecond),
					r.Elements, r.Processes, r.Diagrams, r.RenderedPDFs, r.CopiedAssets)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "number of runs to show")

	return cmd
}
