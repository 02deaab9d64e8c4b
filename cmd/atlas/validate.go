// cmd/atlas/validate.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/atlas/internal/artifact"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the build artifacts for consistency",
		Long: `Assert that the three output artifacts exist, that every diagram has
at least one image asset (warning only), and that every diagram
declaring a PDF path actually has the PDF on disk (hard failure).`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			report, err := artifact.Validate(cfg.Output.DataDir, cfg.Output.PublicDir)
			if err != nil {
				return err
			}

			for _, w := range report.Warnings {
				fmt.Fprintf(os.Stderr, "atlas: WARNING: %s\n", w)
			}
			for _, e := range report.Errors {
				fmt.Fprintf(os.Stderr, "atlas: ERROR: %s\n", e)
			}

			if !report.OK() {
				return fmt.Errorf("validation failed with %d error(s)", len(report.Errors))
			}

			fmt.Fprintln(os.Stderr, "atlas: artifacts are consistent.")
			return nil
		},
	}
}
