package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/textcat/internal/bootstrap"
	"github.com/kirillkom/textcat/internal/infrastructure/report"
)

var showCategories bool

func init() {
	runCmd.Flags().BoolVar(&showCategories, "categories", false, "print category top terms")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train on the labelled corpus and classify the unknown documents",
	Long: `Train category signatures and classify the unknown corpus, printing the
time of every phase and the resulting accuracy.

Examples:
  # Run with defaults (data/train.csv, data/unknown.txt, data/unknown_truth.txt)
  textcat run

  # Single-threaded run over custom inputs
  textcat run --sequential --train bbc.csv --unknown docs.txt --truth labels.txt

  # Only build and print the category signatures
  textcat run --no-classify --categories`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			r, err := app.Pipeline.Run(ctx, app.RunRequest())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (%s, %d workers)\n", r.ID, r.Mode, r.Workers)
			fmt.Fprint(out, report.FormatPerformance(r.Timings, r.Summary, r.Failures))
			if showCategories {
				fmt.Fprintln(out)
				fmt.Fprint(out, report.FormatCategories(r.Signatures, r.Failures))
			}
			return nil
		})
	},
}
