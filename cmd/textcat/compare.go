package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/textcat/internal/bootstrap"
	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/infrastructure/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the pipeline sequentially and in parallel and compare phase times",
	Long: `Run the same inputs once on a single goroutine and once with the worker
pool, verify that both runs produce the same TF-IDF weights and print the
speedup of every phase.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			cmp, err := app.Pipeline.Compare(ctx, app.RunRequest())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-24s %14s %14s %8s\n", "Phase", "Sequential ms", "Parallel ms", "Speedup")
			for _, t := range cmp.Sequential.Timings {
				var parallel string
				for _, p := range cmp.Parallel.Timings {
					if p.Phase == t.Phase {
						parallel = report.Milliseconds(p.Elapsed)
					}
				}
				fmt.Fprintf(out, "%-24s %14s %14s %7.2fx\n", t.Phase, report.Milliseconds(t.Elapsed), parallel, cmp.Speedup(t.Phase))
			}
			fmt.Fprintf(out, "Max TF-IDF deviation: %g\n", cmp.MaxDeviation)
			fmt.Fprintf(out, "Accuracy: %s (sequential), %s (parallel)\n",
				accuracy(cmp.Sequential), accuracy(cmp.Parallel))
			return nil
		})
	},
}

func accuracy(r *domain.RunReport) string {
	return report.FormatAccuracy(r.Summary)
}
