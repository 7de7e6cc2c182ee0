package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/textcat/internal/bootstrap"
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE...",
	Short: "Classify standalone text or PDF files",
	Long: `Train on the labelled corpus, then classify each file against the category
signatures using the training IDF.

Examples:
  textcat classify article.txt report.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			classifier, err := app.TextClassifier(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range args {
				prediction, err := classifier.ClassifyFile(ctx, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if prediction.Unclassified {
					fmt.Fprintf(out, "%s\tunclassified\n", path)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%.6f\n", path, prediction.Label, prediction.Similarity)
			}
			return nil
		})
	},
}
