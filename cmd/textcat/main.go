// Package main implements the textcat CLI: train category signatures from a
// labelled corpus and classify unknown documents against them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirillkom/textcat/internal/bootstrap"
	"github.com/kirillkom/textcat/internal/config"
	"github.com/kirillkom/textcat/internal/observability/logging"
)

var (
	version = "dev"

	configPath string
	overrides  flagOverrides
)

// flagOverrides are applied on top of the file and environment config, but
// only for flags set on the command line.
type flagOverrides struct {
	train      string
	unknown    string
	truth      string
	outputDir  string
	workers    int
	sequential bool
	noClassify bool
	idfSource  string
	xlsx       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "textcat",
	Short: "TF-IDF text categorization",
	Long: `textcat builds one TF-IDF signature per category from a labelled training
corpus and assigns unknown documents to the category with the highest cosine
similarity.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVar(&overrides.train, "train", "", "labelled training file (.csv or .xlsx)")
	flags.StringVar(&overrides.unknown, "unknown", "", "unknown documents, one per line")
	flags.StringVar(&overrides.truth, "truth", "", "ground truth labels, one per line")
	flags.StringVar(&overrides.outputDir, "output-dir", "", "directory for report artifacts")
	flags.IntVar(&overrides.workers, "workers", 0, "worker count for parallel phases (0 = all CPUs)")
	flags.BoolVar(&overrides.sequential, "sequential", false, "run every phase on a single goroutine")
	flags.BoolVar(&overrides.noClassify, "no-classify", false, "stop after building category signatures")
	flags.StringVar(&overrides.idfSource, "unknown-idf", "", `IDF source for unknown documents: "self" or "training" (a single-line unknown file needs "training")`)
	flags.BoolVar(&overrides.xlsx, "xlsx", false, "also write an .xlsx report workbook")

	rootCmd.AddCommand(runCmd, compareCmd, classifyCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("train") {
		cfg.TrainingFile = overrides.train
	}
	if flags.Changed("unknown") {
		cfg.UnknownFile = overrides.unknown
	}
	if flags.Changed("truth") {
		cfg.GroundTruthFile = overrides.truth
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = overrides.outputDir
	}
	if flags.Changed("workers") {
		cfg.Workers = overrides.workers
	}
	if flags.Changed("sequential") {
		cfg.Parallel = !overrides.sequential
	}
	if flags.Changed("no-classify") {
		cfg.ClassifyUnknown = !overrides.noClassify
	}
	if flags.Changed("unknown-idf") {
		cfg.UnknownIDFSource = strings.ToLower(overrides.idfSource)
	}
	if flags.Changed("xlsx") {
		cfg.OutputXLSX = overrides.xlsx
	}
	return cfg, cfg.Validate()
}

// withApp loads the config, wires the application and runs fn. Failures are
// logged as command_failed.
func withApp(cmd *cobra.Command, fn func(context.Context, *bootstrap.App) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return err
	}
	logger := logging.NewJSONLogger("textcat", cfg.LogLevel)

	ctx := cmd.Context()
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("command_failed", "command", cmd.Name(), "stage", "bootstrap", "error", err)
		return err
	}
	defer app.Close()

	if err := fn(ctx, app); err != nil {
		logger.Error("command_failed", "command", cmd.Name(), "error", err)
		return err
	}
	return nil
}
