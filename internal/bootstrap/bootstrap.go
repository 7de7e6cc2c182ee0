package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kirillkom/textcat/internal/config"
	"github.com/kirillkom/textcat/internal/core/ports"
	"github.com/kirillkom/textcat/internal/core/usecase"
	"github.com/kirillkom/textcat/internal/infrastructure/dataset"
	"github.com/kirillkom/textcat/internal/infrastructure/extractor"
	natsq "github.com/kirillkom/textcat/internal/infrastructure/queue/nats"
	"github.com/kirillkom/textcat/internal/infrastructure/report"
	"github.com/kirillkom/textcat/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/textcat/internal/infrastructure/resilience"
	"github.com/kirillkom/textcat/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/textcat/internal/infrastructure/textnorm"
	"github.com/kirillkom/textcat/internal/observability/metrics"
)

const serviceName = "textcat"

type App struct {
	Config config.Config
	Logger *slog.Logger

	Pipeline   *usecase.PipelineUseCase
	Normalizer ports.Normalizer
	Extractor  ports.TextExtractor
	Metrics    *metrics.PipelineMetrics

	closeFn func()
}

// New wires the pipeline with its report sinks. Postgres and NATS sinks are
// only attached when their connection settings are present.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	storage, err := localfs.New(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("init output storage: %w", err)
	}
	sinks := []ports.RunSink{
		report.NewExporter(storage, report.Outputs{
			Performance: cfg.OutputPerformance,
			CSV:         cfg.OutputCSV,
			XLSX:        cfg.OutputXLSX,
			Categories:  cfg.OutputCategories,
		}),
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		db, err = postgres.OpenDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewRunRepository(db, executor)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		sinks = append(sinks, repo)
	}

	var publisher *natsq.Publisher
	if cfg.NATSURL != "" {
		publisher, err = natsq.New(cfg.NATSURL, cfg.NATSSubject, natsq.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			if db != nil {
				_ = db.Close()
			}
			return nil, fmt.Errorf("init run publisher: %w", err)
		}
		sinks = append(sinks, publisher)
	}

	pipelineMetrics := metrics.NewPipelineMetrics(serviceName, cfg.MetricsPushgatewayURL, cfg.MetricsJob)
	normalizer := textnorm.New()
	pipeline := usecase.NewPipelineUseCase(
		dataset.NewReader(),
		normalizer,
		pipelineMetrics,
		logger,
		usecase.PipelineOptions{
			Parallel:               cfg.Parallel,
			Workers:                cfg.Workers,
			TopTerms:               cfg.TopTerms,
			LocalDepth:             cfg.LocalTopTerms,
			CacheDocumentFrequency: cfg.DFCache,
			UnknownIDFSource:       cfg.UnknownIDFSource,
		},
		sinks...,
	)

	logger.Info("pipeline_configured",
		"parallel", cfg.Parallel,
		"workers", cfg.Workers,
		"unknown_idf_source", cfg.UnknownIDFSource,
		"output_dir", storage.BasePath(),
		"postgres", db != nil,
		"nats", publisher != nil,
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Pipeline:   pipeline,
		Normalizer: normalizer,
		Extractor:  extractor.New(),
		Metrics:    pipelineMetrics,

		closeFn: func() {
			if publisher != nil {
				publisher.Close()
			}
			if db != nil {
				_ = db.Close()
			}
		},
	}, nil
}

// RunRequest builds a pipeline request from the configured input files.
func (a *App) RunRequest() ports.RunRequest {
	return ports.RunRequest{
		TrainingPath:    a.Config.TrainingFile,
		UnknownPath:     a.Config.UnknownFile,
		GroundTruthPath: a.Config.GroundTruthFile,
		ClassifyUnknown: a.Config.ClassifyUnknown,
	}
}

// TextClassifier trains on the configured training file and returns a
// classifier for standalone documents.
func (a *App) TextClassifier(ctx context.Context) (*usecase.ClassifyTextUseCase, error) {
	model, err := a.Pipeline.Train(ctx, a.Config.TrainingFile)
	if err != nil {
		return nil, err
	}
	return usecase.NewClassifyTextUseCase(model, a.Extractor, a.Normalizer), nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
