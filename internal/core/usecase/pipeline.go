package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/textcat/internal/core/category"
	"github.com/kirillkom/textcat/internal/core/classify"
	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/core/ports"
	"github.com/kirillkom/textcat/internal/core/tfidf"
)

const (
	IDFSourceSelf     = "self"
	IDFSourceTraining = "training"

	// maxModeDeviation bounds the TF-IDF difference tolerated between a
	// sequential and a parallel run over the same input.
	maxModeDeviation = 1e-12
)

type PipelineOptions struct {
	Parallel               bool
	Workers                int
	TopTerms               int
	LocalDepth             int
	CacheDocumentFrequency bool
	// UnknownIDFSource is IDFSourceSelf or IDFSourceTraining.
	UnknownIDFSource string
}

// Model is a trained corpus with its category signatures.
type Model struct {
	Corpus     *domain.Corpus
	Signatures []*domain.CategorySignature
	Failures   []domain.CategoryFailure
	Report     *domain.RunReport
}

type PipelineUseCase struct {
	reader     ports.DatasetReader
	normalizer ports.Normalizer
	metrics    ports.PipelineMetrics
	logger     *slog.Logger
	sinks      []ports.RunSink
	opts       PipelineOptions

	now   func() time.Time
	newID func() string
}

func NewPipelineUseCase(
	reader ports.DatasetReader,
	normalizer ports.Normalizer,
	metrics ports.PipelineMetrics,
	logger *slog.Logger,
	opts PipelineOptions,
	sinks ...ports.RunSink,
) *PipelineUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.UnknownIDFSource == "" {
		opts.UnknownIDFSource = IDFSourceSelf
	}
	return &PipelineUseCase{
		reader:     reader,
		normalizer: normalizer,
		metrics:    metrics,
		logger:     logger,
		sinks:      sinks,
		opts:       opts,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Run trains on req.TrainingPath, optionally classifies the unknown corpus,
// then hands the report to every sink.
func (uc *PipelineUseCase) Run(ctx context.Context, req ports.RunRequest) (*domain.RunReport, error) {
	report, _, err := uc.execute(ctx, req, uc.opts)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, report)
	return report, nil
}

// Compare runs the same request sequentially and in parallel and checks that
// both produce the same TF-IDF weights.
func (uc *PipelineUseCase) Compare(ctx context.Context, req ports.RunRequest) (*domain.Comparison, error) {
	seqOpts, parOpts := uc.opts, uc.opts
	seqOpts.Parallel, parOpts.Parallel = false, true

	seqReport, seqModel, err := uc.execute(ctx, req, seqOpts)
	if err != nil {
		return nil, fmt.Errorf("sequential run: %w", err)
	}
	parReport, parModel, err := uc.execute(ctx, req, parOpts)
	if err != nil {
		return nil, fmt.Errorf("parallel run: %w", err)
	}

	deviation, err := tfidf.MaxDeviation(seqModel.Corpus, parModel.Corpus)
	if err != nil {
		return nil, fmt.Errorf("compare runs: %w", err)
	}
	if deviation > maxModeDeviation {
		return nil, domain.WrapError(domain.ErrInvariant, "compare runs",
			fmt.Errorf("parallel tf-idf deviates from sequential by %g", deviation))
	}

	cmp := &domain.Comparison{Sequential: seqReport, Parallel: parReport, MaxDeviation: deviation}
	for _, phase := range []domain.Phase{domain.PhaseVectorization, domain.PhaseTFIDF, domain.PhaseCategories, domain.PhaseUnknown} {
		if s := cmp.Speedup(phase); s > 0 {
			uc.logger.Info("phase_speedup", "phase", phase, "speedup", s)
		}
	}
	uc.publish(ctx, seqReport)
	uc.publish(ctx, parReport)
	return cmp, nil
}

// Train builds a model without classifying or publishing anything.
func (uc *PipelineUseCase) Train(ctx context.Context, trainingPath string) (*Model, error) {
	report := uc.newReport(uc.opts)
	model, err := uc.train(ctx, trainingPath, report, uc.opts)
	if err != nil {
		return nil, err
	}
	report.FinishedAt = uc.now()
	return model, nil
}

func (uc *PipelineUseCase) execute(ctx context.Context, req ports.RunRequest, opts PipelineOptions) (*domain.RunReport, *Model, error) {
	report := uc.newReport(opts)
	model, err := uc.train(ctx, req.TrainingPath, report, opts)
	if err != nil {
		return nil, nil, err
	}
	if req.ClassifyUnknown {
		if err := uc.classifyUnknown(ctx, model, req, report, opts); err != nil {
			return nil, nil, err
		}
	}
	report.FinishedAt = uc.now()
	return report, model, nil
}

func (uc *PipelineUseCase) newReport(opts PipelineOptions) *domain.RunReport {
	report := &domain.RunReport{
		ID:        uc.newID(),
		StartedAt: uc.now(),
		Mode:      domain.ModeSequential,
		Workers:   1,
	}
	if opts.Parallel {
		report.Mode = domain.ModeParallel
		report.Workers = tfidf.Workers(opts.Workers)
	}
	return report
}

func (uc *PipelineUseCase) train(ctx context.Context, path string, report *domain.RunReport, opts PipelineOptions) (*Model, error) {
	records, err := uc.reader.ReadLabeled(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load training corpus: %w", err)
	}
	corpus := domain.NewCorpus()
	for _, rec := range records {
		corpus.Add(domain.NewDocument(rec.Text, rec.Label))
	}
	report.TrainingDocuments = corpus.Len()
	uc.metrics.AddDocuments("training", corpus.Len())

	if err := uc.phase(ctx, report, domain.PhaseVectorization, corpus.Len(), func() error {
		uc.vectorize(corpus, report, opts)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := uc.phase(ctx, report, domain.PhaseTFIDF, corpus.Len(), func() error {
		return tfidf.Compute(corpus, uc.tfidfOptions(report, opts))
	}); err != nil {
		return nil, err
	}

	model := &Model{Corpus: corpus, Report: report}
	if err := uc.phase(ctx, report, domain.PhaseCategories, corpus.Len(), func() error {
		sigs, failures, err := category.BuildAll(corpus, domain.Labels(), category.Options{
			Parallel:   opts.Parallel,
			TopTerms:   opts.TopTerms,
			LocalDepth: opts.LocalDepth,
		})
		if err != nil {
			return err
		}
		model.Signatures, model.Failures = sigs, failures
		return nil
	}); err != nil {
		return nil, err
	}

	report.Signatures, report.Failures = model.Signatures, model.Failures
	for _, f := range model.Failures {
		uc.metrics.ObserveSignatureFailure(f)
		uc.logger.Warn("category_signature_skipped", "run_id", report.ID, "category", f.Label.String(), "reason", f.Reason)
	}
	if len(model.Signatures) == 0 {
		return nil, domain.WrapError(domain.ErrNoCategoryData, "train",
			fmt.Errorf("no category signature could be built from %d documents", corpus.Len()))
	}
	return model, nil
}

func (uc *PipelineUseCase) classifyUnknown(ctx context.Context, model *Model, req ports.RunRequest, report *domain.RunReport, opts PipelineOptions) error {
	texts, err := uc.reader.ReadUnlabeled(ctx, req.UnknownPath)
	if err != nil {
		return fmt.Errorf("load unknown corpus: %w", err)
	}
	truth, err := uc.reader.ReadGroundTruth(ctx, req.GroundTruthPath)
	if err != nil {
		return fmt.Errorf("load ground truth: %w", err)
	}
	unknown := domain.NewCorpus()
	for _, text := range texts {
		unknown.Add(domain.NewDocument(text, domain.LabelInvalid))
	}
	report.UnknownDocuments = unknown.Len()
	uc.metrics.AddDocuments("unknown", unknown.Len())

	var summary *domain.ClassificationSummary
	err = uc.phase(ctx, report, domain.PhaseUnknown, unknown.Len(), func() error {
		uc.vectorize(unknown, report, opts)
		tfOpts := uc.tfidfOptions(report, opts)
		var err error
		if opts.UnknownIDFSource == IDFSourceTraining {
			err = tfidf.ComputeWith(unknown, model.Corpus, tfOpts)
		} else {
			err = tfidf.Compute(unknown, tfOpts)
		}
		if err != nil {
			return err
		}
		summary, err = classify.ClassifyCorpus(unknown, truth, model.Signatures, classify.Options{
			Parallel: opts.Parallel,
			Workers:  report.Workers,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("classify unknown corpus: %w", err)
	}

	report.Summary = summary
	uc.metrics.ObserveClassification(summary)
	if _, err := summary.Accuracy(); errors.Is(err, domain.ErrUndefinedAccuracy) {
		uc.logger.Warn("accuracy_undefined", "run_id", report.ID, "reason", "no unknown documents")
	}
	return nil
}

func (uc *PipelineUseCase) vectorize(c *domain.Corpus, report *domain.RunReport, opts PipelineOptions) {
	if opts.Parallel {
		tfidf.Vectorize(c, uc.normalizer, report.Workers)
		return
	}
	tfidf.VectorizeSequential(c, uc.normalizer)
}

func (uc *PipelineUseCase) tfidfOptions(report *domain.RunReport, opts PipelineOptions) tfidf.Options {
	return tfidf.Options{
		Parallel:               opts.Parallel,
		Workers:                report.Workers,
		CacheDocumentFrequency: opts.CacheDocumentFrequency,
	}
}

// phase times fn and records it on the report once it succeeds.
func (uc *PipelineUseCase) phase(ctx context.Context, report *domain.RunReport, phase domain.Phase, documents int, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("%s phase: %w", phase, err)
	}
	elapsed := time.Since(start)

	report.AddTiming(phase, elapsed)
	uc.metrics.ObservePhase(phase, report.Mode, elapsed)
	uc.logger.Info("phase_completed",
		"run_id", report.ID,
		"phase", phase,
		"mode", report.Mode,
		"workers", report.Workers,
		"documents", documents,
		"elapsed_ms", float64(elapsed.Microseconds())/1000.0,
	)
	return nil
}

// publish hands the report to every sink. Sink failures are logged and counted
// but never fail the run.
func (uc *PipelineUseCase) publish(ctx context.Context, report *domain.RunReport) {
	for _, sink := range uc.sinks {
		if err := sink.Record(ctx, report); err != nil {
			uc.metrics.ObserveSinkFailure(sink.Name())
			uc.logger.Error("run_sink_failed", "run_id", report.ID, "sink", sink.Name(), "error", err)
		}
	}
	if err := uc.metrics.Push(ctx); err != nil {
		uc.logger.Error("metrics_push_failed", "run_id", report.ID, "error", err)
	}
}

type noopMetrics struct{}

func (noopMetrics) ObservePhase(domain.Phase, domain.RunMode, time.Duration) {}
func (noopMetrics) AddDocuments(string, int) {}
func (noopMetrics) ObserveClassification(*domain.ClassificationSummary) {}
func (noopMetrics) ObserveSignatureFailure(domain.CategoryFailure) {}
func (noopMetrics) ObserveSinkFailure(string) {}
func (noopMetrics) Push(context.Context) error { return nil }
