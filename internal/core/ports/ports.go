package ports

import (
	"context"
	"time"

	"github.com/kirillkom/textcat/internal/core/domain"
)

// PipelineMetrics observes pipeline progress.
type PipelineMetrics interface {
	ObservePhase(phase domain.Phase, mode domain.RunMode, elapsed time.Duration)
	AddDocuments(corpus string, n int)
	ObserveClassification(summary *domain.ClassificationSummary)
	ObserveSignatureFailure(failure domain.CategoryFailure)
	ObserveSinkFailure(sink string)
	Push(ctx context.Context) error
}
