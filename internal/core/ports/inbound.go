package ports

import (
	"context"

	"github.com/kirillkom/textcat/internal/core/domain"
)

// RunRequest selects the inputs and stages of one pipeline run.
type RunRequest struct {
	TrainingPath    string
	UnknownPath     string
	GroundTruthPath string
	ClassifyUnknown bool
}

// Pipeline is the inbound contract for a full train + classify batch run.
type Pipeline interface {
	Run(ctx context.Context, req RunRequest) (*domain.RunReport, error)
	Compare(ctx context.Context, req RunRequest) (*domain.Comparison, error)
}

// TextClassifier classifies standalone files against a trained model.
type TextClassifier interface {
	ClassifyFile(ctx context.Context, path string) (domain.Prediction, error)
}
