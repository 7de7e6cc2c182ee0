package ports

import (
	"context"
	"io"

	"github.com/kirillkom/textcat/internal/core/domain"
)

// Normalizer turns raw text into normalized, stemmed tokens without stop-words.
type Normalizer interface {
	Normalize(text string) []string
}

// DatasetReader loads the three line-oriented inputs of a run.
type DatasetReader interface {
	ReadLabeled(ctx context.Context, path string) ([]domain.LabeledText, error)
	ReadUnlabeled(ctx context.Context, path string) ([]string, error)
	ReadGroundTruth(ctx context.Context, path string) ([]domain.Label, error)
}

// TextExtractor extracts plain text from a standalone document file.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ObjectStorage stores rendered reports.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// RunSink receives the finished report of a run.
type RunSink interface {
	Name() string
	Record(ctx context.Context, report *domain.RunReport) error
}
