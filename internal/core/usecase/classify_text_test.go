package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/textcat/internal/core/domain"
)

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, string) (string, error) {
	return f.text, f.err
}

func trainedModel(t *testing.T) *Model {
	t.Helper()
	uc := NewPipelineUseCase(sportTechReader(), suffixNormalizer{}, nil, quietLogger(), PipelineOptions{Parallel: true, CacheDocumentFrequency: true})
	model, err := uc.Train(context.Background(), "train.csv")
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return model
}

func TestClassifyFile(t *testing.T) {
	model := trainedModel(t)
	if model.Report == nil || len(model.Report.Timings) != 3 {
		t.Fatalf("expected training timings on the model report")
	}

	uc := NewClassifyTextUseCase(model, &extractorFake{text: "Team Score"}, suffixNormalizer{})
	got, err := uc.ClassifyFile(context.Background(), "match.txt")
	if err != nil {
		t.Fatalf("ClassifyFile() error = %v", err)
	}
	if got.Label != domain.LabelSport || got.Similarity <= 0 || got.Unclassified {
		t.Fatalf("unexpected prediction %+v", got)
	}

	if got := uc.ClassifyText("weather forecast"); !got.Unclassified || got.Label != domain.LabelInvalid {
		t.Fatalf("expected unclassified prediction, got %+v", got)
	}
}

func TestClassifyFileErrors(t *testing.T) {
	model := trainedModel(t)

	uc := NewClassifyTextUseCase(model, &extractorFake{}, suffixNormalizer{})
	if _, err := uc.ClassifyFile(context.Background(), "empty.txt"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	errPDF := errors.New("broken pdf")
	uc = NewClassifyTextUseCase(model, &extractorFake{err: errPDF}, suffixNormalizer{})
	if _, err := uc.ClassifyFile(context.Background(), "doc.pdf"); !errors.Is(err, errPDF) {
		t.Fatalf("expected extractor error, got %v", err)
	}
}
