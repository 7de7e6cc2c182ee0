package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/textcat/internal/core/classify"
	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/core/ports"
	"github.com/kirillkom/textcat/internal/core/tfidf"
)

// ClassifyTextUseCase classifies standalone texts against a trained model,
// weighting them with the training corpus IDF.
type ClassifyTextUseCase struct {
	model      *Model
	extractor  ports.TextExtractor
	normalizer ports.Normalizer
}

func NewClassifyTextUseCase(model *Model, extractor ports.TextExtractor, normalizer ports.Normalizer) *ClassifyTextUseCase {
	return &ClassifyTextUseCase{model: model, extractor: extractor, normalizer: normalizer}
}

func (uc *ClassifyTextUseCase) ClassifyFile(ctx context.Context, path string) (domain.Prediction, error) {
	text, err := uc.extractor.Extract(ctx, path)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return domain.Prediction{}, domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	return uc.ClassifyText(text), nil
}

func (uc *ClassifyTextUseCase) ClassifyText(text string) domain.Prediction {
	doc := domain.NewDocument(text, domain.LabelInvalid)
	for _, term := range uc.normalizer.Normalize(text) {
		doc.RecordTerm(term)
	}
	doc.ComputeFrequencies()
	tfidf.WeighDocument(doc, uc.model.Corpus)
	return classify.Classify(doc.TFIDF, uc.model.Signatures)
}
