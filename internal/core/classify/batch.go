package classify

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/core/tfidf"
)

type Options struct {
	Parallel bool
	Workers  int
}

// Batch accumulates the results of one classification run. Counters are
// atomic and the result list has its own lock, so workers only contend on
// the append.
type Batch struct {
	correct atomic.Int64
	total   atomic.Int64

	mu      sync.Mutex
	results []domain.ClassificationResult
}

func NewBatch() *Batch {
	return &Batch{}
}

// Reset clears the batch so it can be reused for another run.
func (b *Batch) Reset() {
	b.correct.Store(0)
	b.total.Store(0)
	b.mu.Lock()
	b.results = nil
	b.mu.Unlock()
}

func (b *Batch) record(result domain.ClassificationResult) {
	b.total.Add(1)
	if result.Correct {
		b.correct.Add(1)
	}
	b.mu.Lock()
	b.results = append(b.results, result)
	b.mu.Unlock()
}

// Summary snapshots the batch with results ordered by document id.
func (b *Batch) Summary() *domain.ClassificationSummary {
	b.mu.Lock()
	results := slices.Clone(b.results)
	b.mu.Unlock()
	slices.SortFunc(results, func(x, y domain.ClassificationResult) int {
		return cmp.Compare(x.DocumentID, y.DocumentID)
	})
	return &domain.ClassificationSummary{
		Total:   int(b.total.Load()),
		Correct: int(b.correct.Load()),
		Results: results,
	}
}

// ClassifyCorpus predicts a label for every document of a weighted corpus,
// writes it to the document's Category and scores it against truth, which
// must be index-aligned with the corpus.
func ClassifyCorpus(c *domain.Corpus, truth []domain.Label, signatures []*domain.CategorySignature, opts Options) (*domain.ClassificationSummary, error) {
	batch := NewBatch()
	if err := batch.Run(c, truth, signatures, opts); err != nil {
		return nil, err
	}
	return batch.Summary(), nil
}

// Run classifies c into the batch. The batch is reset first.
func (b *Batch) Run(c *domain.Corpus, truth []domain.Label, signatures []*domain.CategorySignature, opts Options) error {
	if !c.Weighted() {
		return domain.WrapError(domain.ErrInvariant, "classify corpus", errors.New("corpus has no tf-idf weights"))
	}
	if len(truth) != c.Len() {
		return domain.WrapError(domain.ErrInvalidInput, "classify corpus",
			fmt.Errorf("ground truth has %d labels for %d documents", len(truth), c.Len()))
	}
	b.Reset()

	if !opts.Parallel {
		results := make([]domain.ClassificationResult, 0, c.Len())
		correct := 0
		for i, doc := range c.Documents {
			result := classifyDocument(doc, truth[i], signatures)
			if result.Correct {
				correct++
			}
			results = append(results, result)
		}
		b.results = results
		b.correct.Store(int64(correct))
		b.total.Store(int64(len(results)))
		return nil
	}
	tfidf.ForEach(tfidf.Plan(c.Len(), tfidf.Workers(opts.Workers)), func(p tfidf.Partition) {
		for i := p.Start; i < p.End; i++ {
			b.record(classifyDocument(c.Documents[i], truth[i], signatures))
		}
	})
	return nil
}

func classifyDocument(doc *domain.Document, expected domain.Label, signatures []*domain.CategorySignature) domain.ClassificationResult {
	prediction := Classify(doc.TFIDF, signatures)
	doc.Category = prediction.Label
	return domain.ClassificationResult{
		DocumentID:   doc.ID,
		Expected:     expected,
		Predicted:    prediction.Label,
		Similarity:   prediction.Similarity,
		Unclassified: prediction.Unclassified,
		Correct:      !prediction.Unclassified && prediction.Label == expected,
	}
}
