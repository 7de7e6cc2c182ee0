package tfidf

import (
	"errors"
	"fmt"
	"math"

	"github.com/kirillkom/textcat/internal/core/domain"
)

type Options struct {
	Parallel bool
	Workers  int
	// CacheDocumentFrequency builds the term -> df table once before the
	// fan-out instead of scanning the corpus for every (document, term) pair.
	CacheDocumentFrequency bool
}

// Compute weighs every document of c with tf(doc, term) * ln(N / df(term)).
func Compute(c *domain.Corpus, opts Options) error {
	if !c.Vectorized() {
		return domain.WrapError(domain.ErrInvariant, "compute tf-idf", errors.New("corpus is not vectorized"))
	}
	w := newWeigher(c, opts.CacheDocumentFrequency)
	if opts.CacheDocumentFrequency {
		c.IDF = w.idf
	}
	w.weighAll(c, opts)
	c.MarkWeighted()
	return nil
}

// ComputeWith weighs target using the document frequencies and size of
// reference. Terms that never occur in reference weigh 0.
func ComputeWith(target, reference *domain.Corpus, opts Options) error {
	if !target.Vectorized() || !reference.Vectorized() {
		return domain.WrapError(domain.ErrInvariant, "compute tf-idf against reference", errors.New("corpus is not vectorized"))
	}
	w := newWeigher(reference, opts.CacheDocumentFrequency)
	w.weighAll(target, opts)
	target.MarkWeighted()
	return nil
}

// WeighDocument weighs a single vectorized document against reference.
func WeighDocument(doc *domain.Document, reference *domain.Corpus) {
	w := &weigher{reference: reference, total: reference.Len(), idf: reference.IDF}
	if len(w.idf) == 0 {
		w.idf = nil
	}
	w.weigh(doc)
}

type weigher struct {
	reference *domain.Corpus
	total     int
	// idf is nil when document frequencies are scanned on demand.
	idf map[string]float64
}

func newWeigher(reference *domain.Corpus, cache bool) *weigher {
	w := &weigher{reference: reference, total: reference.Len()}
	if cache {
		df := reference.DocumentFrequencies()
		w.idf = make(map[string]float64, len(df))
		for term, n := range df {
			w.idf[term] = domain.InverseDocumentFrequency(w.total, n)
		}
	}
	return w
}

func (w *weigher) weighAll(c *domain.Corpus, opts Options) {
	if !opts.Parallel {
		for _, doc := range c.Documents {
			w.weigh(doc)
		}
		return
	}
	ForEach(Plan(c.Len(), Workers(opts.Workers)), func(p Partition) {
		for i := p.Start; i < p.End; i++ {
			w.weigh(c.Documents[i])
		}
	})
}

func (w *weigher) inverse(term string) float64 {
	if w.idf != nil {
		return w.idf[term]
	}
	return domain.InverseDocumentFrequency(w.total, w.reference.DocumentFrequency(term))
}

func (w *weigher) weigh(doc *domain.Document) {
	weights := make(map[string]float64, len(doc.TermCount))
	for term := range doc.TermCount {
		weights[term] = doc.Frequency(term) * w.inverse(term)
	}
	doc.TFIDF = weights
}

// MaxDeviation returns the largest absolute TF-IDF difference between two
// weighted corpora built from the same input.
func MaxDeviation(a, b *domain.Corpus) (float64, error) {
	if a.Len() != b.Len() {
		return 0, domain.WrapError(domain.ErrInvalidInput, "compare corpora",
			fmt.Errorf("document count mismatch: %d/%d", a.Len(), b.Len()))
	}
	worst := 0.0
	for i := range a.Documents {
		x, y := a.Documents[i].TFIDF, b.Documents[i].TFIDF
		for term, v := range x {
			worst = math.Max(worst, math.Abs(v-y[term]))
		}
		for term, v := range y {
			if _, ok := x[term]; !ok {
				worst = math.Max(worst, math.Abs(v))
			}
		}
	}
	return worst, nil
}
