package tfidf

import (
	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/core/ports"
)

// Vectorize counts the normalized terms of every document in parallel.
// The normalizer must be safe for concurrent use.
func Vectorize(c *domain.Corpus, normalizer ports.Normalizer, workers int) {
	ForEach(Plan(c.Len(), Workers(workers)), func(p Partition) {
		for i := p.Start; i < p.End; i++ {
			vectorizeDocument(c.Documents[i], i, normalizer)
		}
	})
	c.MarkVectorized()
}

func VectorizeSequential(c *domain.Corpus, normalizer ports.Normalizer) {
	for i, doc := range c.Documents {
		vectorizeDocument(doc, i, normalizer)
	}
	c.MarkVectorized()
}

func vectorizeDocument(doc *domain.Document, id int, normalizer ports.Normalizer) {
	doc.ID = id
	doc.TermCount = make(map[string]int)
	doc.TotalTerms = 0
	for _, token := range normalizer.Normalize(doc.Text) {
		doc.RecordTerm(token)
	}
	doc.ComputeFrequencies()
}
