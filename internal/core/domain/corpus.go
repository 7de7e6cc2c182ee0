package domain

import "math"

// Corpus is an ordered collection of documents plus corpus-wide term statistics.
//
// Documents are appended sequentially; the slice is never resized while a
// parallel stage runs over it.
type Corpus struct {
	Documents []*Document
	// IDF caches term -> inverse document frequency when the TF-IDF stage
	// precomputes document frequencies.
	IDF map[string]float64

	vectorized bool
	weighted   bool
}

func NewCorpus() *Corpus {
	return &Corpus{
		IDF: make(map[string]float64),
	}
}

func (c *Corpus) Add(doc *Document) {
	c.Documents = append(c.Documents, doc)
	c.vectorized = false
	c.weighted = false
}

// Len is the total document count that drives work partitioning.
func (c *Corpus) Len() int {
	return len(c.Documents)
}

// DocumentFrequency scans the corpus for documents containing term.
func (c *Corpus) DocumentFrequency(term string) int {
	n := 0
	for _, doc := range c.Documents {
		if doc.Contains(term) {
			n++
		}
	}
	return n
}

// DocumentFrequencies counts, in one pass, the documents containing each term.
func (c *Corpus) DocumentFrequencies() map[string]int {
	df := make(map[string]int)
	for _, doc := range c.Documents {
		for term, count := range doc.TermCount {
			if count > 0 {
				df[term]++
			}
		}
	}
	return df
}

func (c *Corpus) MarkVectorized() { c.vectorized = true }

func (c *Corpus) Vectorized() bool { return c.vectorized }

func (c *Corpus) MarkWeighted() { c.weighted = true }

func (c *Corpus) Weighted() bool { return c.weighted }

// InverseDocumentFrequency returns ln(total/df), or 0 when either is not positive.
func InverseDocumentFrequency(total, df int) float64 {
	if total <= 0 || df <= 0 {
		return 0
	}
	return math.Log(float64(total) / float64(df))
}
