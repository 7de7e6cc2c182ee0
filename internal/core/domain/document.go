package domain

// Document is a single text of a corpus together with its term statistics.
//
// A document is filled by the vectorization and TF-IDF stages and is
// read-only once those stages have completed.
type Document struct {
	ID       int
	Text     string
	Category Label

	TermCount     map[string]int
	TermFrequency map[string]float64
	TFIDF         map[string]float64
	TotalTerms    int
}

func NewDocument(text string, category Label) *Document {
	return &Document{
		Text:          text,
		Category:      category,
		TermCount:     make(map[string]int),
		TermFrequency: make(map[string]float64),
		TFIDF:         make(map[string]float64),
	}
}

// RecordTerm counts one occurrence of an already normalized term.
func (d *Document) RecordTerm(term string) {
	if d.TermCount == nil {
		d.TermCount = make(map[string]int)
	}
	d.TermCount[term]++
	d.TotalTerms++
}

// Frequency returns count(term) / total terms, or 0 for an empty document.
func (d *Document) Frequency(term string) float64 {
	if d.TotalTerms == 0 {
		return 0
	}
	return float64(d.TermCount[term]) / float64(d.TotalTerms)
}

// ComputeFrequencies replaces the frequency map with one entry per counted term.
func (d *Document) ComputeFrequencies() {
	freq := make(map[string]float64, len(d.TermCount))
	for term := range d.TermCount {
		freq[term] = d.Frequency(term)
	}
	d.TermFrequency = freq
}

func (d *Document) Contains(term string) bool {
	return d.TermCount[term] > 0
}

// LabeledText is one raw training record.
type LabeledText struct {
	Label Label
	Text  string
}
