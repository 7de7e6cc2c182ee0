// Package category aggregates the TF-IDF vectors of a labelled corpus into
// one signature per category.
package category

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/textcat/internal/core/domain"
)

const (
	DefaultTopTerms   = 5
	DefaultLocalDepth = 5
)

type Options struct {
	Parallel bool
	// TopTerms is the number of ranked terms kept per category.
	TopTerms int
	// LocalDepth is how many of each document's best terms are candidates.
	LocalDepth int
}

func (o Options) normalize() Options {
	if o.TopTerms <= 0 {
		o.TopTerms = DefaultTopTerms
	}
	if o.LocalDepth <= 0 {
		o.LocalDepth = DefaultLocalDepth
	}
	return o
}

// Build computes the signature of one label from a weighted corpus.
//
// It returns ErrNoCategoryData when no document carries the label and
// ErrEmptyVector when a member document has no weighted terms.
func Build(c *domain.Corpus, label domain.Label, opts Options) (*domain.CategorySignature, error) {
	if !c.Weighted() {
		return nil, domain.WrapError(domain.ErrInvariant, "build category signature", errors.New("corpus has no tf-idf weights"))
	}
	opts = opts.normalize()

	var ranked [][]domain.TermScore
	sums := make(map[string]float64)
	for _, doc := range c.Documents {
		if doc.Category != label {
			continue
		}
		if len(doc.TFIDF) == 0 {
			return nil, fmt.Errorf("category %s, document %d: %w", label, doc.ID, domain.ErrEmptyVector)
		}
		ranked = append(ranked, Rank(doc.TFIDF))
		for term, score := range doc.TFIDF {
			sums[term] += score
		}
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("category %s: %w", label, domain.ErrNoCategoryData)
	}

	profile := make(map[string]float64, len(sums))
	for term, sum := range sums {
		profile[term] = sum / float64(len(ranked))
	}

	return &domain.CategorySignature{
		Label:     label,
		Documents: len(ranked),
		TopTerms:  selectTopTerms(ranked, opts.TopTerms, opts.LocalDepth),
		Profile:   profile,
	}, nil
}

// Rank orders a TF-IDF map by descending score, then by term.
func Rank(weights map[string]float64) []domain.TermScore {
	out := make([]domain.TermScore, 0, len(weights))
	for term, score := range weights {
		out = append(out, domain.TermScore{Term: term, Score: score})
	}
	slices.SortFunc(out, func(a, b domain.TermScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	return out
}

// selectTopTerms picks, n times, the best not-yet-selected candidate among the
// first depth entries of every ranked document. Equal scores keep the first
// candidate encountered.
func selectTopTerms(ranked [][]domain.TermScore, n, depth int) []domain.TermScore {
	selected := make(map[string]struct{}, n)
	top := make([]domain.TermScore, 0, n)
	for len(top) < n {
		var best domain.TermScore
		found := false
		for _, terms := range ranked {
			for _, ts := range terms[:min(depth, len(terms))] {
				if _, used := selected[ts.Term]; used {
					continue
				}
				if !found || ts.Score > best.Score {
					best, found = ts, true
				}
			}
		}
		if !found {
			break
		}
		selected[best.Term] = struct{}{}
		top = append(top, best)
	}
	return top
}

// BuildAll builds a signature for every label. Labels without data or with an
// empty member vector are reported as failures; any other error aborts.
// Signatures are returned in label order.
func BuildAll(c *domain.Corpus, labels []domain.Label, opts Options) ([]*domain.CategorySignature, []domain.CategoryFailure, error) {
	var (
		mu         sync.Mutex
		signatures []*domain.CategorySignature
		failures   []domain.CategoryFailure
	)
	collect := func(sig *domain.CategorySignature, failure *domain.CategoryFailure) {
		mu.Lock()
		defer mu.Unlock()
		if sig != nil {
			signatures = append(signatures, sig)
		}
		if failure != nil {
			failures = append(failures, *failure)
		}
	}
	task := func(label domain.Label) error {
		sig, err := Build(c, label, opts)
		if err != nil {
			failure, ok := classifyFailure(label, err)
			if !ok {
				return err
			}
			collect(nil, &failure)
			return nil
		}
		collect(sig, nil)
		return nil
	}

	if opts.Parallel {
		var g errgroup.Group
		for _, label := range labels {
			g.Go(func() error { return task(label) })
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for _, label := range labels {
			if err := task(label); err != nil {
				return nil, nil, err
			}
		}
	}

	slices.SortFunc(signatures, func(a, b *domain.CategorySignature) int { return cmp.Compare(a.Label, b.Label) })
	slices.SortFunc(failures, func(a, b domain.CategoryFailure) int { return cmp.Compare(a.Label, b.Label) })
	return signatures, failures, nil
}

func classifyFailure(label domain.Label, err error) (domain.CategoryFailure, bool) {
	switch {
	case errors.Is(err, domain.ErrNoCategoryData):
		return domain.CategoryFailure{Label: label, Reason: "no_documents", Err: err}, true
	case errors.Is(err, domain.ErrEmptyVector):
		return domain.CategoryFailure{Label: label, Reason: "empty_vector", Err: err}, true
	default:
		return domain.CategoryFailure{}, false
	}
}
