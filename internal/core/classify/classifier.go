package classify

import "github.com/kirillkom/textcat/internal/core/domain"

// Classify picks the signature whose profile is most similar to vec.
// Only a strictly greater similarity replaces the current best, starting
// from 0, so a vector orthogonal to every profile stays unclassified.
func Classify(vec map[string]float64, signatures []*domain.CategorySignature) domain.Prediction {
	best := domain.Prediction{Label: domain.LabelInvalid, Unclassified: true}
	for _, sig := range signatures {
		if sig == nil {
			continue
		}
		if sim := CosineSimilarity(vec, sig.Profile); sim > best.Similarity {
			best = domain.Prediction{Label: sig.Label, Similarity: sim}
		}
	}
	return best
}
