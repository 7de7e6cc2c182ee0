// Package classify assigns unknown TF-IDF vectors to the nearest category
// signature by cosine similarity.
package classify

import "math"

// Epsilon is the norm below which a vector is treated as zero.
const Epsilon = 1e-9

// CosineSimilarity returns dot(a, b) / (|a| * |b|) over the union of terms,
// or 0 when either norm is below Epsilon.
func CosineSimilarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, x := range a {
		normA += x * x
		if y, ok := b[term]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		normB += y * y
	}
	normA, normB = math.Sqrt(normA), math.Sqrt(normB)
	if normA < Epsilon || normB < Epsilon {
		return 0
	}
	return dot / (normA * normB)
}
