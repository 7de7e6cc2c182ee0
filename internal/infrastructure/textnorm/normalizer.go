// Package textnorm turns raw document text into stemmed index terms.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

var stopWords = toSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
	"your", "yours", "yourself", "yourselves", "he", "him", "his", "himself",
	"she", "her", "hers", "herself", "it", "its", "itself", "they", "them",
	"their", "theirs", "themselves", "what", "which", "who", "whom", "this",
	"that", "these", "those", "am", "is", "are", "was", "were", "be", "been",
	"being", "have", "has", "had", "having", "do", "does", "did", "doing", "a",
	"an", "the", "and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "above", "below", "to", "from", "up", "down", "in",
	"out", "on", "off", "over", "under", "again", "further", "then", "once", "here",
	"there", "when", "where", "why", "how", "all", "any", "both", "each", "few",
	"more", "most", "other", "some", "such", "no", "nor", "not", "only", "own", "same",
	"so", "than", "too", "very", "s", "t", "can", "will", "just", "don", "should", "now",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Normalizer is stateless and safe for concurrent use.
type Normalizer struct {
	stemming bool
}

func New() *Normalizer {
	return &Normalizer{stemming: true}
}

// NewWithoutStemming keeps surface forms; used where exact terms matter.
func NewWithoutStemming() *Normalizer {
	return &Normalizer{}
}

// Normalize lower-cases text, drops punctuation, symbols and digits without
// splitting the surrounding word ("don't" becomes "dont"), splits on
// whitespace, removes stop-words and stems what is left.
func (n *Normalizer) Normalize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsDigit(r):
			return -1
		default:
			return unicode.ToLower(r)
		}
	}, text)

	fields := strings.Fields(cleaned)
	terms := make([]string, 0, len(fields))
	for _, word := range fields {
		if IsStopWord(word) {
			continue
		}
		if n.stemming {
			word = english.Stem(word, false)
		}
		if word == "" {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
