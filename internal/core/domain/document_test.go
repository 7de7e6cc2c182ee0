package domain

import (
	"errors"
	"math"
	"testing"
)

func TestFrequencyOfEmptyDocumentIsZero(t *testing.T) {
	doc := NewDocument("", LabelInvalid)
	for _, term := range []string{"", "game", "win"} {
		if got := doc.Frequency(term); got != 0 {
			t.Fatalf("Frequency(%q) = %f, want 0", term, got)
		}
	}
	doc.ComputeFrequencies()
	if len(doc.TermFrequency) != 0 {
		t.Fatalf("expected empty frequency map, got %v", doc.TermFrequency)
	}
}

func TestComputeFrequencies(t *testing.T) {
	doc := NewDocument("game game win", LabelSport)
	doc.RecordTerm("game")
	doc.RecordTerm("game")
	doc.RecordTerm("win")

	doc.ComputeFrequencies()
	if doc.TotalTerms != 3 {
		t.Fatalf("expected 3 total terms, got %d", doc.TotalTerms)
	}
	if math.Abs(doc.TermFrequency["game"]-2.0/3.0) > 1e-12 {
		t.Fatalf("unexpected game frequency %f", doc.TermFrequency["game"])
	}
	if math.Abs(doc.TermFrequency["win"]-1.0/3.0) > 1e-12 {
		t.Fatalf("unexpected win frequency %f", doc.TermFrequency["win"])
	}

	doc.TermFrequency["stale"] = 1
	doc.ComputeFrequencies()
	if _, ok := doc.TermFrequency["stale"]; ok {
		t.Fatalf("expected frequency map to be overwritten")
	}
}

func TestCorpusDocumentFrequency(t *testing.T) {
	c := NewCorpus()
	for _, terms := range [][]string{{"a", "b"}, {"a"}, {"c", "c"}} {
		doc := NewDocument("", LabelInvalid)
		for _, term := range terms {
			doc.RecordTerm(term)
		}
		c.Add(doc)
	}

	if got := c.DocumentFrequency("a"); got != 2 {
		t.Fatalf("df(a) = %d, want 2", got)
	}
	if got := c.DocumentFrequency("missing"); got != 0 {
		t.Fatalf("df(missing) = %d, want 0", got)
	}
	df := c.DocumentFrequencies()
	for _, term := range []string{"a", "b", "c"} {
		if df[term] != c.DocumentFrequency(term) {
			t.Fatalf("table df(%s) = %d disagrees with scan %d", term, df[term], c.DocumentFrequency(term))
		}
	}
}

func TestInverseDocumentFrequency(t *testing.T) {
	if got := InverseDocumentFrequency(4, 2); math.Abs(got-math.Log(2)) > 1e-12 {
		t.Fatalf("idf(4,2) = %f", got)
	}
	if got := InverseDocumentFrequency(1, 1); got != 0 {
		t.Fatalf("idf(1,1) = %f, want 0", got)
	}
	if got := InverseDocumentFrequency(3, 0); got != 0 {
		t.Fatalf("idf with zero df must be guarded, got %f", got)
	}
}

func TestParseLabel(t *testing.T) {
	cases := map[string]Label{
		"sport":         LabelSport,
		" Business ":    LabelBusiness,
		"POLITICS":      LabelPolitics,
		"tech":          LabelTech,
		"entertainment": LabelEntertainment,
		"weather":       LabelInvalid,
		"":              LabelInvalid,
	}
	for in, want := range cases {
		if got := ParseLabel(in); got != want {
			t.Errorf("ParseLabel(%q) = %v, want %v", in, got, want)
		}
	}
	for _, l := range Labels() {
		if ParseLabel(l.String()) != l {
			t.Errorf("label %v does not round-trip through its name", l)
		}
	}
	if Label(42).String() != "invalid" {
		t.Fatalf("out-of-range label must print as invalid")
	}
}

func TestSummaryAccuracy(t *testing.T) {
	var empty ClassificationSummary
	if _, err := empty.Accuracy(); !errors.Is(err, ErrUndefinedAccuracy) {
		t.Fatalf("expected ErrUndefinedAccuracy, got %v", err)
	}

	s := ClassificationSummary{Total: 4, Correct: 3}
	acc, err := s.Accuracy()
	if err != nil {
		t.Fatalf("Accuracy() error = %v", err)
	}
	if acc != 75 {
		t.Fatalf("expected 75, got %f", acc)
	}
}

func TestWrapErrorKeepsKind(t *testing.T) {
	err := WrapError(ErrInvalidInput, "read training", errors.New("boom"))
	if !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput kind, got %v", err)
	}
	if WrapError(ErrInvalidInput, "noop", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
}
