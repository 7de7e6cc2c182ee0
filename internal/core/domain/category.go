package domain

// TermScore is a term with its TF-IDF weight.
type TermScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// CategorySignature is the comparison basis for one label: its ranked top
// terms and the TF-IDF profile averaged over every member document.
type CategorySignature struct {
	Label     Label              `json:"label"`
	Documents int                `json:"documents"`
	TopTerms  []TermScore        `json:"top_terms"`
	Profile   map[string]float64 `json:"-"`
}

// CategoryFailure records a label that was left without a signature.
type CategoryFailure struct {
	Label  Label  `json:"label"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}
