package domain

// Prediction is the nearest-category decision for one TF-IDF vector.
type Prediction struct {
	Label      Label   `json:"label"`
	Similarity float64 `json:"similarity"`
	// Unclassified is set when no category scored above zero.
	Unclassified bool `json:"unclassified"`
}

// ClassificationResult compares one prediction with its ground truth.
type ClassificationResult struct {
	DocumentID   int     `json:"document_id"`
	Expected     Label   `json:"expected"`
	Predicted    Label   `json:"predicted"`
	Similarity   float64 `json:"similarity"`
	Unclassified bool    `json:"unclassified"`
	Correct      bool    `json:"correct"`
}

// ClassificationSummary aggregates one batch classification run.
type ClassificationSummary struct {
	Total   int                    `json:"total"`
	Correct int                    `json:"correct"`
	Results []ClassificationResult `json:"results"`
}

// Accuracy returns 100 * correct / total.
func (s *ClassificationSummary) Accuracy() (float64, error) {
	if s == nil || s.Total == 0 {
		return 0, ErrUndefinedAccuracy
	}
	return 100 * float64(s.Correct) / float64(s.Total), nil
}

func (s *ClassificationSummary) Unclassified() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.Results {
		if r.Unclassified {
			n++
		}
	}
	return n
}
