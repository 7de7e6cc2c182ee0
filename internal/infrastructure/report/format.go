// Package report renders run reports as text, CSV and XLSX and exports them
// to object storage.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/textcat/internal/core/domain"
)

const (
	ResultCorrect      = "correct"
	ResultIncorrect    = "incorrect"
	ResultUnclassified = "unclassified"
)

// FormatPerformance renders one "<phase>: <ms> ms" line per timing followed by
// the accuracy line. Categories left without a signature are listed after the
// accuracy, since they could never be predicted.
func FormatPerformance(timings []domain.PhaseTiming, summary *domain.ClassificationSummary, failures []domain.CategoryFailure) string {
	var b strings.Builder
	for _, t := range timings {
		fmt.Fprintf(&b, "%s: %s ms\n", t.Phase, Milliseconds(t.Elapsed))
	}
	b.WriteString("Accuracy: " + FormatAccuracy(summary) + "\n")
	if len(failures) > 0 {
		b.WriteString("Skipped categories: " + FormatSkipped(failures) + "\n")
	}
	return b.String()
}

// FormatSkipped renders failures as "business (no_documents), tech (empty_vector)".
func FormatSkipped(failures []domain.CategoryFailure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Label, f.Reason))
	}
	return strings.Join(parts, ", ")
}

func FormatAccuracy(summary *domain.ClassificationSummary) string {
	acc, err := summary.Accuracy()
	if err != nil {
		return "undefined"
	}
	return strconv.FormatFloat(acc, 'f', 2, 64) + "%"
}

func Milliseconds(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}

// WritePerformanceCSV writes the timings as "Section,Time" rows in milliseconds.
func WritePerformanceCSV(w io.Writer, timings []domain.PhaseTiming) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Section", "Time"}); err != nil {
		return err
	}
	for _, t := range timings {
		if err := cw.Write([]string{string(t.Phase), Milliseconds(t.Elapsed)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteClassificationsCSV(w io.Writer, summary *domain.ClassificationSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"document", "correct", "predicted", "similarity", "result"}); err != nil {
		return err
	}
	if summary != nil {
		for _, r := range summary.Results {
			row := []string{
				strconv.Itoa(r.DocumentID),
				r.Expected.String(),
				r.Predicted.String(),
				strconv.FormatFloat(r.Similarity, 'f', 6, 64),
				Outcome(r),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func Outcome(r domain.ClassificationResult) string {
	switch {
	case r.Unclassified:
		return ResultUnclassified
	case r.Correct:
		return ResultCorrect
	default:
		return ResultIncorrect
	}
}

// FormatCategories lists every signature with its ranked top terms, then the
// categories that could not be built.
func FormatCategories(signatures []*domain.CategorySignature, failures []domain.CategoryFailure) string {
	var b strings.Builder
	for _, sig := range signatures {
		fmt.Fprintf(&b, "%s (%d documents)\n", sig.Label, sig.Documents)
		for i, ts := range sig.TopTerms {
			fmt.Fprintf(&b, "  %d. %s %.6f\n", i+1, ts.Term, ts.Score)
		}
	}
	for _, f := range failures {
		fmt.Fprintf(&b, "%s: skipped (%s)\n", f.Label, f.Reason)
	}
	return b.String()
}
