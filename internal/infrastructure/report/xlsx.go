package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/textcat/internal/core/domain"
)

const (
	SheetPerformance     = "Performance"
	SheetCategories      = "Categories"
	SheetClassifications = "Classifications"
)

// WriteWorkbook renders the run as a workbook with one sheet per report.
func WriteWorkbook(w io.Writer, r *domain.RunReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPerformance); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetCategories, SheetClassifications} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	perf := [][]any{{"Section", "Time (ms)"}}
	for _, t := range r.Timings {
		perf = append(perf, []any{string(t.Phase), float64(t.Elapsed.Microseconds()) / 1000})
	}
	perf = append(perf, []any{"Accuracy", FormatAccuracy(r.Summary)})
	if len(r.Failures) > 0 {
		perf = append(perf, []any{"Skipped categories", FormatSkipped(r.Failures)})
	}
	if err := writeRows(f, SheetPerformance, perf); err != nil {
		return err
	}

	cats := [][]any{{"Category", "Documents", "Rank", "Term", "Score"}}
	for _, sig := range r.Signatures {
		for i, ts := range sig.TopTerms {
			cats = append(cats, []any{sig.Label.String(), sig.Documents, i + 1, ts.Term, ts.Score})
		}
	}
	for _, failure := range r.Failures {
		cats = append(cats, []any{failure.Label.String(), 0, "", "", failure.Reason})
	}
	if err := writeRows(f, SheetCategories, cats); err != nil {
		return err
	}

	results := [][]any{{"Document", "Correct", "Predicted", "Similarity", "Result"}}
	if r.Summary != nil {
		for _, res := range r.Summary.Results {
			results = append(results, []any{res.DocumentID, res.Expected.String(), res.Predicted.String(), res.Similarity, Outcome(res)})
		}
	}
	if err := writeRows(f, SheetClassifications, results); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
