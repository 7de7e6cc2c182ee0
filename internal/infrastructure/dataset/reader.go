// Package dataset reads the line-oriented training, unknown and ground-truth
// inputs of a run.
package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/textcat/internal/core/domain"
)

const (
	labeledHeader = "category,text"
	maxLineBytes  = 16 << 20
)

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadLabeled loads "category,text" records from a CSV file, or the first two
// columns of the first sheet of an .xlsx workbook. Unknown labels map to the
// invalid sentinel.
func (r *Reader) ReadLabeled(ctx context.Context, path string) ([]domain.LabeledText, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readLabeledWorkbook(ctx, path)
	}

	var records []domain.LabeledText
	err := scanLines(ctx, path, func(line string) {
		if line == labeledHeader {
			return
		}
		label, text := SplitRecord(line)
		records = append(records, domain.LabeledText{Label: domain.ParseLabel(label), Text: text})
	})
	if err != nil {
		return nil, fmt.Errorf("read training set: %w", err)
	}
	return records, nil
}

// ReadUnlabeled returns one document per non-blank line.
func (r *Reader) ReadUnlabeled(ctx context.Context, path string) ([]string, error) {
	var texts []string
	err := scanLines(ctx, path, func(line string) {
		if strings.TrimSpace(line) == "" {
			return
		}
		texts = append(texts, line)
	})
	if err != nil {
		return nil, fmt.Errorf("read unknown set: %w", err)
	}
	return texts, nil
}

// ReadGroundTruth returns one label per non-blank line, index-aligned with
// ReadUnlabeled.
func (r *Reader) ReadGroundTruth(ctx context.Context, path string) ([]domain.Label, error) {
	var labels []domain.Label
	err := scanLines(ctx, path, func(line string) {
		if strings.TrimSpace(line) == "" {
			return
		}
		labels = append(labels, domain.ParseLabel(line))
	})
	if err != nil {
		return nil, fmt.Errorf("read ground truth: %w", err)
	}
	return labels, nil
}

// SplitRecord splits a training line at its first comma. One space after the
// comma is dropped; a line without a comma is all label.
func SplitRecord(line string) (label, text string) {
	label, text, found := strings.Cut(line, ",")
	if !found {
		return line, ""
	}
	return label, strings.TrimPrefix(text, " ")
}

func scanLines(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "open "+path, err)
	}
	defer f.Close()
	return scan(ctx, f, fn)
}

func scan(ctx context.Context, r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for n := 0; scanner.Scan(); n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		fn(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "scan lines", err)
	}
	return nil
}

func readLabeledWorkbook(ctx context.Context, path string) ([]domain.LabeledText, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook "+path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read workbook "+path, fmt.Errorf("no sheets"))
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read workbook "+path, err)
	}
	defer rows.Close()

	var records []domain.LabeledText
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "read workbook row", err)
		}
		if len(cols) == 0 {
			continue
		}
		label, text := cols[0], ""
		if len(cols) > 1 {
			text = cols[1]
		}
		if strings.EqualFold(label, "category") && strings.EqualFold(text, "text") {
			continue
		}
		records = append(records, domain.LabeledText{Label: domain.ParseLabel(label), Text: text})
	}
	return records, rows.Error()
}
