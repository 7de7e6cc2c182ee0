package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/core/ports"
)

// Outputs toggles the artifacts written per run.
type Outputs struct {
	Performance bool
	CSV         bool
	XLSX        bool
	Categories  bool
}

// Exporter is a run sink that saves the enabled reports as
// "<run id>-<name>" objects.
type Exporter struct {
	storage ports.ObjectStorage
	outputs Outputs
}

func NewExporter(storage ports.ObjectStorage, outputs Outputs) *Exporter {
	return &Exporter{storage: storage, outputs: outputs}
}

func (e *Exporter) Name() string {
	return "report"
}

func (e *Exporter) Record(ctx context.Context, r *domain.RunReport) error {
	type artifact struct {
		enabled bool
		suffix  string
		render  func(*bytes.Buffer) error
	}
	artifacts := []artifact{
		{e.outputs.Performance, "performance.txt", func(b *bytes.Buffer) error {
			_, err := b.WriteString(FormatPerformance(r.Timings, r.Summary, r.Failures))
			return err
		}},
		{e.outputs.CSV, "performance.csv", func(b *bytes.Buffer) error {
			return WritePerformanceCSV(b, r.Timings)
		}},
		{e.outputs.CSV && r.Summary != nil, "classifications.csv", func(b *bytes.Buffer) error {
			return WriteClassificationsCSV(b, r.Summary)
		}},
		{e.outputs.Categories, "categories.txt", func(b *bytes.Buffer) error {
			_, err := b.WriteString(FormatCategories(r.Signatures, r.Failures))
			return err
		}},
		{e.outputs.XLSX, "report.xlsx", func(b *bytes.Buffer) error {
			return WriteWorkbook(b, r)
		}},
	}

	for _, a := range artifacts {
		if !a.enabled {
			continue
		}
		var buf bytes.Buffer
		if err := a.render(&buf); err != nil {
			return fmt.Errorf("render %s: %w", a.suffix, err)
		}
		if err := e.storage.Save(ctx, Key(r.ID, a.suffix), &buf); err != nil {
			return fmt.Errorf("save %s: %w", a.suffix, err)
		}
	}
	return nil
}

// Key names the object of one artifact of a run.
func Key(runID, suffix string) string {
	if runID == "" {
		return suffix
	}
	return strings.Join([]string{runID, suffix}, "-")
}
