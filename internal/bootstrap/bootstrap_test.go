package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/textcat/internal/config"
	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/core/usecase"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAppRunsConfiguredPipeline(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.TrainingFile = writeFile(t, dir, "train.csv", strings.Join([]string{
		"category,text",
		"sport,The team wins the game",
		"sport,A late goal decided the match",
		"tech,New phone chip announced",
		"tech,The processor chip powers the phone",
	}, "\n"))
	cfg.UnknownFile = writeFile(t, dir, "unknown.txt", "team scored a goal\nchip inside the phone\n")
	cfg.GroundTruthFile = writeFile(t, dir, "truth.txt", "sport\ntech\n")
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.OutputXLSX = true
	cfg.UnknownIDFSource = usecase.IDFSourceTraining

	app, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	report, err := app.Pipeline.Run(context.Background(), app.RunRequest())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if acc, err := report.Accuracy(); err != nil || acc != 100 {
		t.Fatalf("Accuracy() = %v, %v; want 100", acc, err)
	}

	for _, suffix := range []string{"performance.txt", "performance.csv", "classifications.csv", "categories.txt", "report.xlsx"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, report.ID+"-"+suffix)); err != nil {
			t.Fatalf("expected artifact %s: %v", suffix, err)
		}
	}

	classifier, err := app.TextClassifier(context.Background())
	if err != nil {
		t.Fatalf("TextClassifier() error = %v", err)
	}
	doc := writeFile(t, dir, "doc.txt", "the goal won the match for the team")
	got, err := classifier.ClassifyFile(context.Background(), doc)
	if err != nil {
		t.Fatalf("ClassifyFile() error = %v", err)
	}
	if got.Label != domain.LabelSport {
		t.Fatalf("expected sport, got %+v", got)
	}
}
