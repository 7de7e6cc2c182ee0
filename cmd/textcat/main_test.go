package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/textcat/internal/core/usecase"
)

func writeInputs(t *testing.T) (dir string, args []string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"train.csv":   "category,text\nsport,The team wins the game\nsport,A late goal decided the match\ntech,New phone chip announced\ntech,The processor chip powers the phone\n",
		"unknown.txt": "team scored a goal\nchip inside the phone\n",
		"truth.txt":   "sport\ntech\n",
		"doc.txt":     "the match went to the team with the late goal",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir, []string{
		"--train", filepath.Join(dir, "train.csv"),
		"--unknown", filepath.Join(dir, "unknown.txt"),
		"--truth", filepath.Join(dir, "truth.txt"),
		"--output-dir", filepath.Join(dir, "out"),
		"--unknown-idf", "training",
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("textcat %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestRunCommandPrintsPerformance(t *testing.T) {
	dir, flags := writeInputs(t)
	out := execute(t, append([]string{"run", "--categories"}, flags...)...)

	wants := []string{
		"Vectorization:",
		"TF-IDF:",
		"Categories:",
		"Unknown Classification:",
		"Accuracy: 100.00%",
		"Skipped categories: business (no_documents), politics (no_documents), entertainment (no_documents)",
		"sport (2 documents)",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected report artifacts, got %v (%v)", entries, err)
	}
}

func TestCompareCommand(t *testing.T) {
	_, flags := writeInputs(t)
	out := execute(t, append([]string{"compare", "--workers", "2"}, flags...)...)
	if !strings.Contains(out, "Max TF-IDF deviation: 0") || !strings.Contains(out, "100.00% (parallel)") {
		t.Fatalf("unexpected compare output:\n%s", out)
	}
}

func TestClassifyCommand(t *testing.T) {
	dir, flags := writeInputs(t)
	out := execute(t, append(append([]string{"classify"}, flags...), filepath.Join(dir, "doc.txt"))...)
	if !strings.Contains(out, "\tsport\t") {
		t.Fatalf("expected sport prediction, got %q", out)
	}
}

func TestUnknownIDFFlagIsCaseInsensitive(t *testing.T) {
	t.Setenv("UNKNOWN_IDF_SOURCE", "")
	if err := runCmd.ParseFlags([]string{"--unknown-idf", "Training"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	cfg, err := loadConfig(runCmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.UnknownIDFSource != usecase.IDFSourceTraining {
		t.Fatalf("UnknownIDFSource = %q, want %q", cfg.UnknownIDFSource, usecase.IDFSourceTraining)
	}
}
