package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/textcat/internal/core/usecase"
)

var envKeys = []string{
	"LOG_LEVEL", "TRAINING_FILE", "UNKNOWN_FILE", "GROUND_TRUTH_FILE", "OUTPUT_DIR",
	"PARALLEL", "WORKERS", "TOP_TERMS", "LOCAL_TOP_TERMS", "DF_CACHE", "UNKNOWN_IDF_SOURCE",
	"CLASSIFY_UNKNOWN", "OUTPUT_PERFORMANCE", "OUTPUT_CSV", "OUTPUT_XLSX", "OUTPUT_CATEGORIES",
	"POSTGRES_DSN", "NATS_URL", "NATS_SUBJECT", "METRICS_PUSHGATEWAY_URL", "METRICS_JOB",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if !cfg.Parallel || cfg.Workers != 0 || cfg.TopTerms != 5 || cfg.LocalTopTerms != 5 {
		t.Fatalf("unexpected pipeline defaults %+v", cfg)
	}
	if cfg.UnknownIDFSource != usecase.IDFSourceSelf || !cfg.DFCache || !cfg.ClassifyUnknown {
		t.Fatalf("unexpected stage defaults %+v", cfg)
	}
	if cfg.PostgresDSN != "" || cfg.NATSURL != "" || cfg.MetricsPushgatewayURL != "" {
		t.Fatalf("remote sinks must be disabled by default")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARALLEL", "false")
	t.Setenv("WORKERS", "8")
	t.Setenv("TOP_TERMS", "10")
	t.Setenv("UNKNOWN_IDF_SOURCE", "Training")
	t.Setenv("OUTPUT_XLSX", "true")
	t.Setenv("DF_CACHE", "not-a-bool")

	cfg := Load()
	if cfg.Parallel {
		t.Fatalf("expected sequential mode")
	}
	if cfg.Workers != 8 || cfg.TopTerms != 10 {
		t.Fatalf("unexpected numeric overrides %+v", cfg)
	}
	if cfg.UnknownIDFSource != usecase.IDFSourceTraining {
		t.Fatalf("expected training idf source, got %q", cfg.UnknownIDFSource)
	}
	if !cfg.OutputXLSX {
		t.Fatalf("expected xlsx output enabled")
	}
	if !cfg.DFCache {
		t.Fatalf("invalid bool must keep the fallback")
	}
}

func TestLoadFileLayersEnvOverFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "textcat.yaml")
	content := "training_file: corpus/bbc.csv\nworkers: 4\nparallel: false\noutput_categories: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WORKERS", "16")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.TrainingFile != "corpus/bbc.csv" || cfg.Parallel || cfg.OutputCategories {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Workers != 16 {
		t.Fatalf("env must override file, got workers=%d", cfg.Workers)
	}
	if cfg.UnknownFile != Defaults().UnknownFile {
		t.Fatalf("keys missing from the file must keep defaults, got %q", cfg.UnknownFile)
	}
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("unknown_idf_source: global\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
