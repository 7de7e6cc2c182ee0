package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/textcat/internal/core/usecase"
)

type Config struct {
	LogLevel string `yaml:"log_level"`

	TrainingFile    string `yaml:"training_file"`
	UnknownFile     string `yaml:"unknown_file"`
	GroundTruthFile string `yaml:"ground_truth_file"`
	OutputDir       string `yaml:"output_dir"`

	Parallel         bool   `yaml:"parallel"`
	Workers          int    `yaml:"workers"`
	TopTerms         int    `yaml:"top_terms"`
	LocalTopTerms    int    `yaml:"local_top_terms"`
	DFCache          bool   `yaml:"df_cache"`
	UnknownIDFSource string `yaml:"unknown_idf_source"`

	ClassifyUnknown   bool `yaml:"classify_unknown"`
	OutputPerformance bool `yaml:"output_performance"`
	OutputCSV         bool `yaml:"output_csv"`
	OutputXLSX        bool `yaml:"output_xlsx"`
	OutputCategories  bool `yaml:"output_categories"`

	PostgresDSN string `yaml:"postgres_dsn"`

	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`

	MetricsPushgatewayURL string `yaml:"metrics_pushgateway_url"`
	MetricsJob            string `yaml:"metrics_job"`
}

func Defaults() Config {
	return Config{
		LogLevel: "info",

		TrainingFile:    "data/train.csv",
		UnknownFile:     "data/unknown.txt",
		GroundTruthFile: "data/unknown_truth.txt",
		OutputDir:       "./data/output",

		Parallel:         true,
		TopTerms:         5,
		LocalTopTerms:    5,
		DFCache:          true,
		UnknownIDFSource: usecase.IDFSourceSelf,

		ClassifyUnknown:   true,
		OutputPerformance: true,
		OutputCSV:         true,
		OutputCategories:  true,

		NATSSubject: "textcat.runs.completed",
		MetricsJob:  "textcat",
	}
}

// Load returns defaults overridden by the environment.
func Load() Config {
	return applyEnv(Defaults())
}

// LoadFile layers defaults, the YAML file at path and then the environment.
// An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg = applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.UnknownIDFSource {
	case usecase.IDFSourceSelf, usecase.IDFSourceTraining:
	default:
		return fmt.Errorf("unknown_idf_source must be %q or %q, got %q", usecase.IDFSourceSelf, usecase.IDFSourceTraining, c.UnknownIDFSource)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

func applyEnv(c Config) Config {
	c.LogLevel = mustEnv("LOG_LEVEL", c.LogLevel)

	c.TrainingFile = mustEnv("TRAINING_FILE", c.TrainingFile)
	c.UnknownFile = mustEnv("UNKNOWN_FILE", c.UnknownFile)
	c.GroundTruthFile = mustEnv("GROUND_TRUTH_FILE", c.GroundTruthFile)
	c.OutputDir = mustEnv("OUTPUT_DIR", c.OutputDir)

	c.Parallel = mustEnvBool("PARALLEL", c.Parallel)
	c.Workers = mustEnvInt("WORKERS", c.Workers)
	c.TopTerms = mustEnvInt("TOP_TERMS", c.TopTerms)
	c.LocalTopTerms = mustEnvInt("LOCAL_TOP_TERMS", c.LocalTopTerms)
	c.DFCache = mustEnvBool("DF_CACHE", c.DFCache)
	c.UnknownIDFSource = strings.ToLower(mustEnv("UNKNOWN_IDF_SOURCE", c.UnknownIDFSource))

	c.ClassifyUnknown = mustEnvBool("CLASSIFY_UNKNOWN", c.ClassifyUnknown)
	c.OutputPerformance = mustEnvBool("OUTPUT_PERFORMANCE", c.OutputPerformance)
	c.OutputCSV = mustEnvBool("OUTPUT_CSV", c.OutputCSV)
	c.OutputXLSX = mustEnvBool("OUTPUT_XLSX", c.OutputXLSX)
	c.OutputCategories = mustEnvBool("OUTPUT_CATEGORIES", c.OutputCategories)

	c.PostgresDSN = mustEnv("POSTGRES_DSN", c.PostgresDSN)
	c.NATSURL = mustEnv("NATS_URL", c.NATSURL)
	c.NATSSubject = mustEnv("NATS_SUBJECT", c.NATSSubject)
	c.MetricsPushgatewayURL = mustEnv("METRICS_PUSHGATEWAY_URL", c.MetricsPushgatewayURL)
	c.MetricsJob = mustEnv("METRICS_JOB", c.MetricsJob)
	return c
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
