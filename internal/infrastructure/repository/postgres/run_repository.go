package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/infrastructure/resilience"
)

const schemaLockID = int64(2026101501)

// RunRepository stores the final summary and per-document results of each run.
type RunRepository struct {
	db       *sql.DB
	executor *resilience.Executor
}

func NewRunRepository(db *sql.DB, executor *resilience.Executor) *RunRepository {
	return &RunRepository{db: db, executor: executor}
}

func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Concurrent compare runs may bootstrap at the same time.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS classification_runs (
	id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	workers INTEGER NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	training_documents INTEGER NOT NULL,
	unknown_documents INTEGER NOT NULL,
	phase_ms JSONB NOT NULL DEFAULT '{}'::jsonb,
	categories JSONB NOT NULL DEFAULT '[]'::jsonb,
	skipped_categories JSONB NOT NULL DEFAULT '[]'::jsonb,
	total INTEGER NOT NULL DEFAULT 0,
	correct INTEGER NOT NULL DEFAULT 0,
	unclassified INTEGER NOT NULL DEFAULT 0,
	accuracy DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS classification_results (
	run_id TEXT NOT NULL REFERENCES classification_runs(id) ON DELETE CASCADE,
	document_id INTEGER NOT NULL,
	expected TEXT NOT NULL,
	predicted TEXT NOT NULL,
	similarity DOUBLE PRECISION NOT NULL,
	unclassified BOOLEAN NOT NULL,
	correct BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, document_id)
);

CREATE INDEX IF NOT EXISTS idx_classification_runs_started_at ON classification_runs(started_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RunRepository) Name() string {
	return "postgres"
}

// Record writes the run and its results in one transaction.
func (r *RunRepository) Record(ctx context.Context, report *domain.RunReport) error {
	call := func(ctx context.Context) error {
		return r.record(ctx, report)
	}
	if r.executor != nil {
		return r.executor.Execute(ctx, "postgres.record_run", call, resilience.TemporaryClassifier)
	}
	return call(ctx)
}

func (r *RunRepository) record(ctx context.Context, report *domain.RunReport) error {
	phases := make(map[string]float64, len(report.Timings))
	for _, t := range report.Timings {
		phases[string(t.Phase)] = float64(t.Elapsed.Microseconds()) / 1000
	}
	categories := make([]string, 0, len(report.Signatures))
	for _, sig := range report.Signatures {
		categories = append(categories, sig.Label.String())
	}
	skipped := make([]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		skipped = append(skipped, f.Label.String())
	}
	phasesJSON, err := json.Marshal(phases)
	if err != nil {
		return fmt.Errorf("marshal phases: %w", err)
	}
	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	skippedJSON, err := json.Marshal(skipped)
	if err != nil {
		return fmt.Errorf("marshal skipped categories: %w", err)
	}

	var accuracy sql.NullFloat64
	if acc, err := report.Accuracy(); err == nil {
		accuracy = sql.NullFloat64{Float64: acc, Valid: true}
	}
	var total, correct int
	if report.Summary != nil {
		total, correct = report.Summary.Total, report.Summary.Correct
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError("begin run tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO classification_runs (
	id, mode, workers, started_at, finished_at, training_documents, unknown_documents,
	phase_ms, categories, skipped_categories, total, correct, unclassified, accuracy
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`,
		report.ID, string(report.Mode), report.Workers, report.StartedAt.UTC(), report.FinishedAt.UTC(),
		report.TrainingDocuments, report.UnknownDocuments, phasesJSON, categoriesJSON, skippedJSON,
		total, correct, report.Summary.Unclassified(), accuracy,
	)
	if err != nil {
		return classifyError("insert run", err)
	}

	if report.Summary != nil {
		for _, res := range report.Summary.Results {
			_, err := tx.ExecContext(ctx, `
INSERT INTO classification_results (run_id, document_id, expected, predicted, similarity, unclassified, correct)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, report.ID, res.DocumentID, res.Expected.String(), res.Predicted.String(), res.Similarity, res.Unclassified, res.Correct)
			if err != nil {
				return classifyError(fmt.Sprintf("insert result %d", res.DocumentID), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyError("commit run tx", err)
	}
	return nil
}

// classifyError marks connection loss, serialization failures and server
// shutdowns as temporary so the executor retries them.
func classifyError(operation string, err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "40001", pgErr.Code == "40P01", pgErr.Code == "57P01":
			return domain.WrapError(domain.ErrTemporary, operation, err)
		}
	}
	return fmt.Errorf("%s: %w", operation, err)
}
