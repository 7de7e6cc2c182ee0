package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/infrastructure/resilience"
)

const DefaultSubject = "textcat.runs.completed"

type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Publisher announces finished runs as JSON run-completed events.
type Publisher struct {
	conn     conn
	subject  string
	executor *resilience.Executor
}

type Options struct {
	ConnectTimeout     time.Duration
	ReconnectWait      time.Duration
	MaxReconnects      int
	ResilienceExecutor *resilience.Executor
	Logger             *slog.Logger
}

func New(url, subject string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 5
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(
		url,
		nats.Name("textcat"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newPublisher(nc, subject, options.ResilienceExecutor), nil
}

func newPublisher(c conn, subject string, executor *resilience.Executor) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: c, subject: subject, executor: executor}
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) Name() string {
	return "nats"
}

// RunCompleted is the event payload; per-document results are left out.
type RunCompleted struct {
	RunID             string             `json:"run_id"`
	Mode              domain.RunMode     `json:"mode"`
	Workers           int                `json:"workers"`
	StartedAt         time.Time          `json:"started_at"`
	FinishedAt        time.Time          `json:"finished_at"`
	TrainingDocuments int                `json:"training_documents"`
	UnknownDocuments  int                `json:"unknown_documents"`
	PhaseMillis       map[string]float64 `json:"phase_ms"`
	Categories        []string           `json:"categories"`
	SkippedCategories []string           `json:"skipped_categories,omitempty"`
	Classified        int                `json:"classified"`
	Correct           int                `json:"correct"`
	Unclassified      int                `json:"unclassified"`
	// Accuracy is nil when no document was classified.
	Accuracy *float64 `json:"accuracy"`
}

func NewRunCompleted(r *domain.RunReport) RunCompleted {
	event := RunCompleted{
		RunID:             r.ID,
		Mode:              r.Mode,
		Workers:           r.Workers,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		TrainingDocuments: r.TrainingDocuments,
		UnknownDocuments:  r.UnknownDocuments,
		PhaseMillis:       make(map[string]float64, len(r.Timings)),
		Categories:        make([]string, 0, len(r.Signatures)),
	}
	for _, t := range r.Timings {
		event.PhaseMillis[string(t.Phase)] = float64(t.Elapsed.Microseconds()) / 1000
	}
	for _, sig := range r.Signatures {
		event.Categories = append(event.Categories, sig.Label.String())
	}
	for _, f := range r.Failures {
		event.SkippedCategories = append(event.SkippedCategories, f.Label.String())
	}
	if r.Summary != nil {
		event.Classified = r.Summary.Total
		event.Correct = r.Summary.Correct
		event.Unclassified = r.Summary.Unclassified()
	}
	if acc, err := r.Accuracy(); err == nil {
		event.Accuracy = &acc
	}
	return event
}

func (p *Publisher) Record(ctx context.Context, r *domain.RunReport) error {
	payload, err := json.Marshal(NewRunCompleted(r))
	if err != nil {
		return fmt.Errorf("encode run event: %w", err)
	}
	call := func(_ context.Context) error {
		if err := p.conn.Publish(p.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if p.executor != nil {
		err = p.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	return wrapTemporaryIfNeeded(err)
}
