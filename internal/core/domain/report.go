package domain

import "time"

type Phase string

const (
	PhaseVectorization Phase = "Vectorization"
	PhaseTFIDF         Phase = "TF-IDF"
	PhaseCategories    Phase = "Categories"
	PhaseUnknown       Phase = "Unknown Classification"
)

type RunMode string

const (
	ModeParallel   RunMode = "parallel"
	ModeSequential RunMode = "sequential"
)

type PhaseTiming struct {
	Phase   Phase         `json:"phase"`
	Elapsed time.Duration `json:"elapsed"`
}

// RunReport is everything a caller needs to render or persist one pipeline run.
type RunReport struct {
	ID                string                 `json:"id"`
	StartedAt         time.Time              `json:"started_at"`
	FinishedAt        time.Time              `json:"finished_at"`
	Mode              RunMode                `json:"mode"`
	Workers           int                    `json:"workers"`
	TrainingDocuments int                    `json:"training_documents"`
	UnknownDocuments  int                    `json:"unknown_documents"`
	Timings           []PhaseTiming          `json:"timings"`
	Signatures        []*CategorySignature   `json:"signatures"`
	Failures          []CategoryFailure      `json:"failures,omitempty"`
	Summary           *ClassificationSummary `json:"summary,omitempty"`
}

func (r *RunReport) Accuracy() (float64, error) {
	return r.Summary.Accuracy()
}

func (r *RunReport) AddTiming(phase Phase, elapsed time.Duration) {
	r.Timings = append(r.Timings, PhaseTiming{Phase: phase, Elapsed: elapsed})
}

// Comparison holds a sequential and a parallel run over the same training input.
type Comparison struct {
	Sequential *RunReport `json:"sequential"`
	Parallel   *RunReport `json:"parallel"`
	// MaxDeviation is the largest absolute TF-IDF difference between the two runs.
	MaxDeviation float64 `json:"max_deviation"`
}

// Speedup returns sequential/parallel elapsed time for a phase, 0 if unknown.
func (c *Comparison) Speedup(phase Phase) float64 {
	seq, par := elapsedFor(c.Sequential, phase), elapsedFor(c.Parallel, phase)
	if seq <= 0 || par <= 0 {
		return 0
	}
	return float64(seq) / float64(par)
}

func elapsedFor(r *RunReport, phase Phase) time.Duration {
	if r == nil {
		return 0
	}
	for _, t := range r.Timings {
		if t.Phase == phase {
			return t.Elapsed
		}
	}
	return 0
}
