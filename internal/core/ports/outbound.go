package ports

import (
	"context"
	"io"
	"time"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

// JobRepository persists and reads job state. A job is written only by the
// worker task that owns it; terminal states are never overwritten.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	UpdateProgress(ctx context.Context, id string, progress int) error
	MarkCompleted(ctx context.Context, id, audioPath string, metrics map[string]float64) error
	MarkFailed(ctx context.Context, id, errMessage string) error
}

// ObjectStorage stores source papers and generated audio artifacts.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes conversion requests.
type MessageQueue interface {
	PublishConversionRequested(ctx context.Context, jobID string) error
	SubscribeConversionRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// StructureAnalyzer builds a structural model from a stored paper.
// It fails only on unrecoverable document-level errors; per-page and
// per-feature failures are absorbed internally.
type StructureAnalyzer interface {
	Analyze(ctx context.Context, storageKey string) (*domain.StructuralModel, error)
}

// EquationVerbalizer converts math markup to a spoken-language string.
// Total over arbitrary input; never fails.
type EquationVerbalizer interface {
	Verbalize(markup string) string
}

// TableSummarizer parses raw table regions and summarizes tabular values.
// Summarize degrades to a minimal fallback on internal failure.
type TableSummarizer interface {
	Parse(raw string) (domain.TabularValue, error)
	Summarize(table domain.TabularValue) domain.TableSummary
}

// SpeechSynthesizer is the external synthesis collaborator.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice map[string]string) ([]byte, error)
}

// NarrationEvaluator is the external quality-scoring collaborator.
type NarrationEvaluator interface {
	Evaluate(ctx context.Context, originalText, generatedText, audioRef string) (map[string]float64, error)
}

// ConversionObserver receives pipeline-level measurements. Implementations
// must be safe for concurrent use across jobs.
type ConversionObserver interface {
	ObservePaperSize(sizeBytes int64)
	ObserveStructure(equationCount, tableCount int)
	ObserveSynthesisLatency(d time.Duration)
}
