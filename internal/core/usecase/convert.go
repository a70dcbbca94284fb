package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voxpaper/paper-narrator/internal/assemble"
	"github.com/voxpaper/paper-narrator/internal/core/domain"
	"github.com/voxpaper/paper-narrator/internal/core/ports"
)

// Progress checkpoints. Progress is monotonically non-decreasing; a failed
// job keeps the value of its last completed checkpoint.
const (
	progressStructureAnalyzed  = 20
	progressSegmentsComposed   = 30
	progressEquationsConverted = 45
	progressTablesSummarized   = 60
	progressSectionsAppended   = 70
	progressAudioGenerated     = 90
	progressEvaluationDone     = 95
)

// ConvertPaperUseCase drives one conversion job end to end: structure
// analysis, per-element conversion, narrative assembly, chunked synthesis
// and optional evaluation. The temporary source paper is removed on every
// exit path.
type ConvertPaperUseCase struct {
	repo        ports.JobRepository
	storage     ports.ObjectStorage
	analyzer    ports.StructureAnalyzer
	verbalizer  ports.EquationVerbalizer
	summarizer  ports.TableSummarizer
	synthesizer ports.SpeechSynthesizer
	evaluator   ports.NarrationEvaluator
	observer    ports.ConversionObserver

	evaluationFailureFatal bool
}

func NewConvertPaperUseCase(
	repo ports.JobRepository,
	storage ports.ObjectStorage,
	analyzer ports.StructureAnalyzer,
	verbalizer ports.EquationVerbalizer,
	summarizer ports.TableSummarizer,
	synthesizer ports.SpeechSynthesizer,
	evaluator ports.NarrationEvaluator,
	observer ports.ConversionObserver,
	evaluationFailureFatal bool,
) *ConvertPaperUseCase {
	if observer == nil {
		observer = NopObserver{}
	}
	return &ConvertPaperUseCase{
		repo:                   repo,
		storage:                storage,
		analyzer:               analyzer,
		verbalizer:             verbalizer,
		summarizer:             summarizer,
		synthesizer:            synthesizer,
		evaluator:              evaluator,
		observer:               observer,
		evaluationFailureFatal: evaluationFailureFatal,
	}
}

func (uc *ConvertPaperUseCase) ConvertByID(ctx context.Context, jobID string) error {
	job, err := uc.repo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("fetch job by id: %w", err)
	}
	if job.IsTerminal() {
		// Re-delivered message; terminal jobs are never mutated again.
		return nil
	}
	defer uc.removeSource(ctx, job)

	audioPath, metrics, err := uc.runPipeline(ctx, job)
	if err != nil {
		if failErr := uc.repo.MarkFailed(ctx, job.ID, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.MarkCompleted(ctx, job.ID, audioPath, metrics); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (uc *ConvertPaperUseCase) runPipeline(ctx context.Context, job *domain.Job) (string, map[string]float64, error) {
	model, err := uc.analyzer.Analyze(ctx, job.SourcePath)
	if err != nil {
		return "", nil, fmt.Errorf("analyze paper structure: %w", err)
	}
	uc.observer.ObservePaperSize(model.SourceBytes)
	uc.observer.ObserveStructure(len(model.Equations), len(model.Tables))
	if err := uc.checkpoint(ctx, job.ID, progressStructureAnalyzed); err != nil {
		return "", nil, err
	}

	var segments []domain.TextSegment
	if job.Options.IncludeMetadata {
		segments = append(segments, assemble.MetadataSegments(model.Metadata)...)
	}
	if err := uc.checkpoint(ctx, job.ID, progressSegmentsComposed); err != nil {
		return "", nil, err
	}

	for _, eq := range model.Equations {
		segments = append(segments, assemble.EquationSegment(uc.verbalizer.Verbalize(eq.Markup)))
	}
	if err := uc.checkpoint(ctx, job.ID, progressEquationsConverted); err != nil {
		return "", nil, err
	}

	for _, table := range model.Tables {
		segments = append(segments, uc.tableSegment(table))
	}
	if err := uc.checkpoint(ctx, job.ID, progressTablesSummarized); err != nil {
		return "", nil, err
	}

	for _, section := range model.Sections {
		segments = append(segments, assemble.SectionSegment(section.Name))
	}
	if err := uc.checkpoint(ctx, job.ID, progressSectionsAppended); err != nil {
		return "", nil, err
	}

	narration := assemble.Join(segments)
	audioPath, err := uc.synthesizeNarration(ctx, job, narration)
	if err != nil {
		return "", nil, err
	}
	if err := uc.checkpoint(ctx, job.ID, progressAudioGenerated); err != nil {
		return "", nil, err
	}

	metrics, err := uc.evaluateNarration(ctx, job, model, narration, audioPath)
	if err != nil {
		return "", nil, err
	}
	if err := uc.checkpoint(ctx, job.ID, progressEvaluationDone); err != nil {
		return "", nil, err
	}

	return audioPath, metrics, nil
}

// tableSegment converts one candidate region; a failed tabular parse
// downgrades to a page-reference placeholder, never to a job failure.
func (uc *ConvertPaperUseCase) tableSegment(table domain.Table) domain.TextSegment {
	value, err := uc.summarizer.Parse(table.RawText)
	if err != nil {
		slog.Warn("table_parse_degraded", "page", table.PageIndex, "error", err)
		return assemble.TablePlaceholderSegment(table.PageIndex)
	}

	summary := uc.summarizer.Summarize(value)
	text := summary.Narrative
	if len(summary.Insights) > 0 {
		text += " " + strings.Join(summary.Insights, " ")
	}
	return assemble.TableSegment(text)
}

func (uc *ConvertPaperUseCase) synthesizeNarration(ctx context.Context, job *domain.Job, narration string) (string, error) {
	chunks := assemble.Chunk(narration, job.Options.ChunkSize)

	var audio []byte
	for i, chunk := range chunks {
		start := time.Now()
		buf, err := uc.synthesizer.Synthesize(ctx, chunk, job.Options.Voice)
		uc.observer.ObserveSynthesisLatency(time.Since(start))
		if err != nil {
			return "", fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio = append(audio, buf...)
	}

	audioPath := job.ID + "_narration.audio"
	if err := uc.storage.Save(ctx, audioPath, bytes.NewReader(audio)); err != nil {
		return "", fmt.Errorf("save audio artifact: %w", err)
	}
	return audioPath, nil
}

func (uc *ConvertPaperUseCase) evaluateNarration(
	ctx context.Context,
	job *domain.Job,
	model *domain.StructuralModel,
	narration string,
	audioPath string,
) (map[string]float64, error) {
	if !job.Options.RunEvaluation {
		return nil, nil
	}

	metrics, err := uc.evaluator.Evaluate(ctx, originalDigest(model), narration, audioPath)
	if err != nil {
		if uc.evaluationFailureFatal {
			return nil, fmt.Errorf("evaluate narration: %w", err)
		}
		slog.Warn("evaluation_skipped", "job_id", job.ID, "error", err)
		return nil, nil
	}
	return metrics, nil
}

// originalDigest is the source-side text handed to the evaluator: the raw
// content the narration was derived from, in assembly order.
func originalDigest(model *domain.StructuralModel) string {
	var parts []string
	if model.Metadata.Title != "" {
		parts = append(parts, model.Metadata.Title)
	}
	for _, eq := range model.Equations {
		parts = append(parts, eq.Markup)
	}
	for _, table := range model.Tables {
		parts = append(parts, table.RawText)
	}
	for _, section := range model.Sections {
		parts = append(parts, section.Name)
	}
	return strings.Join(parts, " ")
}

func (uc *ConvertPaperUseCase) checkpoint(ctx context.Context, jobID string, progress int) error {
	if err := uc.repo.UpdateProgress(ctx, jobID, progress); err != nil {
		return fmt.Errorf("update progress to %d: %w", progress, err)
	}
	return nil
}

// removeSource deletes the temporary input on every exit path. It runs even
// when the job context is already canceled.
func (uc *ConvertPaperUseCase) removeSource(ctx context.Context, job *domain.Job) {
	if job.SourcePath == "" {
		return
	}
	if err := uc.storage.Remove(context.WithoutCancel(ctx), job.SourcePath); err != nil {
		slog.Warn("source_cleanup_failed", "job_id", job.ID, "error", err)
	}
}

// NopObserver discards all pipeline measurements.
type NopObserver struct{}

func (NopObserver) ObservePaperSize(int64)                {}
func (NopObserver) ObserveStructure(int, int)             {}
func (NopObserver) ObserveSynthesisLatency(time.Duration) {}
