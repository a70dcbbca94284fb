package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

type createRecordingRepo struct {
	jobRepoFake
	created *domain.Job
}

func (f *createRecordingRepo) Create(_ context.Context, job *domain.Job) error {
	f.created = job
	return nil
}

type queueFake struct {
	published []string
}

func (f *queueFake) PublishConversionRequested(_ context.Context, jobID string) error {
	f.published = append(f.published, jobID)
	return nil
}

func (f *queueFake) SubscribeConversionRequested(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestSubmitCreatesProcessingJobAndPublishes(t *testing.T) {
	repo := &createRecordingRepo{}
	storage := newStorageFake()
	queue := &queueFake{}
	uc := NewSubmitPaperUseCase(repo, storage, queue, 500)

	job, err := uc.Submit(context.Background(), "my paper.pdf", strings.NewReader("%PDF-1.4"), domain.ConversionOptions{})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if job.Status != domain.StatusProcessing || job.Progress != 0 {
		t.Fatalf("new job must start processing at 0, got %s/%d", job.Status, job.Progress)
	}
	if job.Options.ChunkSize != 500 {
		t.Fatalf("chunk size must default to 500, got %d", job.Options.ChunkSize)
	}
	if repo.created == nil || repo.created.ID != job.ID {
		t.Fatalf("job record not persisted")
	}
	if !strings.HasSuffix(job.SourcePath, "_my_paper.pdf") {
		t.Fatalf("unexpected storage key %q", job.SourcePath)
	}
	if _, ok := storage.saved[job.SourcePath]; !ok {
		t.Fatalf("paper bytes not saved under %q", job.SourcePath)
	}
	if len(queue.published) != 1 || queue.published[0] != job.ID {
		t.Fatalf("conversion request not published: %v", queue.published)
	}
}

func TestSubmitRejectsInvalidInputBeforeSideEffects(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		body     string
		opts     domain.ConversionOptions
	}{
		{name: "empty filename", filename: "  ", body: "data"},
		{name: "negative chunk size", filename: "p.pdf", body: "data", opts: domain.ConversionOptions{ChunkSize: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &createRecordingRepo{}
			storage := newStorageFake()
			queue := &queueFake{}
			uc := NewSubmitPaperUseCase(repo, storage, queue, 500)

			_, err := uc.Submit(context.Background(), tc.filename, strings.NewReader(tc.body), tc.opts)
			if !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
			if repo.created != nil || len(storage.saved) != 0 || len(queue.published) != 0 {
				t.Fatalf("invalid submission must not leave side effects")
			}
		})
	}
}

func TestSubmitNilBody(t *testing.T) {
	uc := NewSubmitPaperUseCase(&createRecordingRepo{}, newStorageFake(), &queueFake{}, 500)
	if _, err := uc.Submit(context.Background(), "p.pdf", nil, domain.ConversionOptions{}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestSubmitSanitizesHostileFilenames(t *testing.T) {
	repo := &createRecordingRepo{}
	uc := NewSubmitPaperUseCase(repo, newStorageFake(), &queueFake{}, 500)

	job, err := uc.Submit(context.Background(), "../../etc/pass wd?.pdf", strings.NewReader("data"), domain.ConversionOptions{})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if strings.Contains(job.SourcePath, "/") || strings.Contains(job.SourcePath, "..") {
		t.Fatalf("storage key must be a flat sanitized name, got %q", job.SourcePath)
	}
}
