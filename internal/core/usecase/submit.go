package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
	"github.com/voxpaper/paper-narrator/internal/core/ports"
)

// SubmitPaperUseCase validates a conversion request, stores the source paper
// and creates the job record. Input errors are rejected before any job
// exists.
type SubmitPaperUseCase struct {
	repo             ports.JobRepository
	storage          ports.ObjectStorage
	queue            ports.MessageQueue
	defaultChunkSize int
}

func NewSubmitPaperUseCase(
	repo ports.JobRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	defaultChunkSize int,
) *SubmitPaperUseCase {
	return &SubmitPaperUseCase{
		repo:             repo,
		storage:          storage,
		queue:            queue,
		defaultChunkSize: defaultChunkSize,
	}
}

func (uc *SubmitPaperUseCase) Submit(
	ctx context.Context,
	filename string,
	body io.Reader,
	opts domain.ConversionOptions,
) (*domain.Job, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit paper", errors.New("filename is required"))
	}
	if body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit paper", errors.New("file body is required"))
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = uc.defaultChunkSize
	}
	if opts.ChunkSize <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit paper", errors.New("chunk_size must be positive"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save paper to object storage: %w", err)
	}

	job := &domain.Job{
		ID:         id,
		Filename:   filename,
		SourcePath: storageKey,
		Options:    opts,
		Status:     domain.StatusProcessing,
		Progress:   0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job record: %w", err)
	}

	if err := uc.queue.PublishConversionRequested(ctx, job.ID); err != nil {
		return nil, fmt.Errorf("publish conversion request: %w", err)
	}

	return job, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "paper.pdf"
	}
	return base
}
