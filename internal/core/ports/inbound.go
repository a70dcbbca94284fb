package ports

import (
	"context"
	"io"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

// PaperSubmitter is the inbound contract for paper upload orchestration.
type PaperSubmitter interface {
	Submit(ctx context.Context, filename string, body io.Reader, opts domain.ConversionOptions) (*domain.Job, error)
}

// JobReader is the inbound read model for job status polling.
type JobReader interface {
	GetByID(ctx context.Context, id string) (*domain.Job, error)
}

// PaperConverter is the inbound contract for asynchronous conversion.
type PaperConverter interface {
	ConvertByID(ctx context.Context, jobID string) error
}
