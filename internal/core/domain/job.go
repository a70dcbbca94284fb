package domain

import "time"

type JobStatus string

const (
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// ConversionOptions is the per-request configuration captured at submission.
type ConversionOptions struct {
	IncludeMetadata bool              `json:"include_metadata"`
	RunEvaluation   bool              `json:"run_evaluation"`
	Voice           map[string]string `json:"voice,omitempty"`
	ChunkSize       int               `json:"chunk_size"`
}

// Job is the visible record of one conversion request. It is written only by
// the worker that owns it; the API layer reads it for status polling.
type Job struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	SourcePath  string             `json:"source_path,omitempty"`
	Options     ConversionOptions  `json:"options"`
	Status      JobStatus          `json:"status"`
	Progress    int                `json:"progress"`
	AudioPath   string             `json:"audio_path,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	FailedAt    *time.Time         `json:"failed_at,omitempty"`
}

func (j *Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
