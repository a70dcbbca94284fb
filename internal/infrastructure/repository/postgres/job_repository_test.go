package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*JobRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &JobRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, source_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansFullRow(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	completed := now.Add(time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "filename", "source_path", "options", "status", "progress",
		"audio_path", "metrics", "error_message", "created_at", "updated_at", "completed_at", "failed_at",
	}).AddRow(
		"job-1", "paper.pdf", "job-1_paper.pdf", []byte(`{"chunk_size":500}`), "completed", 100,
		"job-1_narration.audio", []byte(`{"clarity":0.9}`), nil, now, completed, completed, nil,
	)

	mock.ExpectQuery("SELECT id, filename, source_path").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if job.Status != domain.StatusCompleted || job.Progress != 100 {
		t.Fatalf("unexpected job state %s/%d", job.Status, job.Progress)
	}
	if job.Options.ChunkSize != 500 {
		t.Fatalf("options not decoded: %+v", job.Options)
	}
	if job.Metrics["clarity"] != 0.9 {
		t.Fatalf("metrics not decoded: %v", job.Metrics)
	}
	if job.AudioPath != "job-1_narration.audio" {
		t.Fatalf("audio path not decoded: %q", job.AudioPath)
	}
	if job.CompletedAt == nil || job.FailedAt != nil {
		t.Fatalf("timestamps not decoded: %+v %+v", job.CompletedAt, job.FailedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateProgressGuardsTerminalRows(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE jobs").
		WithArgs("done-job", 45, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProgress(context.Background(), "done-job", 45)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkCompletedWritesArtifactAndMetrics(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE jobs").
		WithArgs("job-1", "job-1_narration.audio", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkCompleted(context.Background(), "job-1", "job-1_narration.audio", map[string]float64{"clarity": 0.9})
	if err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkFailedOnlyTouchesProcessingRows(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE jobs").
		WithArgs("done-job", "boom", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkFailed(context.Background(), "done-job", "boom")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
