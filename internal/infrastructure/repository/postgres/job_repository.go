package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	source_path TEXT NOT NULL,
	options JSONB NOT NULL DEFAULT '{}'::jsonb,
	status TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0,
	audio_path TEXT,
	metrics JSONB,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	failed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	optionsJSON, err := json.Marshal(job.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO jobs (
	id, filename, source_path, options, status, progress, audio_path, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		job.ID, job.Filename, job.SourcePath, optionsJSON, string(job.Status),
		job.Progress, job.AudioPath, job.Error, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, source_path, options, status, progress, audio_path, metrics, error_message, created_at, updated_at, completed_at, failed_at
FROM jobs
WHERE id = $1
`, id)

	var job domain.Job
	var optionsRaw []byte
	var metricsRaw []byte
	var status string
	var audioPath sql.NullString
	var errMessage sql.NullString
	var completedAt sql.NullTime
	var failedAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.Filename, &job.SourcePath, &optionsRaw, &status, &job.Progress,
		&audioPath, &metricsRaw, &errMessage, &job.CreatedAt, &job.UpdatedAt, &completedAt, &failedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrJobNotFound, "get job", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	if err := json.Unmarshal(optionsRaw, &job.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	if len(metricsRaw) > 0 {
		if err := json.Unmarshal(metricsRaw, &job.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
	}
	job.Status = domain.JobStatus(status)
	job.AudioPath = audioPath.String
	job.Error = errMessage.String
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if failedAt.Valid {
		job.FailedAt = &failedAt.Time
	}
	return &job, nil
}

// UpdateProgress never moves a job backwards and never touches terminal rows.
func (r *JobRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET progress = GREATEST(progress, $2), updated_at = $3
WHERE id = $1 AND status = 'processing'
`, id, progress, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job progress rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrJobNotFound, "update job progress", fmt.Errorf("id %s not processing", id))
	}
	return nil
}

func (r *JobRepository) MarkCompleted(ctx context.Context, id, audioPath string, metrics map[string]float64) error {
	var metricsJSON any
	if metrics != nil {
		raw, err := json.Marshal(metrics)
		if err != nil {
			return fmt.Errorf("marshal metrics: %w", err)
		}
		metricsJSON = raw
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET status = 'completed', progress = 100, audio_path = $2, metrics = $3, updated_at = $4, completed_at = $4
WHERE id = $1 AND status = 'processing'
`, id, audioPath, metricsJSON, now)
	if err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark job completed rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrJobNotFound, "mark job completed", fmt.Errorf("id %s not processing", id))
	}
	return nil
}

func (r *JobRepository) MarkFailed(ctx context.Context, id, errMessage string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET status = 'failed', error_message = $2, updated_at = $3, failed_at = $3
WHERE id = $1 AND status = 'processing'
`, id, errMessage, now)
	if err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark job failed rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrJobNotFound, "mark job failed", fmt.Errorf("id %s not processing", id))
	}
	return nil
}
