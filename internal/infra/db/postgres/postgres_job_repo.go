package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

func (r *jobRepo) Create(ctx context.Context, job *model.Job) error {
	if job.ID == "" {
		job.ID = ulid.Make().String()
	}
	const q = `
INSERT INTO jobs (id, session_id, status, type, instructions, context_summary, result, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.pool.Exec(ctx, q,
		job.ID, job.SessionID, string(job.Status), string(job.Type), job.Instructions, job.ContextSummary, job.Result, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w: %v", domain.ErrPersistence, err)
	}
	return nil
}

const jobColumns = `id, session_id, status, type, instructions, context_summary, result, created_at, updated_at`

func (r *jobRepo) Find(ctx context.Context, sessionID string) ([]*model.Job, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE session_id=$1;`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer rows.Close()

	var out []*model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *jobRepo) FindOne(ctx context.Context, id string) (*model.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=$1;`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return j, nil
}

func (r *jobRepo) MarkInProgress(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.JobStatusInProgress, nil)
}

func (r *jobRepo) MarkCompleted(ctx context.Context, id string, result string) error {
	return r.setStatus(ctx, id, model.JobStatusCompleted, &result)
}

func (r *jobRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.setStatus(ctx, id, model.JobStatusFailed, &reason)
}

// setStatus is a conditionless single-row write; callers are responsible for
// checking the current status first.
func (r *jobRepo) setStatus(ctx context.Context, id string, status model.JobStatus, result *string) error {
	const q = `
UPDATE jobs SET status=$2, result=COALESCE($3, result), updated_at=$4 WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, id, string(status), result, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark job %s: %w: %v", status, domain.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var j model.Job
	var status, jobType string
	if err := row.Scan(
		&j.ID, &j.SessionID, &status, &jobType,
		&j.Instructions, &j.ContextSummary, &j.Result,
		&j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	j.Status = model.JobStatus(status)
	j.Type = model.JobType(jobType)
	return &j, nil
}
