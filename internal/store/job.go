package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/talentbridge/apiserver/types"
)

// JobRepository handles persistence for job postings.
type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job types.Job) (types.Job, error) {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = types.JobStatusActive
	}

	const query = `
		INSERT INTO jobs (company_id, title, description, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		job.CompanyID,
		job.Title,
		job.Description,
		job.Location,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	).Scan(&job.ID)
	if err != nil {
		return types.Job{}, err
	}
	return job, nil
}

func (r *JobRepository) Get(ctx context.Context, id int) (types.Job, error) {
	const query = `
		SELECT id, company_id, title, description, location, status, created_at, updated_at
		FROM jobs
		WHERE id = $1`
	var job types.Job
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.CompanyID,
		&job.Title,
		&job.Description,
		&job.Location,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Job{}, ErrNotFound
		}
		return types.Job{}, err
	}
	return job, nil
}

// ListActive returns active postings newest first, with the total count
// for pagination.
func (r *JobRepository) ListActive(ctx context.Context, offset, limit int) ([]types.Job, int, error) {
	const countQuery = `SELECT COUNT(*) FROM jobs WHERE status = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, types.JobStatusActive).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT id, company_id, title, description, location, status, created_at, updated_at
		FROM jobs
		WHERE status = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, types.JobStatusActive, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var job types.Job
		if err := rows.Scan(
			&job.ID,
			&job.CompanyID,
			&job.Title,
			&job.Description,
			&job.Location,
			&job.Status,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) CountActiveByCompany(ctx context.Context, companyID int) (int, error) {
	const query = `SELECT COUNT(*) FROM jobs WHERE company_id = $1 AND status = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, companyID, types.JobStatusActive).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
