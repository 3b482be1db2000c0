package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentbridge/apiserver/types"
)

// ApplicationRepository handles persistence for job applications.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts the application. Applying twice to the same job is
// reported as ErrDuplicateApplication.
func (r *ApplicationRepository) Create(ctx context.Context, app types.Application) (types.Application, error) {
	app.CreatedAt = time.Now()
	if app.Status == "" {
		app.Status = "pending"
	}

	const query = `
		INSERT INTO applications (job_id, company_id, job_seeker_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		app.JobID,
		app.CompanyID,
		app.JobSeekerID,
		app.Status,
		app.CreatedAt,
	).Scan(&app.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Application{}, ErrDuplicateApplication
		}
		return types.Application{}, err
	}
	return app, nil
}

func (r *ApplicationRepository) CountByCompany(ctx context.Context, companyID int) (int, error) {
	const query = `SELECT COUNT(*) FROM applications WHERE company_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, companyID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RecentByCompany returns the company's newest applications joined with
// the applicant's name and the job title, newest first.
func (r *ApplicationRepository) RecentByCompany(ctx context.Context, companyID, limit int) ([]types.ApplicationSummary, error) {
	const query = `
		SELECT a.id, js.full_name, j.title, a.status, a.created_at
		FROM applications a
		JOIN job_seekers js ON js.id = a.job_seeker_id
		JOIN jobs j ON j.id = a.job_id
		WHERE a.company_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []types.ApplicationSummary
	for rows.Next() {
		var summary types.ApplicationSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.CandidateName,
			&summary.Position,
			&summary.Status,
			&summary.CreatedAt,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
