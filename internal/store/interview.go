package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentbridge/apiserver/types"
)

// InterviewRepository handles persistence for interviews.
type InterviewRepository struct {
	db *sql.DB
}

func NewInterviewRepository(db *sql.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) Create(ctx context.Context, interview types.Interview) (types.Interview, error) {
	interview.CreatedAt = time.Now()

	const query = `
		INSERT INTO interviews (application_id, company_id, interviewer_id, scheduled_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		interview.ApplicationID,
		interview.CompanyID,
		interview.InterviewerID,
		interview.ScheduledAt,
		interview.CreatedAt,
	).Scan(&interview.ID)
	if err != nil {
		return types.Interview{}, err
	}
	return interview, nil
}

// CountUpcomingByCompany counts interviews scheduled at or after now.
func (r *InterviewRepository) CountUpcomingByCompany(ctx context.Context, companyID int, now time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM interviews WHERE company_id = $1 AND scheduled_at >= $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, companyID, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
