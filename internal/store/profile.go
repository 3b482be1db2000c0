package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/talentbridge/apiserver/types"
)

// ProfileRepository handles persistence for the three role-profile
// tables. Each row is owned by exactly one user account.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateCompany(ctx context.Context, profile types.CompanyProfile) (types.CompanyProfile, error) {
	profile.CreatedAt = time.Now()

	const query = `
		INSERT INTO companies (user_id, name, industry, company_size, website, location, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.Name,
		profile.Industry,
		profile.CompanySize,
		profile.Website,
		profile.Location,
		profile.Description,
		profile.CreatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return types.CompanyProfile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) CreateInterviewer(ctx context.Context, profile types.InterviewerProfile) (types.InterviewerProfile, error) {
	profile.CreatedAt = time.Now()

	const query = `
		INSERT INTO interviewers (user_id, full_name, expertise, years_of_experience, current_company, linkedin_profile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.FullName,
		pq.Array(profile.Expertise),
		profile.YearsOfExperience,
		profile.CurrentCompany,
		profile.LinkedinProfile,
		profile.CreatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return types.InterviewerProfile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) CreateJobSeeker(ctx context.Context, profile types.JobSeekerProfile) (types.JobSeekerProfile, error) {
	profile.CreatedAt = time.Now()

	const query = `
		INSERT INTO job_seekers (user_id, full_name, skills, experience, education, resume_key, linkedin_profile, portfolio_url, preferred_roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.FullName,
		pq.Array(profile.Skills),
		profile.Experience,
		profile.Education,
		profile.ResumeKey,
		profile.LinkedinProfile,
		profile.PortfolioURL,
		pq.Array(profile.PreferredRoles),
		profile.CreatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return types.JobSeekerProfile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) GetCompanyByUserID(ctx context.Context, userID string) (types.CompanyProfile, error) {
	const query = `
		SELECT id, user_id, name, industry, company_size, website, location, description, created_at
		FROM companies
		WHERE user_id = $1`
	var profile types.CompanyProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Industry,
		&profile.CompanySize,
		&profile.Website,
		&profile.Location,
		&profile.Description,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.CompanyProfile{}, ErrNotFound
		}
		return types.CompanyProfile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) GetInterviewerByUserID(ctx context.Context, userID string) (types.InterviewerProfile, error) {
	const query = `
		SELECT id, user_id, full_name, expertise, years_of_experience, current_company, linkedin_profile, created_at
		FROM interviewers
		WHERE user_id = $1`
	var profile types.InterviewerProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		pq.Array(&profile.Expertise),
		&profile.YearsOfExperience,
		&profile.CurrentCompany,
		&profile.LinkedinProfile,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.InterviewerProfile{}, ErrNotFound
		}
		return types.InterviewerProfile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) GetJobSeekerByUserID(ctx context.Context, userID string) (types.JobSeekerProfile, error) {
	const query = `
		SELECT id, user_id, full_name, skills, experience, education, resume_key, linkedin_profile, portfolio_url, preferred_roles, created_at
		FROM job_seekers
		WHERE user_id = $1`
	var profile types.JobSeekerProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		pq.Array(&profile.Skills),
		&profile.Experience,
		&profile.Education,
		&profile.ResumeKey,
		&profile.LinkedinProfile,
		&profile.PortfolioURL,
		pq.Array(&profile.PreferredRoles),
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.JobSeekerProfile{}, ErrNotFound
		}
		return types.JobSeekerProfile{}, err
	}
	return profile, nil
}

// SetResumeKey records the object-storage key of the job seeker's
// uploaded resume.
func (r *ProfileRepository) SetResumeKey(ctx context.Context, userID, key string) error {
	const query = `UPDATE job_seekers SET resume_key = $1 WHERE user_id = $2`
	result, err := r.db.ExecContext(ctx, query, key, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
