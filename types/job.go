package types

import "time"

// Job statuses.
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

// Job is a posting created by a company.
type Job struct {
	ID          int       `json:"id" db:"id"`
	CompanyID   int       `json:"company_id" db:"company_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    *string   `json:"location,omitempty" db:"location"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Application links a job seeker to a job they applied for.
type Application struct {
	ID          int       `json:"id" db:"id"`
	JobID       int       `json:"job_id" db:"job_id"`
	CompanyID   int       `json:"company_id" db:"company_id"`
	JobSeekerID int       `json:"job_seeker_id" db:"job_seeker_id"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Interview is a scheduled interview for an application.
type Interview struct {
	ID            int       `json:"id" db:"id"`
	ApplicationID int       `json:"application_id" db:"application_id"`
	CompanyID     int       `json:"company_id" db:"company_id"`
	InterviewerID *int      `json:"interviewer_id,omitempty" db:"interviewer_id"`
	ScheduledAt   time.Time `json:"scheduled_at" db:"scheduled_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ApplicationSummary is an application row joined with the applicant's
// name and the job title, as shown on the company dashboard.
type ApplicationSummary struct {
	ID            int       `json:"id"`
	CandidateName string    `json:"candidateName"`
	Position      string    `json:"position"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"-"`
}
