package types

import "time"

// CompanyProfile is the extended profile for company accounts,
// stored in the companies table.
type CompanyProfile struct {
	ID          int       `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Industry    string    `json:"industry" db:"industry"`
	CompanySize string    `json:"company_size" db:"company_size"`
	Website     *string   `json:"website,omitempty" db:"website"`
	Location    string    `json:"location" db:"location"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// InterviewerProfile is the extended profile for interviewer accounts,
// stored in the interviewers table.
type InterviewerProfile struct {
	ID                int       `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	FullName          string    `json:"full_name" db:"full_name"`
	Expertise         []string  `json:"expertise" db:"expertise"`
	YearsOfExperience int       `json:"years_of_experience" db:"years_of_experience"`
	CurrentCompany    *string   `json:"current_company,omitempty" db:"current_company"`
	LinkedinProfile   *string   `json:"linkedin_profile,omitempty" db:"linkedin_profile"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// JobSeekerProfile is the extended profile for job seeker accounts,
// stored in the job_seekers table.
type JobSeekerProfile struct {
	ID              int       `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	FullName        string    `json:"full_name" db:"full_name"`
	Skills          []string  `json:"skills" db:"skills"`
	Experience      *string   `json:"experience,omitempty" db:"experience"`
	Education       *string   `json:"education,omitempty" db:"education"`
	ResumeKey       *string   `json:"-" db:"resume_key"`
	LinkedinProfile *string   `json:"linkedin_profile,omitempty" db:"linkedin_profile"`
	PortfolioURL    *string   `json:"portfolio_url,omitempty" db:"portfolio_url"`
	PreferredRoles  []string  `json:"preferred_roles" db:"preferred_roles"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
