package services

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/talentbridge/apiserver/internal/notify"
	"github.com/talentbridge/apiserver/types"
)

type JobStore interface {
	Create(ctx context.Context, job types.Job) (types.Job, error)
	Get(ctx context.Context, id int) (types.Job, error)
	ListActive(ctx context.Context, offset, limit int) ([]types.Job, int, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, app types.Application) (types.Application, error)
}

type JobProfileStore interface {
	GetCompanyByUserID(ctx context.Context, userID string) (types.CompanyProfile, error)
	GetJobSeekerByUserID(ctx context.Context, userID string) (types.JobSeekerProfile, error)
}

// CreateJobInput is the posting payload supplied by a company account.
type CreateJobInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// JobService encapsulates posting and application use-cases.
type JobService struct {
	jobs         JobStore
	applications ApplicationStore
	profiles     JobProfileStore
	events       EventPublisher
}

func NewJobService(jobs JobStore, applications ApplicationStore, profiles JobProfileStore, events EventPublisher) *JobService {
	return &JobService{
		jobs:         jobs,
		applications: applications,
		profiles:     profiles,
		events:       events,
	}
}

// CreateJob creates an active posting owned by the caller's company.
func (s *JobService) CreateJob(ctx context.Context, userID string, input CreateJobInput) (types.Job, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return types.Job{}, &ValidationError{Message: "title and description are required"}
	}

	company, err := s.profiles.GetCompanyByUserID(ctx, userID)
	if err != nil {
		return types.Job{}, err
	}

	return s.jobs.Create(ctx, types.Job{
		CompanyID:   company.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Location:    optional(input.Location),
		Status:      types.JobStatusActive,
	})
}

// ListActive returns active postings, newest first.
func (s *JobService) ListActive(ctx context.Context, offset, limit int) ([]types.Job, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.jobs.ListActive(ctx, offset, limit)
}

// Apply records the caller's application for the job and publishes an
// application.submitted event.
func (s *JobService) Apply(ctx context.Context, userID string, jobID int) (types.Application, error) {
	seeker, err := s.profiles.GetJobSeekerByUserID(ctx, userID)
	if err != nil {
		return types.Application{}, err
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return types.Application{}, err
	}
	if job.Status != types.JobStatusActive {
		return types.Application{}, &ValidationError{Message: "job is not open for applications"}
	}

	app, err := s.applications.Create(ctx, types.Application{
		JobID:       job.ID,
		CompanyID:   job.CompanyID,
		JobSeekerID: seeker.ID,
	})
	if err != nil {
		return types.Application{}, err
	}

	s.publishSubmitted(ctx, userID, seeker, job, app)
	return app, nil
}

func (s *JobService) publishSubmitted(ctx context.Context, userID string, seeker types.JobSeekerProfile, job types.Job, app types.Application) {
	if s.events == nil {
		return
	}
	event := notify.Event{
		Kind:   notify.TopicApplicationSubmitted,
		UserID: userID,
		Attributes: map[string]string{
			"application_id": strconv.Itoa(app.ID),
			"job_title":      job.Title,
			"candidate_name": seeker.FullName,
		},
	}
	if err := s.events.Publish(ctx, notify.TopicApplicationSubmitted, event); err != nil {
		log.Printf("publish %s event: %v", notify.TopicApplicationSubmitted, err)
	}
}
