package services

import (
	"context"
	"fmt"
	"time"

	"github.com/talentbridge/apiserver/types"
)

// recentApplicationsLimit caps the dashboard's recent-applications list.
const recentApplicationsLimit = 5

const appliedDateLayout = "2006-01-02"

type DashboardProfileStore interface {
	GetCompanyByUserID(ctx context.Context, userID string) (types.CompanyProfile, error)
}

type DashboardJobStore interface {
	CountActiveByCompany(ctx context.Context, companyID int) (int, error)
}

type DashboardApplicationStore interface {
	CountByCompany(ctx context.Context, companyID int) (int, error)
	RecentByCompany(ctx context.Context, companyID, limit int) ([]types.ApplicationSummary, error)
}

type DashboardInterviewStore interface {
	CountUpcomingByCompany(ctx context.Context, companyID int, now time.Time) (int, error)
}

// DashboardService composes the read-only aggregate a company account
// sees. Any failing query fails the whole fetch; partial data is never
// returned.
type DashboardService struct {
	profiles     DashboardProfileStore
	jobs         DashboardJobStore
	applications DashboardApplicationStore
	interviews   DashboardInterviewStore
	now          func() time.Time
}

func NewDashboardService(
	profiles DashboardProfileStore,
	jobs DashboardJobStore,
	applications DashboardApplicationStore,
	interviews DashboardInterviewStore,
) *DashboardService {
	return &DashboardService{
		profiles:     profiles,
		jobs:         jobs,
		applications: applications,
		interviews:   interviews,
		now:          time.Now,
	}
}

// CompanyDashboard returns the aggregate for the company owned by userID.
func (s *DashboardService) CompanyDashboard(ctx context.Context, userID string) (types.DashboardData, error) {
	company, err := s.profiles.GetCompanyByUserID(ctx, userID)
	if err != nil {
		return types.DashboardData{}, fmt.Errorf("fetch company profile: %w", err)
	}

	activeJobs, err := s.jobs.CountActiveByCompany(ctx, company.ID)
	if err != nil {
		return types.DashboardData{}, fmt.Errorf("count active jobs: %w", err)
	}

	totalApplications, err := s.applications.CountByCompany(ctx, company.ID)
	if err != nil {
		return types.DashboardData{}, fmt.Errorf("count applications: %w", err)
	}

	upcomingInterviews, err := s.interviews.CountUpcomingByCompany(ctx, company.ID, s.now())
	if err != nil {
		return types.DashboardData{}, fmt.Errorf("count upcoming interviews: %w", err)
	}

	summaries, err := s.applications.RecentByCompany(ctx, company.ID, recentApplicationsLimit)
	if err != nil {
		return types.DashboardData{}, fmt.Errorf("fetch recent applications: %w", err)
	}

	recent := make([]types.RecentApplication, 0, len(summaries))
	for _, summary := range summaries {
		recent = append(recent, types.RecentApplication{
			ID:            summary.ID,
			CandidateName: summary.CandidateName,
			Position:      summary.Position,
			AppliedDate:   summary.CreatedAt.Format(appliedDateLayout),
			Status:        summary.Status,
		})
	}

	return types.DashboardData{
		CompanyName:        company.Name,
		Industry:           company.Industry,
		CompanySize:        company.CompanySize,
		Location:           company.Location,
		ActiveJobs:         activeJobs,
		TotalApplications:  totalApplications,
		UpcomingInterviews: upcomingInterviews,
		RecentApplications: recent,
	}, nil
}
