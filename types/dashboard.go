package types

// RecentApplication is one entry of the dashboard's recent-applications
// list, with the applied date already formatted for display.
type RecentApplication struct {
	ID            int    `json:"id"`
	CandidateName string `json:"candidateName"`
	Position      string `json:"position"`
	AppliedDate   string `json:"appliedDate"`
	Status        string `json:"status"`
}

// DashboardData is the aggregate payload returned to a company account.
type DashboardData struct {
	CompanyName        string              `json:"companyName"`
	Industry           string              `json:"industry"`
	CompanySize        string              `json:"companySize"`
	Location           string              `json:"location"`
	ActiveJobs         int                 `json:"activeJobs"`
	TotalApplications  int                 `json:"totalApplications"`
	UpcomingInterviews int                 `json:"upcomingInterviews"`
	RecentApplications []RecentApplication `json:"recentApplications"`
}
