package types

import "fmt"

// Role identifies which kind of account a user registered as.
// The set is closed: no other values are ever valid.
type Role string

const (
	RoleCompany     Role = "company"
	RoleInterviewer Role = "interviewer"
	RoleJobSeeker   Role = "job_seeker"
)

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	switch r {
	case RoleCompany, RoleInterviewer, RoleJobSeeker:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw string into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q", raw)
	}
	return role, nil
}

// PathSegment returns the URL segment used for the role's dashboard
// namespace. job_seeker is spelled with a hyphen in paths.
func (r Role) PathSegment() string {
	if r == RoleJobSeeker {
		return "job-seeker"
	}
	return string(r)
}

// DashboardPath returns the role's default landing path.
func (r Role) DashboardPath() string {
	return "/dashboard/" + r.PathSegment()
}

// RoleFromPathSegment resolves a dashboard path segment back to a Role.
func RoleFromPathSegment(segment string) (Role, bool) {
	switch segment {
	case "company":
		return RoleCompany, true
	case "interviewer":
		return RoleInterviewer, true
	case "job-seeker":
		return RoleJobSeeker, true
	default:
		return "", false
	}
}
