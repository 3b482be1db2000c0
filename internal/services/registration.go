package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/talentbridge/apiserver/internal/notify"
	"github.com/talentbridge/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// registrationMessage is returned on success; confirmation is required
// before the first login.
const registrationMessage = "Please check your email to confirm your account"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore defines the account operations the saga needs.
type UserStore interface {
	Create(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id string) error
}

// ProfileStore defines the role-profile inserts the saga needs.
type ProfileStore interface {
	CreateCompany(ctx context.Context, profile types.CompanyProfile) (types.CompanyProfile, error)
	CreateInterviewer(ctx context.Context, profile types.InterviewerProfile) (types.InterviewerProfile, error)
	CreateJobSeeker(ctx context.Context, profile types.JobSeekerProfile) (types.JobSeekerProfile, error)
}

// EventPublisher publishes notification events. Publishing is
// best-effort; registration never fails because of it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event notify.Event) error
}

// RegisterRequest carries the base fields plus the union of the
// role-specific fields. Which of them are required depends on Role.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// company
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	CompanySize string `json:"companySize"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Description string `json:"description"`

	// interviewer
	FullName          string           `json:"fullName"`
	Expertise         types.StringList `json:"expertise"`
	YearsOfExperience int              `json:"yearsOfExperience"`
	CurrentCompany    string           `json:"currentCompany"`
	LinkedinProfile   string           `json:"linkedinProfile"`

	// job seeker
	Skills         types.StringList `json:"skills"`
	Experience     string           `json:"experience"`
	Education      string           `json:"education"`
	ResumeURL      string           `json:"resumeUrl"`
	PortfolioURL   string           `json:"portfolioUrl"`
	PreferredRoles types.StringList `json:"preferredRoles"`
}

// RegistrationResult is returned when the saga completes.
type RegistrationResult struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// RegistrationService creates an account and its role profile across
// two tables without a cross-table transaction. The profile insert
// depends on the account ID, so account creation must come first; a
// failure after that point deletes the account again.
type RegistrationService struct {
	users    UserStore
	profiles ProfileStore
	events   EventPublisher
}

func NewRegistrationService(users UserStore, profiles ProfileStore, events EventPublisher) *RegistrationService {
	return &RegistrationService{
		users:    users,
		profiles: profiles,
		events:   events,
	}
}

// Register runs the registration saga. On success exactly one account
// and one matching role profile exist; on any failure after account
// creation, neither does.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (RegistrationResult, error) {
	role, err := validateBase(req)
	if err != nil {
		return RegistrationResult{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := types.User{
		ID:                uuid.NewString(),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Role:              role,
		PasswordHash:      string(passwordHash),
		ConfirmationToken: uuid.NewString(),
	}

	steps := []sagaStep{
		{
			name: "create account",
			run: func(ctx context.Context) error {
				created, err := s.users.Create(ctx, user)
				if err != nil {
					return &AuthCreationError{Err: err}
				}
				user = created
				return nil
			},
			rollback: func(ctx context.Context) error {
				return s.users.Delete(ctx, user.ID)
			},
		},
		{
			// Role fields are checked only after the account exists,
			// matching the original flow: a failure here compensates.
			name: "validate profile fields",
			run: func(ctx context.Context) error {
				return validateProfileFields(role, req)
			},
		},
		{
			name: "create profile",
			run: func(ctx context.Context) error {
				if err := s.insertProfile(ctx, user.ID, role, req); err != nil {
					return &ProfileCreationError{Role: role, Err: err}
				}
				return nil
			},
		},
	}

	if err := runSaga(ctx, steps); err != nil {
		return RegistrationResult{}, err
	}

	s.publishRegistered(ctx, user)

	return RegistrationResult{
		UserID:  user.ID,
		Message: registrationMessage,
	}, nil
}

func validateBase(req RegisterRequest) (types.Role, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.Role) == "" {
		return "", &ValidationError{Message: "missing required fields"}
	}
	if !emailPattern.MatchString(email) {
		return "", &ValidationError{Message: "invalid email format"}
	}
	if len(req.Password) < minPasswordLength {
		return "", &ValidationError{Message: "password must be at least 8 characters long"}
	}
	role, err := types.ParseRole(strings.TrimSpace(req.Role))
	if err != nil {
		return "", &ValidationError{Message: "invalid role"}
	}
	return role, nil
}

func validateProfileFields(role types.Role, req RegisterRequest) error {
	switch role {
	case types.RoleCompany:
		if req.CompanyName == "" || req.Industry == "" || req.CompanySize == "" || req.Location == "" {
			return &ValidationError{Message: "missing required company fields"}
		}
	case types.RoleInterviewer:
		if req.FullName == "" || len(req.Expertise) == 0 || req.YearsOfExperience <= 0 {
			return &ValidationError{Message: "missing required interviewer fields"}
		}
	case types.RoleJobSeeker:
		if req.FullName == "" || len(req.Skills) == 0 || len(req.PreferredRoles) == 0 {
			return &ValidationError{Message: "missing required job seeker fields"}
		}
	default:
		return &ValidationError{Message: "invalid role"}
	}
	return nil
}

// insertProfile maps the request onto the role's profile row. The
// switch is exhaustive over the role enum; validateBase has already
// rejected anything else.
func (s *RegistrationService) insertProfile(ctx context.Context, userID string, role types.Role, req RegisterRequest) error {
	switch role {
	case types.RoleCompany:
		_, err := s.profiles.CreateCompany(ctx, types.CompanyProfile{
			UserID:      userID,
			Name:        req.CompanyName,
			Industry:    req.Industry,
			CompanySize: req.CompanySize,
			Website:     optional(req.Website),
			Location:    req.Location,
			Description: optional(req.Description),
		})
		return err
	case types.RoleInterviewer:
		_, err := s.profiles.CreateInterviewer(ctx, types.InterviewerProfile{
			UserID:            userID,
			FullName:          req.FullName,
			Expertise:         req.Expertise,
			YearsOfExperience: req.YearsOfExperience,
			CurrentCompany:    optional(req.CurrentCompany),
			LinkedinProfile:   optional(req.LinkedinProfile),
		})
		return err
	case types.RoleJobSeeker:
		_, err := s.profiles.CreateJobSeeker(ctx, types.JobSeekerProfile{
			UserID:          userID,
			FullName:        req.FullName,
			Skills:          req.Skills,
			Experience:      optional(req.Experience),
			Education:       optional(req.Education),
			ResumeKey:       optional(req.ResumeURL),
			LinkedinProfile: optional(req.LinkedinProfile),
			PortfolioURL:    optional(req.PortfolioURL),
			PreferredRoles:  req.PreferredRoles,
		})
		return err
	default:
		return fmt.Errorf("unknown role %q", role)
	}
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user types.User) {
	if s.events == nil {
		return
	}
	event := notify.Event{
		Kind:   notify.TopicUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
		Attributes: map[string]string{
			"role":               string(user.Role),
			"confirmation_token": user.ConfirmationToken,
		},
	}
	if err := s.events.Publish(ctx, notify.TopicUserRegistered, event); err != nil {
		log.Printf("publish %s event: %v", notify.TopicUserRegistered, err)
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
