package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/talentbridge/apiserver/internal/store"
	"github.com/talentbridge/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// AuthUserStore defines the account reads the auth service needs.
type AuthUserStore interface {
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
	ConfirmEmail(ctx context.Context, token string) (string, error)
}

// ProfileNameStore resolves the display name for a user's role profile.
type ProfileNameStore interface {
	GetCompanyByUserID(ctx context.Context, userID string) (types.CompanyProfile, error)
	GetInterviewerByUserID(ctx context.Context, userID string) (types.InterviewerProfile, error)
	GetJobSeekerByUserID(ctx context.Context, userID string) (types.JobSeekerProfile, error)
}

// AuthService verifies credentials and issues session tokens. The role
// claim inside the token is authoritative for authorization decisions;
// it is not re-read from the profile tables per request.
type AuthService struct {
	users    AuthUserStore
	profiles ProfileNameStore
	secret   []byte
	tokenTTL time.Duration
}

// LoginResult bundles the session token with the identity it represents.
type LoginResult struct {
	Token  string     `json:"token"`
	UserID string     `json:"userId"`
	Role   types.Role `json:"role"`
	Name   string     `json:"name"`
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(users AuthUserStore, profiles ProfileNameStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		secret:   []byte(jwtSecret),
		tokenTTL: defaultTokenTTL,
	}
}

// Login authenticates the credentials and issues a JWT carrying the
// role claim. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.EmailConfirmed {
		return LoginResult{}, ErrEmailNotConfirmed
	}

	name, err := s.displayName(ctx, user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("fetch %s profile: %w", user.Role, err)
	}

	token, err := s.issueToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{
		Token:  token,
		UserID: user.ID,
		Role:   user.Role,
		Name:   name,
	}, nil
}

// ConfirmEmail redeems a confirmation token and returns the user ID.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", &ValidationError{Message: "missing confirmation token"}
	}
	return s.users.ConfirmEmail(ctx, token)
}

// GetUser loads the account for an authenticated subject.
func (s *AuthService) GetUser(ctx context.Context, userID string) (types.User, error) {
	return s.users.GetByID(ctx, userID)
}

// VerifyToken validates a session token and returns its subject and
// role claim.
func (s *AuthService) VerifyToken(tokenString string) (string, types.Role, error) {
	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", "", errors.New("missing subject")
	}
	role, err := types.ParseRole(claims.Role)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, role, nil
}

func (s *AuthService) issueToken(userID string, role types.Role) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) displayName(ctx context.Context, user types.User) (string, error) {
	switch user.Role {
	case types.RoleCompany:
		profile, err := s.profiles.GetCompanyByUserID(ctx, user.ID)
		if err != nil {
			return "", err
		}
		return profile.Name, nil
	case types.RoleInterviewer:
		profile, err := s.profiles.GetInterviewerByUserID(ctx, user.ID)
		if err != nil {
			return "", err
		}
		return profile.FullName, nil
	case types.RoleJobSeeker:
		profile, err := s.profiles.GetJobSeekerByUserID(ctx, user.ID)
		if err != nil {
			return "", err
		}
		return profile.FullName, nil
	default:
		return "", fmt.Errorf("unknown role %q", user.Role)
	}
}
