package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/apiserver/internal/services"
	"github.com/talentbridge/apiserver/internal/store"
	"github.com/talentbridge/apiserver/types"
)

// Registerer runs the registration saga.
type Registerer interface {
	Register(ctx context.Context, req services.RegisterRequest) (services.RegistrationResult, error)
}

// Authenticator verifies credentials and session tokens.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (services.LoginResult, error)
	ConfirmEmail(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, userID string) (types.User, error)
	VerifyToken(token string) (string, types.Role, error)
}

// AuthHandler provides registration, login, and confirmation endpoints.
type AuthHandler struct {
	registration Registerer
	auth         Authenticator
	cookieSecure bool
	cookieMaxAge int
}

func NewAuthHandler(registration Registerer, auth Authenticator, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		auth:         auth,
		cookieSecure: cookieSecure,
		cookieMaxAge: 24 * 60 * 60,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Get("/confirm", handler.Confirm)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
}

// RequireAuth enforces a valid session token and injects the subject
// and role claim into the request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, role, err := h.auth.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), contextSubjectKey, userID)
		ctx = context.WithValue(ctx, contextRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated requests whose role claim does not
// match. Must be mounted after RequireAuth.
func RequireRole(role types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claimed, err := roleFromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if claimed != role {
				writeError(w, http.StatusForbidden, "unauthorized access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Register runs the registration saga and reports the new account ID.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.registration.Register(r.Context(), req)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Message)
			return
		}
		var authErr *services.AuthCreationError
		if errors.As(err, &authErr) {
			// The store's message is surfaced unchanged, so a
			// duplicate email reads as its conflict message.
			writeError(w, http.StatusBadRequest, authErr.Error())
			return
		}
		var profileErr *services.ProfileCreationError
		if errors.As(err, &profileErr) {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   fmt.Sprintf("failed to create %s profile", profileErr.Role),
				Details: profileErr.Err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "error creating user profile",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Login verifies credentials, sets the session cookie, and returns the
// token and role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotConfirmed) {
			writeError(w, http.StatusUnauthorized, "please confirm your email address before logging in")
			return
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, result)
}

// Confirm redeems an email-confirmation token.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	userID, err := h.auth.ConfirmEmail(r.Context(), token)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Message)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invalid or already used confirmation token")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to confirm email")
		return
	}

	writeJSON(w, http.StatusOK, ConfirmResponse{
		UserID:  userID,
		Message: "email confirmed, you can now log in",
	})
}

// Me returns the current authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ConfirmResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}
