package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/apiserver/types"
)

// DashboardFetcher composes the company dashboard aggregate.
type DashboardFetcher interface {
	CompanyDashboard(ctx context.Context, userID string) (types.DashboardData, error)
}

// CompanyHandler provides the company-facing read endpoints.
type CompanyHandler struct {
	dashboard DashboardFetcher
}

func NewCompanyHandler(dashboard DashboardFetcher) *CompanyHandler {
	return &CompanyHandler{dashboard: dashboard}
}

// CompanyRouter registers company routes. Requires an authenticated
// company session.
func CompanyRouter(r chi.Router, handler *CompanyHandler, requireAuth func(http.Handler) http.Handler) {
	r.With(requireAuth, RequireRole(types.RoleCompany)).Get("/dashboard", handler.Dashboard)
}

// Dashboard returns counts and recent applications for the caller's
// company. Any underlying query failure collapses to a single error;
// partial data is never returned.
func (h *CompanyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	data, err := h.dashboard.CompanyDashboard(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error fetching dashboard data")
		return
	}

	writeJSON(w, http.StatusOK, data)
}
