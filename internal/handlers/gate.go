package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/apiserver/types"
)

const loginPath = "/login"

// publicPaths may be visited without a session.
var publicPaths = map[string]struct{}{
	"/":                     {},
	"/login":                {},
	"/register":             {},
	"/register/company":     {},
	"/register/interviewer": {},
	"/register/job-seeker":  {},
}

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (string, types.Role, error)
}

// Decision is the outcome of a gate evaluation: the request either
// proceeds or is redirected. The gate never errors to the caller.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Gate enforces authentication and role-scoped path access for page
// routes. It is stateless across requests and fails closed: any
// uncertainty about the token resolves to a login redirect.
type Gate struct {
	verifier TokenVerifier
}

func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize evaluates one request path against the session token.
func (g *Gate) Authorize(path, token string) Decision {
	if _, ok := publicPaths[path]; ok {
		return Decision{Allow: true}
	}

	if token == "" {
		if strings.HasPrefix(path, "/register") {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: loginPath}
	}

	_, role, err := g.verifier.VerifyToken(token)
	if err != nil {
		return Decision{RedirectTo: loginPath}
	}

	if pathRole, ok := dashboardRole(path); ok && pathRole != role {
		return Decision{RedirectTo: role.DashboardPath()}
	}
	return Decision{Allow: true}
}

// Middleware applies the gate to page routes, redirecting rather than
// returning JSON errors.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Authorize(r.URL.Path, tokenFromRequest(r))
		if !decision.Allow {
			http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DashboardRouter serves the role-scoped dashboard namespace behind the
// gate. The landing payload is minimal; the real content comes from the
// role's API endpoints.
func (g *Gate) DashboardRouter(r chi.Router) {
	r.Use(g.Middleware)
	r.Get("/", g.redirectToOwnDashboard)
	r.Get("/{roleSegment}", g.landing)
}

func (g *Gate) redirectToOwnDashboard(w http.ResponseWriter, r *http.Request) {
	_, role, err := g.verifier.VerifyToken(tokenFromRequest(r))
	if err != nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, role.DashboardPath(), http.StatusSeeOther)
}

func (g *Gate) landing(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "roleSegment")
	role, ok := types.RoleFromPathSegment(segment)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown dashboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"role": string(role),
		"path": role.DashboardPath(),
	})
}

// dashboardRole resolves the role segment of a dashboard path.
// Returns false for paths outside the role-scoped namespace.
func dashboardRole(path string) (types.Role, bool) {
	const prefix = "/dashboard/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	segment := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	return types.RoleFromPathSegment(segment)
}
