package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/talentbridge/apiserver/types"
)

type stubVerifier struct {
	userID string
	role   types.Role
	err    error
}

func (s *stubVerifier) VerifyToken(token string) (string, types.Role, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return s.userID, s.role, nil
}

func TestGateAuthorize(t *testing.T) {
	valid := &stubVerifier{userID: "user-1", role: types.RoleInterviewer}
	invalid := &stubVerifier{err: errors.New("bad signature")}

	cases := []struct {
		name         string
		verifier     TokenVerifier
		path         string
		token        string
		wantAllow    bool
		wantRedirect string
	}{
		{"public path without token", valid, "/login", "", true, ""},
		{"root without token", valid, "/", "", true, ""},
		{"register subpage without token", valid, "/register/company", "", true, ""},
		{"protected path without token", valid, "/dashboard/company", "", false, "/login"},
		{"protected path with invalid token", invalid, "/dashboard/interviewer", "token", false, "/login"},
		{"own dashboard", valid, "/dashboard/interviewer", "token", true, ""},
		{"own dashboard subpage", valid, "/dashboard/interviewer/sessions", "token", true, ""},
		{"foreign dashboard", valid, "/dashboard/company", "token", false, "/dashboard/interviewer"},
		{"foreign job seeker dashboard", valid, "/dashboard/job-seeker", "token", false, "/dashboard/interviewer"},
		{"non-dashboard page with token", valid, "/settings", "token", true, ""},
		{"unknown dashboard segment", valid, "/dashboard/admin", "token", true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := NewGate(tc.verifier)
			decision := gate.Authorize(tc.path, tc.token)
			if decision.Allow != tc.wantAllow {
				t.Fatalf("allow = %v, want %v (decision %+v)", decision.Allow, tc.wantAllow, decision)
			}
			if decision.RedirectTo != tc.wantRedirect {
				t.Fatalf("redirect = %q, want %q", decision.RedirectTo, tc.wantRedirect)
			}
		})
	}
}

func TestGateMiddlewareRedirects(t *testing.T) {
	gate := NewGate(&stubVerifier{err: errors.New("expired")})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a rejected request")
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/company", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()

	gate.Middleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
}

func TestGateMiddlewarePassesThrough(t *testing.T) {
	gate := NewGate(&stubVerifier{userID: "user-1", role: types.RoleCompany})
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/company", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()

	gate.Middleware(next).ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected the handler to run")
	}
}
