//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/talentbridge/apiserver/config"
	"github.com/talentbridge/apiserver/internal/db"
	"github.com/talentbridge/apiserver/internal/server"
)

const (
	serverPort = 18080
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	root, err := repoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate repo root: %v\n", err)
		os.Exit(1)
	}

	if err := dockerCompose(ctx, root, "up", "-d"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start docker compose: %v\n", err)
		os.Exit(1)
	}

	if err := waitForPostgres(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "postgres not ready: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	if err := runMigrations(root); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	srv, err := startServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		_ = srv.Shutdown()
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	code := m.Run()

	_ = srv.Shutdown()
	_ = dockerCompose(context.Background(), root, "down")
	os.Exit(code)
}

func TestCompanyRegistrationLifecycle(t *testing.T) {
	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	email := fmt.Sprintf("acme_%d@example.com", time.Now().UnixNano())
	password := "testpass123!"

	userID, err := registerCompany(t, baseURL, email, password)
	if err != nil {
		t.Fatalf("register company: %v", err)
	}

	// Login must be refused until the email is confirmed.
	if _, err := login(t, baseURL, email, password); err == nil {
		t.Fatalf("expected login to fail before confirmation")
	}

	confirmToken, err := lookupConfirmationToken(userID)
	if err != nil {
		t.Fatalf("lookup confirmation token: %v", err)
	}

	if err := confirmEmail(t, baseURL, confirmToken); err != nil {
		t.Fatalf("confirm email: %v", err)
	}

	token, err := login(t, baseURL, email, password)
	if err != nil {
		t.Fatalf("login after confirmation: %v", err)
	}

	dashboard, err := fetchDashboard(t, baseURL, token)
	if err != nil {
		t.Fatalf("fetch dashboard: %v", err)
	}
	if dashboard.CompanyName != "Acme Corp" {
		t.Fatalf("unexpected company name: %q", dashboard.CompanyName)
	}
	if dashboard.ActiveJobs != 0 {
		t.Fatalf("expected zero active jobs for a fresh company, got %d", dashboard.ActiveJobs)
	}
	if dashboard.RecentApplications == nil {
		t.Fatalf("expected recent applications to be an empty list, got null")
	}
}

func TestRegistrationCompensatesOnMissingProfileFields(t *testing.T) {
	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	email := fmt.Sprintf("broken_%d@example.com", time.Now().UnixNano())

	payload := map[string]any{
		"email":    email,
		"password": "testpass123!",
		"role":     "company",
		// companyName intentionally missing
		"industry": "Testing",
	}
	status, _, err := postJSON(baseURL+"/api/auth/register", payload)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	if status != http.StatusBadRequest {
		t.Fatalf("expected role-field validation status 400, got %d", status)
	}

	// The compensating delete must have removed the half-created account.
	exists, err := userExists(email)
	if err != nil {
		t.Fatalf("check user: %v", err)
	}
	if exists {
		t.Fatalf("expected compensation to delete the account for %s", email)
	}
}

type registerResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type dashboardResponse struct {
	CompanyName        string           `json:"companyName"`
	ActiveJobs         int              `json:"activeJobs"`
	TotalApplications  int              `json:"totalApplications"`
	RecentApplications []map[string]any `json:"recentApplications"`
}

func registerCompany(t *testing.T, baseURL, email, password string) (string, error) {
	t.Helper()

	payload := map[string]any{
		"email":       email,
		"password":    password,
		"role":        "company",
		"companyName": "Acme Corp",
		"industry":    "Software",
		"companySize": "11-50",
		"location":    "Berlin",
	}
	status, body, err := postJSON(baseURL+"/api/auth/register", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("register status %d: %s", status, strings.TrimSpace(string(body)))
	}

	var parsed registerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.UserID == "" {
		return "", fmt.Errorf("missing userId in register response")
	}
	return parsed.UserID, nil
}

func login(t *testing.T, baseURL, email, password string) (string, error) {
	t.Helper()

	payload := map[string]string{"email": email, "password": password}
	status, body, err := postJSON(baseURL+"/api/auth/login", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("login status %d: %s", status, strings.TrimSpace(string(body)))
	}

	var parsed loginResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("missing token in login response")
	}
	return parsed.Token, nil
}

func confirmEmail(t *testing.T, baseURL, token string) error {
	t.Helper()

	resp, err := http.Get(baseURL + "/api/auth/confirm?token=" + token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("confirm status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func fetchDashboard(t *testing.T, baseURL, token string) (dashboardResponse, error) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/company/dashboard", nil)
	if err != nil {
		return dashboardResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return dashboardResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return dashboardResponse{}, fmt.Errorf("dashboard status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed dashboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return dashboardResponse{}, err
	}
	return parsed, nil
}

func postJSON(url string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func lookupConfirmationToken(userID string) (string, error) {
	conn, err := openDB()
	if err != nil {
		return "", err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var token string
	err = conn.QueryRowContext(ctx, "SELECT confirmation_token FROM users WHERE id = $1", userID).Scan(&token)
	return token, err
}

func userExists(email string) (bool, error) {
	conn, err := openDB()
	if err != nil {
		return false, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err = conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", email).Scan(&count)
	return count > 0, err
}

func openDB() (*sql.DB, error) {
	cfg := config.LoadConfig()
	return sql.Open("postgres", db.DSN(cfg))
}

func waitForPostgres(ctx context.Context) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres ping timeout: %w", err)
		case <-ticker.C:
		}
	}
}

func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return fmt.Errorf("health check failed with status")
		case <-ticker.C:
		}
	}
}

func runMigrations(root string) error {
	cfg := config.LoadConfig()
	dsn := db.DSN(cfg)
	migrationsPath := filepath.Join(root, "internal", "db", "migrations")
	migrationsURL := "file://" + migrationsPath

	migrator, err := migrate.New(migrationsURL, dsn)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func startServer() (*server.Server, error) {
	_ = os.Setenv("JWT_SECRET", "test-secret")
	_ = os.Setenv("SERVER_PORT", fmt.Sprintf("%d", serverPort))
	_ = os.Setenv("DB_HOST", "localhost")
	_ = os.Setenv("DB_PORT", "5432")
	_ = os.Setenv("DB_USER", "talentbridge")
	_ = os.Setenv("DB_PASSWORD", "password")
	_ = os.Setenv("DB_NAME", "talentbridge_db")
	_ = os.Setenv("DB_USE_SSL", "false")

	cfg := config.LoadConfig()
	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	go func() {
		_ = srv.Start()
	}()

	return srv, nil
}

func dockerCompose(ctx context.Context, root string, args ...string) error {
	composeFile := filepath.Join(root, "development", "docker-compose.yml")
	baseArgs := append([]string{"compose", "-f", composeFile}, args...)
	cmd := exec.CommandContext(ctx, "docker", baseArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
