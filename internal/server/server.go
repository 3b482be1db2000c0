package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/talentbridge/apiserver/config"
	"github.com/talentbridge/apiserver/internal/db"
	"github.com/talentbridge/apiserver/internal/handlers"
	"github.com/talentbridge/apiserver/internal/notify"
	"github.com/talentbridge/apiserver/internal/services"
	"github.com/talentbridge/apiserver/internal/storage"
	"github.com/talentbridge/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     notify.Broker
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	profileRepo := store.NewProfileRepository(dbConn)
	jobRepo := store.NewJobRepository(dbConn)
	applicationRepo := store.NewApplicationRepository(dbConn)
	interviewRepo := store.NewInterviewRepository(dbConn)

	broker, err := newBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	objects, err := newObjectStore(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		closeBroker(broker)
		return nil, err
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		closeBroker(broker)
		return nil, errors.New("JWT_SECRET is required")
	}

	registrationService := services.NewRegistrationService(userRepo, profileRepo, broker)
	authService := services.NewAuthService(userRepo, profileRepo, jwtSecret)
	dashboardService := services.NewDashboardService(profileRepo, jobRepo, applicationRepo, interviewRepo)
	jobService := services.NewJobService(jobRepo, applicationRepo, profileRepo, broker)

	cookieSecure := strings.HasPrefix(cfg.SiteURL, "https://")
	authHandler := handlers.NewAuthHandler(registrationService, authService, cookieSecure)
	companyHandler := handlers.NewCompanyHandler(dashboardService)
	jobHandler := handlers.NewJobHandler(jobService)
	gate := handlers.NewGate(authService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
	})
	router.Route("/api/jobs", func(r chi.Router) {
		handlers.JobRouter(r, jobHandler, authHandler.RequireAuth)
	})
	router.Route("/api/company", func(r chi.Router) {
		handlers.CompanyRouter(r, companyHandler, authHandler.RequireAuth)
	})
	if objects != nil {
		resumeService := services.NewResumeService(objects, profileRepo)
		resumeHandler := handlers.NewResumeHandler(resumeService)
		router.Route("/api/job-seeker", func(r chi.Router) {
			handlers.ResumeRouter(r, resumeHandler, authHandler.RequireAuth)
		})
	}
	router.Route("/dashboard", func(r chi.Router) {
		gate.DashboardRouter(r)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// newBroker builds the configured notification backend. An empty
// backend disables event publishing.
func newBroker(ctx context.Context, cfg config.Config) (notify.Broker, error) {
	switch cfg.MQ.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		return notify.NewRabbitMQBroker(cfg.MQ.RabbitMQ)
	case "pubsub":
		return notify.NewPubSubBroker(ctx, cfg.MQ.PubSub)
	default:
		return nil, fmt.Errorf("unknown MQ backend %q", cfg.MQ.Backend)
	}
}

// newObjectStore builds the configured resume storage backend. An empty
// backend disables resume uploads.
func newObjectStore(ctx context.Context, cfg config.Config) (storage.ObjectStore, error) {
	var (
		objects storage.ObjectStore
		err     error
	)
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case "minio":
		objects, err = storage.NewMinioStore(cfg.Storage.Minio)
	case "gcs":
		objects, err = storage.NewGCSStore(ctx, cfg.Storage.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return objects, nil
}

func closeBroker(broker notify.Broker) {
	if broker != nil {
		_ = broker.Close()
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	closeBroker(s.broker)
	return s.httpServer.Close()
}
