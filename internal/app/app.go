// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/warroomhq/incident-command/internal/board"
	"github.com/warroomhq/incident-command/internal/config"
	"github.com/warroomhq/incident-command/internal/dashboard"
	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/export"
	"github.com/warroomhq/incident-command/internal/identity"
	"github.com/warroomhq/incident-command/internal/identity/token"
	"github.com/warroomhq/incident-command/internal/incidents"
	"github.com/warroomhq/incident-command/internal/lov"
	"github.com/warroomhq/incident-command/internal/pkg/httputil"
	pkgpostgres "github.com/warroomhq/incident-command/internal/pkg/postgres"
	"github.com/warroomhq/incident-command/internal/seed"
	"github.com/warroomhq/incident-command/internal/storage"
	storagefile "github.com/warroomhq/incident-command/internal/storage/file"
	storagepostgres "github.com/warroomhq/incident-command/internal/storage/postgres"
	"github.com/warroomhq/incident-command/internal/version"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	store         storage.Store
	db            *pgxpool.Pool
	server        *http.Server
	metricsServer *http.Server
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)
	slog.SetDefault(logger)

	app := &App{
		config: cfg,
		logger: logger,
	}

	store, err := app.openStore()
	if err != nil {
		return nil, err
	}
	app.store = store

	router, err := app.setupRouter()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// openStore builds the snapshot store selected by configuration. The
// postgres backend runs migrations before first use.
func (a *App) openStore() (storage.Store, error) {
	switch a.config.Storage.Backend {
	case config.BackendPostgres:
		dbCfg := a.config.Storage.Database

		connectCtx, cancel := context.WithTimeout(context.Background(), dbCfg.ConnectTimeout)
		defer cancel()

		db, err := pkgpostgres.Connect(connectCtx, pkgpostgres.Config{
			URL:             dbCfg.URL,
			MaxOpenConns:    dbCfg.MaxOpenConns,
			ConnMaxLifetime: dbCfg.ConnMaxLifetime,
			ConnectAttempts: dbCfg.ConnectAttempts,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		if err := pkgpostgres.Migrate(dbCfg.MigrationsURL, dbCfg.URL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		a.db = db
		return storagepostgres.NewStore(db), nil

	default:
		store, err := storagefile.New(a.config.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return store, nil
	}
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
		"storage", a.config.Storage.Backend,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if a.db != nil {
		a.db.Close()
	}

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() (*chi.Mux, error) {
	ctx := context.Background()

	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		http.ServeFile(w, r, "api/openapi/openapi.yaml")
	})

	lovService, err := lov.NewService(ctx, a.store)
	if err != nil {
		return nil, fmt.Errorf("init lov service: %w", err)
	}
	lovHandler := lov.NewHandler(lovService)

	incidentService, err := incidents.NewService(ctx, a.store, lovService)
	if err != nil {
		return nil, fmt.Errorf("init incident service: %w", err)
	}
	incidentHandler := incidents.NewHandler(incidentService)

	boardService := board.NewService(incidentService, lovService)
	boardHandler := board.NewHandler(boardService)

	dashboardHandler := dashboard.NewHandler(dashboard.NewService(incidentService, lovService))
	exportHandler := export.NewHandler(incidentService)
	seedHandler := seed.NewHandler(seed.NewService(incidentService, lovService))

	identityRepo, err := identity.NewSnapshotRepository(ctx, a.store)
	if err != nil {
		return nil, fmt.Errorf("init identity repository: %w", err)
	}
	authenticator := token.NewAuthenticator(a.config.Auth.JWTSecret, a.config.Auth.TokenDuration)
	identityService := identity.NewService(identityRepo, authenticator)
	identityHandler := identity.NewHandler(identityService)

	if err := identityService.Bootstrap(ctx, a.config.Auth.AdminEmail, a.config.Auth.AdminPassword); err != nil {
		return nil, err
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httputil.RateLimitMiddleware(rate.Limit(a.config.Auth.LoginRateLimit), a.config.Auth.LoginBurst))
			identityHandler.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(authenticator))

			identityHandler.RegisterProtectedRoutes(r)
			lovHandler.RegisterRoutes(r)
			incidentHandler.RegisterRoutes(r)
			boardHandler.RegisterRoutes(r)
			dashboardHandler.RegisterRoutes(r)
			exportHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleSME))
				incidentHandler.RegisterSMERoutes(r)
				boardHandler.RegisterSMERoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleWarroom))
				incidentHandler.RegisterWarroomRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleAdmin))
				identityHandler.RegisterAdminRoutes(r)
				lovHandler.RegisterAdminRoutes(r)
				incidentHandler.RegisterAdminRoutes(r)
				seedHandler.RegisterAdminRoutes(r)
			})
		})
	})

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := a.db.Ping(ctx); err != nil {
			a.logger.Error("readiness check failed", "error", err)
			httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
