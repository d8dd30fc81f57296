package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/neurolock/neurolock/internal/neurolock/http"
	"github.com/neurolock/neurolock/internal/neurolock/nonce"
	"github.com/neurolock/neurolock/internal/neurolock/service"
	"github.com/neurolock/neurolock/internal/neurolock/store"
	"github.com/neurolock/neurolock/internal/neurolock/store/drivers/sqlite"
	"github.com/neurolock/neurolock/pkg/cryptox"
	"github.com/neurolock/neurolock/pkg/jwtx"
	"github.com/neurolock/neurolock/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the liveness service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	nonces  *nonce.Store
	keypair *jwtx.Keypair

	employeeService     *service.EmployeeService
	sessionService      *service.SessionService
	challengeService    *service.ChallengeService
	mfaService          *service.MFAService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		nonces: nonce.NewStore(),
		logger: slogx.New(slogx.Config{
			Service: "neurolock",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Sessions are signed with a per-process key. A restart invalidates all
	// outstanding sessions, matching the in-memory challenge store.
	keypair, err := jwtx.NewEphemeralKeypair(cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session keypair: %w", err)
	}
	app.keypair = keypair

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if err := app.auditService.Start(); err != nil {
		return fmt.Errorf("failed to start audit service: %w", err)
	}
	app.housekeepingService.Start()

	app.logger.Info("neurolock service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down neurolock service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop background workers after the server so in-flight verifications
	// can still enqueue their audit records.
	app.housekeepingService.Stop()
	app.auditService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("neurolock service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")

	empty, err := db.Employees().IsEmpty(context.Background())
	if err != nil {
		return fmt.Errorf("failed to inspect employee table: %w", err)
	}
	if empty {
		app.logger.Info("no employees registered yet, self-registration is open",
			"path", "/v1/employees/register")
	}
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.employeeService = &service.EmployeeService{
		Store:       app.db,
		CompanyCode: app.cfg.CompanyCode,
	}
	app.sessionService = &service.SessionService{
		Keypair: app.keypair,
		TTL:     app.cfg.SessionTTL,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: app.cfg.Issuer,
	}

	app.auditService = service.NewAuditService(app.db, app.logger, app.cfg.CaptureDir, 0)

	app.challengeService = &service.ChallengeService{
		Nonces: app.nonces,
		Policy: service.Policy{
			TTL:          app.cfg.ChallengeTTL,
			Grace:        app.cfg.ChallengeGrace,
			MaxSkew:      app.cfg.MaxClockSkew,
			MinFocus:     app.cfg.MinFocus,
			MinFaceBytes: app.cfg.MinFaceBytes,
		},
		Audit: app.auditService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.nonces,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.ChallengeGrace,
		app.cfg.CaptureRetention,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keypair,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.EmployeeService = app.employeeService
	router.SessionService = app.sessionService
	router.ChallengeService = app.challengeService
	router.MFAService = app.mfaService
	router.AuditService = app.auditService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
