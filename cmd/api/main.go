package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"wellspring/internal/auth"
	"wellspring/internal/config"
	"wellspring/internal/events"
	"wellspring/internal/fitness"
	"wellspring/internal/google"
	transporthttp "wellspring/internal/http"
	"wellspring/internal/integrations"
	"wellspring/internal/platform/database"
	"wellspring/internal/platform/logging"
	"wellspring/internal/platform/migrate"
	"wellspring/internal/profiles"
	"wellspring/internal/tasks"
)

const sessionTTL = 30 * 24 * time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repositories", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	authenticator, err := auth.NewGoogleAuthenticator(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	if err != nil {
		logger.Error("failed to initialize google sign-in", "error", err)
		os.Exit(1)
	}

	linkConfig := google.NewLinkConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	calendarClient := google.NewCalendarClient(&http.Client{Timeout: 20 * time.Second})

	authService := auth.NewService(repos.auth, sessionTTL)
	eventService := events.NewService(repos.events)
	integrationService := integrations.NewService(
		repos.integrations,
		linkConfig,
		calendarClient,
		integrations.NewReconciler(repos.events),
		logger,
	)

	svcs := transporthttp.Services{
		Auth:         authService,
		Google:       authenticator,
		Integrations: integrationService,
		Events:       eventService,
		Tasks:        tasks.NewService(repos.tasks),
		Fitness:      fitness.NewService(repos.fitness),
		Profiles:     profiles.NewService(repos.profiles),
	}
	router := transporthttp.NewRouter(cfg, svcs, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go runSessionCleanup(ctx, authService, logger)

	go func() {
		logger.Info("Wellspring API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

type repositories struct {
	auth         auth.Repository
	events       events.Repository
	integrations integrations.Repository
	tasks        tasks.Repository
	fitness      fitness.Repository
	profiles     profiles.Repository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repositories")
		return repositories{
			auth:         auth.NewInMemoryRepository(),
			events:       events.NewInMemoryRepository(),
			integrations: integrations.NewInMemoryRepository(),
			tasks:        tasks.NewInMemoryRepository(),
			fitness:      fitness.NewInMemoryRepository(),
			profiles:     profiles.NewInMemoryRepository(),
		}, nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return repositories{}, nil, err
	}

	logger.Info("connected to postgres")
	return repositories{
		auth:         auth.NewPostgresRepository(db),
		events:       events.NewPostgresRepository(db),
		integrations: integrations.NewPostgresRepository(db),
		tasks:        tasks.NewPostgresRepository(db),
		fitness:      fitness.NewPostgresRepository(db),
		profiles:     profiles.NewPostgresRepository(db),
	}, cleanup, nil
}

// runSessionCleanup periodically deletes expired sessions.
func runSessionCleanup(ctx context.Context, authService *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := authService.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Error("session cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("expired sessions removed", "count", deleted)
			}
		}
	}
}
