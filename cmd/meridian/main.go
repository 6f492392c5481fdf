package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-pm/meridian/internal/app"
	"github.com/meridian-pm/meridian/internal/auth"
	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/documents"
	"github.com/meridian-pm/meridian/internal/finance"
	"github.com/meridian-pm/meridian/internal/observability"
	"github.com/meridian-pm/meridian/internal/platform/cache"
	"github.com/meridian-pm/meridian/internal/platform/db"
	"github.com/meridian-pm/meridian/internal/projects"
	"github.com/meridian-pm/meridian/internal/reports"
	"github.com/meridian-pm/meridian/internal/shared"
	"github.com/meridian-pm/meridian/internal/tasks"
	"github.com/meridian-pm/meridian/internal/users"
	"github.com/meridian-pm/meridian/jobs"
	"github.com/meridian-pm/meridian/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "meridian_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	usersRepo := users.NewRepository(dbpool)
	projectsRepo := projects.NewRepository(dbpool)

	resolver := authz.NewResolver(usersRepo, projectsRepo)
	guard := authz.Middleware{Resolver: resolver, Logger: logger, Decisions: metrics}

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, guard)

	projectsService := projects.NewService(projectsRepo, jobsClient, logger)
	projectsHandler := projects.NewHandler(logger, projectsService, guard)

	tasksRepo := tasks.NewRepository(dbpool)
	tasksService := tasks.NewService(tasksRepo)
	tasksHandler := tasks.NewHandler(logger, tasksService, guard)

	documentsRepo := documents.NewRepository(dbpool)
	documentsService := documents.NewService(documentsRepo)
	documentsHandler := documents.NewHandler(logger, documentsService, guard)

	financeRepo := finance.NewRepository(dbpool)
	financeService := finance.NewService(financeRepo)
	financeHandler := finance.NewHandler(logger, financeService, guard)

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportsService := reports.NewService(projectsService, tasksService, financeService, reportClient)
	reportsHandler := reports.NewHandler(logger, reportsService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		UsersHandler:     usersHandler,
		ProjectsHandler:  projectsHandler,
		TasksHandler:     tasksHandler,
		DocumentsHandler: documentsHandler,
		FinanceHandler:   financeHandler,
		ReportsHandler:   reportsHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
