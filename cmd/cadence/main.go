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

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/app"
	"github.com/cadence-hr/cadence/internal/auth"
	"github.com/cadence-hr/cadence/internal/employees"
	"github.com/cadence-hr/cadence/internal/impersonation"
	"github.com/cadence-hr/cadence/internal/leave"
	"github.com/cadence-hr/cadence/internal/observability"
	"github.com/cadence-hr/cadence/internal/payroll"
	"github.com/cadence-hr/cadence/internal/permissions"
	"github.com/cadence-hr/cadence/internal/platform/cache"
	"github.com/cadence-hr/cadence/internal/platform/db"
	"github.com/cadence-hr/cadence/internal/shared"
	"github.com/cadence-hr/cadence/internal/tenants"
	"github.com/cadence-hr/cadence/jobs"
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

	sessionManager := shared.NewSessionManager(redisClient, "cadence_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	guard := access.Middleware{Logger: logger, Denials: metrics}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	permissionsRepo := permissions.NewRepository(dbpool)
	permissionsService := permissions.NewService(permissionsRepo, auditLogger)
	permissionsHandler := permissions.NewHandler(logger, permissionsService, guard)

	impersonationService := impersonation.NewService(redisClient, cfg.ImpersonationTTL, auditLogger)
	impersonationHandler := impersonation.NewHandler(logger, impersonationService, guard)

	tenantsRepo := tenants.NewRepository(dbpool)
	tenantsService := tenants.NewService(tenantsRepo, permissionsService, impersonationService, nil)
	tenantsHandler := tenants.NewHandler(logger)
	tenantMiddleware := tenants.Middleware{Service: tenantsService, Logger: logger}

	employeesRepo := employees.NewRepository(dbpool)
	employeesService := employees.NewService(employeesRepo)
	employeesHandler := employees.NewHandler(logger, employeesService, guard)

	leaveRepo := leave.NewRepository(dbpool)
	leaveService := leave.NewService(leaveRepo)
	leaveHandler := leave.NewHandler(logger, leaveService, guard)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	payrollRepo := payroll.NewRepository(dbpool)
	payrollService := payroll.NewService(payrollRepo, jobClient, auditLogger)
	payrollHandler := payroll.NewHandler(logger, payrollService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		CSRFManager:          csrfManager,
		TenantMiddleware:     tenantMiddleware,
		AuthHandler:          authHandler,
		TenantsHandler:       tenantsHandler,
		PermissionsHandler:   permissionsHandler,
		ImpersonationHandler: impersonationHandler,
		EmployeesHandler:     employeesHandler,
		LeaveHandler:         leaveHandler,
		PayrollHandler:       payrollHandler,
		JobHandler:           jobHandler,
		Metrics:              metrics,
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
