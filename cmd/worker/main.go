package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/cadence-hr/cadence/internal/app"
	"github.com/cadence-hr/cadence/internal/observability"
	"github.com/cadence-hr/cadence/internal/payroll"
	"github.com/cadence-hr/cadence/internal/platform/cache"
	"github.com/cadence-hr/cadence/internal/platform/db"
	"github.com/cadence-hr/cadence/internal/platform/mail"
	"github.com/cadence-hr/cadence/internal/shared"
	"github.com/cadence-hr/cadence/internal/tenants"
	"github.com/cadence-hr/cadence/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)
	lock := shared.NewRedisLock(redisClient)

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

	payrollRepo := payroll.NewRepository(pool)
	payrollService := payroll.NewService(payrollRepo, jobClient, auditLogger)
	payrollHandler := jobs.NewPayrollProcessHandler(logger, payrollService, lock, metrics)

	tenantsRepo := tenants.NewRepository(pool)
	trialScanHandler := jobs.NewTrialScanHandler(logger, tenantsRepo, jobClient, metrics)

	mailSender := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	sendEmailHandler := jobs.NewSendEmailHandler(logger, mailSender, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskPayrollProcess, Handler: payrollHandler},
			{Type: jobs.TaskTrialScan, Handler: trialScanHandler},
			{Type: jobs.TaskSendEmail, Handler: sendEmailHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.TrialScanCron, Task: jobs.NewTrialScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
