package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cadence-hr/cadence/internal/payroll"
	"github.com/cadence-hr/cadence/internal/shared"
)

// JobRecorder counts processed jobs for observability.
type JobRecorder interface {
	RecordJob(task, outcome string)
}

const payrollLockTTL = 10 * time.Minute

// NewPayrollProcessHandler builds the asynq handler that computes a
// payroll run. A redis lock keeps concurrent deliveries of the same run
// from double-processing it.
func NewPayrollProcessHandler(logger *slog.Logger, svc *payroll.Service, lock *shared.RedisLock, metrics JobRecorder) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PayrollProcessPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("payroll process payload", slog.Any("error", err))
			return asynq.SkipRetry
		}

		key := shared.PayrollLockKey(payload.RunID)
		acquired, err := lock.Acquire(ctx, key, payrollLockTTL)
		if err != nil {
			return err
		}
		if !acquired {
			logger.Warn("payroll run already being processed", slog.Int64("run_id", payload.RunID))
			return nil
		}
		defer func() { _ = lock.Release(ctx, key) }()

		if err := svc.ProcessRun(ctx, payload.CompanyID, payload.RunID); err != nil {
			logger.Error("payroll run processing failed",
				slog.Int64("run_id", payload.RunID),
				slog.Any("error", err),
			)
			_ = svc.Fail(ctx, payload.RunID)
			if metrics != nil {
				metrics.RecordJob(TaskPayrollProcess, "failure")
			}
			return err
		}

		logger.Info("payroll run completed", slog.Int64("run_id", payload.RunID))
		if metrics != nil {
			metrics.RecordJob(TaskPayrollProcess, "ok")
		}
		return nil
	}
}
