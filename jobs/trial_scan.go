package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/tenants"
)

// TrialStore is the slice of the tenants repository the scan needs.
type TrialStore interface {
	ListTrialEnded(ctx context.Context, now time.Time) ([]tenants.Company, error)
	UpdateSubscriptionStatus(ctx context.Context, companyID int64, status access.SubscriptionStatus) error
}

// Mailer queues notification emails.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// NewTrialScanHandler builds the periodic handler that moves companies
// with an ended trial to past_due, which freezes their tenant.
func NewTrialScanHandler(logger *slog.Logger, store TrialStore, mailer Mailer, metrics JobRecorder) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		expired, err := store.ListTrialEnded(ctx, time.Now().UTC())
		if err != nil {
			if metrics != nil {
				metrics.RecordJob(TaskTrialScan, "failure")
			}
			return err
		}

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(8)
		for _, company := range expired {
			group.Go(func() error {
				if err := store.UpdateSubscriptionStatus(groupCtx, company.ID, access.SubscriptionPastDue); err != nil {
					logger.Error("expire trial",
						slog.Int64("company_id", company.ID),
						slog.Any("error", err),
					)
					return nil
				}
				logger.Info("trial expired", slog.Int64("company_id", company.ID), slog.String("company", company.Name))
				if mailer != nil {
					_, _ = mailer.EnqueueSendEmail(groupCtx, SendEmailPayload{
						To:      fmt.Sprintf("billing+%s@cadencehr.app", company.Slug),
						Subject: "Your trial has ended",
						Body:    fmt.Sprintf("The trial for %s has ended. Pick a plan to keep making changes.", company.Name),
					})
				}
				return nil
			})
		}
		_ = group.Wait()

		if metrics != nil {
			metrics.RecordJob(TaskTrialScan, "ok")
		}
		return nil
	}
}
