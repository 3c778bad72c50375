package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// EmailSender delivers a message to a single recipient.
type EmailSender interface {
	Send(to, subject, body string) error
}

// NewSendEmailHandler builds the asynq handler that delivers queued mail
// through the configured SMTP sender.
func NewSendEmailHandler(logger *slog.Logger, sender EmailSender, metrics JobRecorder) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("send email payload", slog.Any("error", err))
			return asynq.SkipRetry
		}

		if err := sender.Send(payload.To, payload.Subject, payload.Body); err != nil {
			logger.Error("send email",
				slog.String("to", payload.To),
				slog.Any("error", err),
			)
			if metrics != nil {
				metrics.RecordJob(TaskSendEmail, "failure")
			}
			return err
		}

		logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
		if metrics != nil {
			metrics.RecordJob(TaskSendEmail, "ok")
		}
		return nil
	}
}
