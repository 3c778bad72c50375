package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPayrollProcess computes totals for a payroll run.
	TaskPayrollProcess = "payroll:process"
	// TaskTrialScan expires companies whose trial has ended.
	TaskTrialScan = "billing:trial_scan"
	// TaskSendEmail sends a transactional email.
	TaskSendEmail = "mail:send"
)

// PayrollProcessPayload identifies the run to process.
type PayrollProcessPayload struct {
	CompanyID int64 `json:"company_id"`
	RunID     int64 `json:"run_id"`
}

// NewPayrollProcessTask constructs an Asynq task for payroll processing.
func NewPayrollProcessTask(payload PayrollProcessPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayrollProcess, data), nil
}

// NewTrialScanTask constructs the periodic trial expiry task. It carries no
// payload; the handler scans every company with an ended trial.
func NewTrialScanTask() *asynq.Task {
	return asynq.NewTask(TaskTrialScan, nil)
}

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSendEmail, data), nil
}
