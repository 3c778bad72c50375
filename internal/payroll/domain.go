package payroll

import "time"

// RunStatus is the lifecycle state of a payroll run.
//
// Runs move draft -> processing -> completed -> locked. Processing happens
// on the worker; locking is a separate, explicitly permissioned step that
// makes a completed run immutable.
type RunStatus string

const (
	StatusDraft      RunStatus = "draft"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusLocked     RunStatus = "locked"
	StatusFailed     RunStatus = "failed"
)

// Run is one payroll run for a pay period.
type Run struct {
	ID          int64      `json:"id"`
	CompanyID   int64      `json:"company_id"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	Status      RunStatus  `json:"status"`
	GrossTotal  float64    `json:"gross_total"`
	NetTotal    float64    `json:"net_total"`
	EmployeeCnt int        `json:"employee_count"`
	CreatedBy   int64      `json:"created_by"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	LockedBy    *int64     `json:"locked_by,omitempty"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListFilter narrows run listings.
type ListFilter struct {
	CompanyID int64
	Status    RunStatus
	Page      int
	PerPage   int
}
