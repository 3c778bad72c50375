package leave

import "time"

// RequestStatus is the review state of a leave request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// LeaveType categorises a request.
type LeaveType string

const (
	TypeVacation LeaveType = "vacation"
	TypeSick     LeaveType = "sick"
	TypeUnpaid   LeaveType = "unpaid"
	TypeOther    LeaveType = "other"
)

// Request is a leave request awaiting or past review.
type Request struct {
	ID         int64         `json:"id"`
	CompanyID  int64         `json:"company_id"`
	EmployeeID int64         `json:"employee_id"`
	Type       LeaveType     `json:"type"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	Reason     string        `json:"reason"`
	Status     RequestStatus `json:"status"`
	ReviewedBy *int64        `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ListFilter narrows request listings.
type ListFilter struct {
	CompanyID  int64
	EmployeeID int64
	Status     RequestStatus
	Page       int
	PerPage    int
}
