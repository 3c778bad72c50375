package employees

import "time"

// EmployeeStatus tracks whether an employee is on the active roster.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
)

// Employee is a directory record scoped to a single company.
type Employee struct {
	ID         int64          `json:"id"`
	CompanyID  int64          `json:"company_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Title      string         `json:"title"`
	Department string         `json:"department"`
	Status     EmployeeStatus `json:"status"`
	HiredAt    *time.Time     `json:"hired_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ListFilter narrows directory listings.
type ListFilter struct {
	CompanyID int64
	Search    string
	Status    EmployeeStatus
	Page      int
	PerPage   int
}
