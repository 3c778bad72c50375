package employees

import (
	"context"
	"fmt"
	"time"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
	"github.com/cadence-hr/cadence/internal/shared"
)

// ErrSeatLimit is returned when the plan's employee cap is exhausted.
var ErrSeatLimit = fmt.Errorf("%w: employee limit for plan reached", httpx.ErrConflict)

// Service coordinates directory operations.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListResult is one directory page.
type ListResult struct {
	Employees  []Employee        `json:"employees"`
	Pagination shared.Pagination `json:"pagination"`
}

// List returns a directory page for the company.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	if list == nil {
		list = []Employee{}
	}
	return ListResult{
		Employees:  list,
		Pagination: shared.NewPagination(filter.Page, filter.PerPage, total),
	}, nil
}

// Get fetches one employee.
func (s *Service) Get(ctx context.Context, companyID, id int64) (Employee, error) {
	return s.repo.Get(ctx, companyID, id)
}

// CreateInput carries the fields for a new directory record. SeatLimit is
// the plan's employee cap; zero means unlimited.
type CreateInput struct {
	CompanyID  int64
	Name       string
	Email      string
	Title      string
	Department string
	HiredAt    *time.Time
	SeatLimit  int
}

// Create adds an employee, enforcing the plan seat cap.
func (s *Service) Create(ctx context.Context, input CreateInput) (Employee, error) {
	return s.repo.Create(ctx, Employee{
		CompanyID:  input.CompanyID,
		Name:       input.Name,
		Email:      input.Email,
		Title:      input.Title,
		Department: input.Department,
		Status:     StatusActive,
		HiredAt:    input.HiredAt,
	}, input.SeatLimit)
}

// UpdateInput carries the mutable fields of an employee.
type UpdateInput struct {
	CompanyID  int64
	ID         int64
	Name       string
	Email      string
	Title      string
	Department string
	HiredAt    *time.Time
}

// Update rewrites an employee record.
func (s *Service) Update(ctx context.Context, input UpdateInput) (Employee, error) {
	return s.repo.Update(ctx, Employee{
		CompanyID:  input.CompanyID,
		ID:         input.ID,
		Name:       input.Name,
		Email:      input.Email,
		Title:      input.Title,
		Department: input.Department,
		HiredAt:    input.HiredAt,
	})
}

// Deactivate removes an employee from the active roster without deleting
// history.
func (s *Service) Deactivate(ctx context.Context, companyID, id int64) error {
	return s.repo.SetStatus(ctx, companyID, id, StatusInactive)
}
