package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
	"github.com/cadence-hr/cadence/internal/shared"
)

// ErrAlreadyReviewed is returned when a decision was already recorded.
var ErrAlreadyReviewed = fmt.Errorf("%w: leave request already reviewed", httpx.ErrConflict)

// ErrInvalidRange is returned when the requested dates are inconsistent.
var ErrInvalidRange = fmt.Errorf("%w: end date before start date", httpx.ErrValidation)

var validTypes = map[LeaveType]struct{}{
	TypeVacation: {},
	TypeSick:     {},
	TypeUnpaid:   {},
	TypeOther:    {},
}

// Service coordinates leave request operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListResult is one page of requests.
type ListResult struct {
	Requests   []Request         `json:"requests"`
	Pagination shared.Pagination `json:"pagination"`
}

// List returns a page of requests for the company.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	if list == nil {
		list = []Request{}
	}
	return ListResult{
		Requests:   list,
		Pagination: shared.NewPagination(filter.Page, filter.PerPage, total),
	}, nil
}

// Get fetches one request.
func (s *Service) Get(ctx context.Context, companyID, id int64) (Request, error) {
	return s.repo.Get(ctx, companyID, id)
}

// SubmitInput carries the fields of a new request.
type SubmitInput struct {
	CompanyID  int64
	EmployeeID int64
	Type       LeaveType
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// Submit files a new pending leave request.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Request, error) {
	if _, ok := validTypes[input.Type]; !ok {
		return Request{}, fmt.Errorf("%w: unknown leave type %q", httpx.ErrValidation, input.Type)
	}
	if input.EndDate.Before(input.StartDate) {
		return Request{}, ErrInvalidRange
	}
	return s.repo.Create(ctx, Request{
		CompanyID:  input.CompanyID,
		EmployeeID: input.EmployeeID,
		Type:       input.Type,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Reason:     input.Reason,
		Status:     StatusPending,
	})
}

// Approve records an approval decision on a pending request.
func (s *Service) Approve(ctx context.Context, companyID, id, reviewerID int64) (Request, error) {
	return s.review(ctx, companyID, id, reviewerID, StatusApproved)
}

// Reject records a rejection decision on a pending request.
func (s *Service) Reject(ctx context.Context, companyID, id, reviewerID int64) (Request, error) {
	return s.review(ctx, companyID, id, reviewerID, StatusRejected)
}

func (s *Service) review(ctx context.Context, companyID, id, reviewerID int64, status RequestStatus) (Request, error) {
	current, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return Request{}, err
	}
	if current.Status != StatusPending {
		return Request{}, ErrAlreadyReviewed
	}
	return s.repo.Review(ctx, companyID, id, status, reviewerID, s.now().UTC())
}
