package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
)

type memoryRepo struct {
	nextID   int64
	requests map[int64]Request
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, requests: make(map[int64]Request)}
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Request, int, error) {
	var list []Request
	for _, req := range r.requests {
		if req.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		list = append(list, req)
	}
	return list, len(list), nil
}

func (r *memoryRepo) Get(ctx context.Context, companyID, id int64) (Request, error) {
	req, ok := r.requests[id]
	if !ok || req.CompanyID != companyID {
		return Request{}, httpx.ErrNotFound
	}
	return req, nil
}

func (r *memoryRepo) Create(ctx context.Context, req Request) (Request, error) {
	req.ID = r.nextID
	r.nextID++
	r.requests[req.ID] = req
	return req, nil
}

func (r *memoryRepo) Review(ctx context.Context, companyID, id int64, status RequestStatus, reviewerID int64, at time.Time) (Request, error) {
	req, ok := r.requests[id]
	if !ok || req.CompanyID != companyID || req.Status != StatusPending {
		return Request{}, httpx.ErrConflict
	}
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &at
	r.requests[id] = req
	return req, nil
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func submitPending(t *testing.T, svc *Service) Request {
	t.Helper()
	req, err := svc.Submit(context.Background(), SubmitInput{
		CompanyID:  1,
		EmployeeID: 7,
		Type:       TypeVacation,
		StartDate:  day("2026-09-01"),
		EndDate:    day("2026-09-05"),
		Reason:     "holiday",
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, req.Status)
	return req
}

func TestSubmitAndApprove(t *testing.T) {
	svc := NewService(newMemoryRepo())
	req := submitPending(t, svc)

	approved, err := svc.Approve(context.Background(), 1, req.ID, 42)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	require.Equal(t, int64(42), *approved.ReviewedBy)
}

func TestApproveTwiceConflicts(t *testing.T) {
	svc := NewService(newMemoryRepo())
	req := submitPending(t, svc)

	_, err := svc.Approve(context.Background(), 1, req.ID, 42)
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), 1, req.ID, 42)
	require.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestSubmitRejectsInvertedRange(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Submit(context.Background(), SubmitInput{
		CompanyID:  1,
		EmployeeID: 7,
		Type:       TypeSick,
		StartDate:  day("2026-09-05"),
		EndDate:    day("2026-09-01"),
	})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Submit(context.Background(), SubmitInput{
		CompanyID:  1,
		EmployeeID: 7,
		Type:       LeaveType("sabbatical"),
		StartDate:  day("2026-09-01"),
		EndDate:    day("2026-09-02"),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReviewScopedToCompany(t *testing.T) {
	svc := NewService(newMemoryRepo())
	req := submitPending(t, svc)

	_, err := svc.Approve(context.Background(), 2, req.ID, 42)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
