package employees

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
)

type memoryRepo struct {
	nextID    int64
	employees map[int64]Employee
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, employees: make(map[int64]Employee)}
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Employee, int, error) {
	var list []Employee
	for _, emp := range r.employees {
		if emp.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && emp.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(emp.Name), strings.ToLower(filter.Search)) {
			continue
		}
		list = append(list, emp)
	}
	return list, len(list), nil
}

func (r *memoryRepo) Get(ctx context.Context, companyID, id int64) (Employee, error) {
	emp, ok := r.employees[id]
	if !ok || emp.CompanyID != companyID {
		return Employee{}, httpx.ErrNotFound
	}
	return emp, nil
}

func (r *memoryRepo) Create(ctx context.Context, emp Employee, seatLimit int) (Employee, error) {
	if seatLimit > 0 {
		active := 0
		for _, existing := range r.employees {
			if existing.CompanyID == emp.CompanyID && existing.Status == StatusActive {
				active++
			}
		}
		if active >= seatLimit {
			return Employee{}, ErrSeatLimit
		}
	}
	emp.ID = r.nextID
	r.nextID++
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *memoryRepo) Update(ctx context.Context, emp Employee) (Employee, error) {
	current, ok := r.employees[emp.ID]
	if !ok || current.CompanyID != emp.CompanyID {
		return Employee{}, httpx.ErrNotFound
	}
	emp.Status = current.Status
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *memoryRepo) SetStatus(ctx context.Context, companyID, id int64, status EmployeeStatus) error {
	emp, ok := r.employees[id]
	if !ok || emp.CompanyID != companyID {
		return httpx.ErrNotFound
	}
	emp.Status = status
	r.employees[id] = emp
	return nil
}

func TestCreateEnforcesSeatLimit(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, CreateInput{CompanyID: 1, Name: "Person", Email: "p@acme.test", SeatLimit: 2})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, CreateInput{CompanyID: 1, Name: "Extra", Email: "x@acme.test", SeatLimit: 2})
	require.ErrorIs(t, err, ErrSeatLimit)
}

func TestCreateUnlimitedWhenNoSeatLimit(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		_, err := svc.Create(ctx, CreateInput{CompanyID: 1, Name: "Person", Email: "p@acme.test"})
		require.NoError(t, err)
	}
}

func TestDeactivateFreesSeat(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{CompanyID: 1, Name: "One", Email: "one@acme.test", SeatLimit: 1})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{CompanyID: 1, Name: "Two", Email: "two@acme.test", SeatLimit: 1})
	require.ErrorIs(t, err, ErrSeatLimit)

	require.NoError(t, svc.Deactivate(ctx, 1, first.ID))

	_, err = svc.Create(ctx, CreateInput{CompanyID: 1, Name: "Two", Email: "two@acme.test", SeatLimit: 1})
	require.NoError(t, err)
}

func TestGetScopedToCompany(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	emp, err := svc.Create(ctx, CreateInput{CompanyID: 1, Name: "One", Email: "one@acme.test"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, emp.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
