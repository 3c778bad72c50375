package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
	"github.com/cadence-hr/cadence/internal/shared"
)

type memoryRepo struct {
	nextID   int64
	runs     map[int64]Run
	salaries map[int64][]float64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, runs: make(map[int64]Run), salaries: make(map[int64][]float64)}
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Run, int, error) {
	var list []Run
	for _, run := range r.runs {
		if run.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		list = append(list, run)
	}
	return list, len(list), nil
}

func (r *memoryRepo) Get(ctx context.Context, companyID, id int64) (Run, error) {
	run, ok := r.runs[id]
	if !ok || run.CompanyID != companyID {
		return Run{}, httpx.ErrNotFound
	}
	return run, nil
}

func (r *memoryRepo) Create(ctx context.Context, run Run) (Run, error) {
	run.ID = r.nextID
	r.nextID++
	r.runs[run.ID] = run
	return run, nil
}

func (r *memoryRepo) Transition(ctx context.Context, companyID, id int64, from, to RunStatus) (Run, error) {
	run, ok := r.runs[id]
	if !ok || run.CompanyID != companyID || run.Status != from {
		return Run{}, httpx.ErrConflict
	}
	run.Status = to
	r.runs[id] = run
	return run, nil
}

func (r *memoryRepo) MarkCompleted(ctx context.Context, id int64, gross, net float64, employees int, at time.Time) error {
	run, ok := r.runs[id]
	if !ok || run.Status != StatusProcessing {
		return httpx.ErrConflict
	}
	run.Status = StatusCompleted
	run.GrossTotal = gross
	run.NetTotal = net
	run.EmployeeCnt = employees
	run.ProcessedAt = &at
	r.runs[id] = run
	return nil
}

func (r *memoryRepo) MarkFailed(ctx context.Context, id int64) error {
	run, ok := r.runs[id]
	if !ok || run.Status != StatusProcessing {
		return nil
	}
	run.Status = StatusFailed
	r.runs[id] = run
	return nil
}

func (r *memoryRepo) Lock(ctx context.Context, companyID, id, userID int64, at time.Time) (Run, error) {
	run, ok := r.runs[id]
	if !ok || run.CompanyID != companyID || run.Status != StatusCompleted {
		return Run{}, httpx.ErrConflict
	}
	run.Status = StatusLocked
	run.LockedBy = &userID
	run.LockedAt = &at
	r.runs[id] = run
	return run, nil
}

func (r *memoryRepo) SalaryTotals(ctx context.Context, companyID int64) (float64, int, error) {
	var gross float64
	for _, s := range r.salaries[companyID] {
		gross += s
	}
	return gross, len(r.salaries[companyID]), nil
}

type fakeQueue struct {
	enqueued []int64
	fail     error
}

func (q *fakeQueue) EnqueueProcessRun(ctx context.Context, companyID, runID int64) error {
	if q.fail != nil {
		return q.fail
	}
	q.enqueued = append(q.enqueued, runID)
	return nil
}

type recordingAudit struct {
	entries []shared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.entries = append(a.entries, log)
	return nil
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService() (*Service, *memoryRepo, *fakeQueue, *recordingAudit) {
	repo := newMemoryRepo()
	queue := &fakeQueue{}
	audit := &recordingAudit{}
	return NewService(repo, queue, audit), repo, queue, audit
}

func createDraft(t *testing.T, svc *Service) Run {
	t.Helper()
	run, err := svc.CreateDraft(context.Background(), CreateInput{
		CompanyID:   1,
		PeriodStart: day("2026-08-01"),
		PeriodEnd:   day("2026-08-31"),
		CreatedBy:   42,
	})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, run.Status)
	return run
}

func TestRunLifecycle(t *testing.T) {
	svc, _, queue, audit := newTestService()
	ctx := context.Background()
	run := createDraft(t, svc)

	processing, err := svc.Process(ctx, 1, run.ID, 42)
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, processing.Status)
	require.Equal(t, []int64{run.ID}, queue.enqueued)

	require.NoError(t, svc.Complete(ctx, run.ID, 125000, 98000, 14))

	locked, err := svc.Lock(ctx, 1, run.ID, 42)
	require.NoError(t, err)
	require.Equal(t, StatusLocked, locked.Status)
	require.NotNil(t, locked.LockedBy)

	actions := make([]string, 0, len(audit.entries))
	for _, e := range audit.entries {
		actions = append(actions, e.Action)
	}
	require.Equal(t, []string{"payroll_run.create", "payroll_run.process", "payroll_run.lock"}, actions)
}

func TestProcessRunComputesTotals(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	repo.salaries[1] = []float64{5000, 4000, 3000}
	run := createDraft(t, svc)

	_, err := svc.Process(ctx, 1, run.ID, 42)
	require.NoError(t, err)

	require.NoError(t, svc.ProcessRun(ctx, 1, run.ID))

	current, err := repo.Get(ctx, 1, run.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, current.Status)
	require.InDelta(t, 12000.0, current.GrossTotal, 0.001)
	require.InDelta(t, 9600.0, current.NetTotal, 0.001)
	require.Equal(t, 3, current.EmployeeCnt)
}

func TestProcessRunRequiresProcessingStatus(t *testing.T) {
	svc, _, _, _ := newTestService()
	run := createDraft(t, svc)

	err := svc.ProcessRun(context.Background(), 1, run.ID)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestProcessRequiresDraft(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	run := createDraft(t, svc)

	_, err := svc.Process(ctx, 1, run.ID, 42)
	require.NoError(t, err)

	_, err = svc.Process(ctx, 1, run.ID, 42)
	require.ErrorIs(t, err, ErrNotDraft)
}

func TestLockRequiresCompleted(t *testing.T) {
	svc, _, _, _ := newTestService()
	run := createDraft(t, svc)

	_, err := svc.Lock(context.Background(), 1, run.ID, 42)
	require.ErrorIs(t, err, ErrNotCompleted)
}

func TestEnqueueFailureRollsBack(t *testing.T) {
	svc, repo, queue, _ := newTestService()
	ctx := context.Background()
	run := createDraft(t, svc)

	queue.fail = errors.New("redis down")
	_, err := svc.Process(ctx, 1, run.ID, 42)
	require.Error(t, err)

	current, err := repo.Get(ctx, 1, run.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, current.Status)
}

func TestCreateRejectsInvertedPeriod(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateDraft(context.Background(), CreateInput{
		CompanyID:   1,
		PeriodStart: day("2026-08-31"),
		PeriodEnd:   day("2026-08-01"),
		CreatedBy:   42,
	})
	require.ErrorIs(t, err, ErrInvalidPeriod)
}
