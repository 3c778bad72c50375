package payroll

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
	"github.com/cadence-hr/cadence/internal/shared"
)

// ErrNotDraft is returned when processing is requested on a non-draft run.
var ErrNotDraft = fmt.Errorf("%w: payroll run is not in draft", httpx.ErrConflict)

// ErrNotCompleted is returned when locking is requested before processing
// finished.
var ErrNotCompleted = fmt.Errorf("%w: payroll run is not completed", httpx.ErrConflict)

// ErrInvalidPeriod is returned when the pay period dates are inconsistent.
var ErrInvalidPeriod = fmt.Errorf("%w: period end before period start", httpx.ErrValidation)

// Enqueuer pushes payroll processing work onto the background queue.
type Enqueuer interface {
	EnqueueProcessRun(ctx context.Context, companyID, runID int64) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates payroll run lifecycle operations.
type Service struct {
	repo  Repository
	queue Enqueuer
	audit AuditPort
	now   func() time.Time
}

// NewService builds Service.
func NewService(repo Repository, queue Enqueuer, audit AuditPort) *Service {
	return &Service{repo: repo, queue: queue, audit: audit, now: time.Now}
}

// ListResult is one page of runs.
type ListResult struct {
	Runs       []Run             `json:"runs"`
	Pagination shared.Pagination `json:"pagination"`
}

// List returns a page of runs for the company.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	if list == nil {
		list = []Run{}
	}
	return ListResult{
		Runs:       list,
		Pagination: shared.NewPagination(filter.Page, filter.PerPage, total),
	}, nil
}

// Get fetches one run.
func (s *Service) Get(ctx context.Context, companyID, id int64) (Run, error) {
	return s.repo.Get(ctx, companyID, id)
}

// CreateInput carries the fields of a new draft run.
type CreateInput struct {
	CompanyID   int64
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedBy   int64
}

// CreateDraft opens a new draft run for a pay period.
func (s *Service) CreateDraft(ctx context.Context, input CreateInput) (Run, error) {
	if input.PeriodEnd.Before(input.PeriodStart) {
		return Run{}, ErrInvalidPeriod
	}
	run, err := s.repo.Create(ctx, Run{
		CompanyID:   input.CompanyID,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		Status:      StatusDraft,
		CreatedBy:   input.CreatedBy,
	})
	if err != nil {
		return Run{}, err
	}
	s.recordTransition(ctx, input.CreatedBy, run, "payroll_run.create")
	return run, nil
}

// Process moves a draft run to processing and enqueues the worker job.
func (s *Service) Process(ctx context.Context, companyID, id, actorID int64) (Run, error) {
	run, err := s.repo.Transition(ctx, companyID, id, StatusDraft, StatusProcessing)
	if err != nil {
		if errors.Is(err, httpx.ErrConflict) {
			return Run{}, ErrNotDraft
		}
		return Run{}, err
	}
	if err := s.queue.EnqueueProcessRun(ctx, companyID, id); err != nil {
		// Roll the run back so it can be retried from draft.
		if _, rbErr := s.repo.Transition(ctx, companyID, id, StatusProcessing, StatusDraft); rbErr != nil {
			return Run{}, fmt.Errorf("enqueue payroll run: %w (rollback failed: %v)", err, rbErr)
		}
		return Run{}, fmt.Errorf("enqueue payroll run: %w", err)
	}
	s.recordTransition(ctx, actorID, run, "payroll_run.process")
	return run, nil
}

// Lock makes a completed run immutable.
func (s *Service) Lock(ctx context.Context, companyID, id, actorID int64) (Run, error) {
	run, err := s.repo.Lock(ctx, companyID, id, actorID, s.now().UTC())
	if err != nil {
		if errors.Is(err, httpx.ErrConflict) {
			return Run{}, ErrNotCompleted
		}
		return Run{}, err
	}
	s.recordTransition(ctx, actorID, run, "payroll_run.lock")
	return run, nil
}

// flatWithholding approximates deductions until per-employee tax tables
// exist.
const flatWithholding = 0.2

// ProcessRun computes totals for a processing run and marks it completed.
// Called from the worker.
func (s *Service) ProcessRun(ctx context.Context, companyID, runID int64) error {
	run, err := s.repo.Get(ctx, companyID, runID)
	if err != nil {
		return err
	}
	if run.Status != StatusProcessing {
		return fmt.Errorf("%w: payroll run is not processing", httpx.ErrConflict)
	}
	gross, employees, err := s.repo.SalaryTotals(ctx, companyID)
	if err != nil {
		return err
	}
	net := gross * (1 - flatWithholding)
	return s.Complete(ctx, runID, gross, net, employees)
}

// Complete records processing results. Called from the worker.
func (s *Service) Complete(ctx context.Context, runID int64, gross, net float64, employees int) error {
	return s.repo.MarkCompleted(ctx, runID, gross, net, employees, s.now().UTC())
}

// Fail flags a run whose processing job errored. Called from the worker.
func (s *Service) Fail(ctx context.Context, runID int64) error {
	return s.repo.MarkFailed(ctx, runID)
}

func (s *Service) recordTransition(ctx context.Context, actorID int64, run Run, action string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:   actorID,
		CompanyID: run.CompanyID,
		Action:    action,
		Entity:    "payroll_run",
		EntityID:  strconv.FormatInt(run.ID, 10),
		Meta: map[string]any{
			"status":       string(run.Status),
			"period_start": run.PeriodStart.Format("2006-01-02"),
			"period_end":   run.PeriodEnd.Format("2006-01-02"),
		},
	})
}
