package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
)

// Repository defines persistence operations for payroll runs.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Run, int, error)
	Get(ctx context.Context, companyID, id int64) (Run, error)
	Create(ctx context.Context, run Run) (Run, error)
	Transition(ctx context.Context, companyID, id int64, from, to RunStatus) (Run, error)
	MarkCompleted(ctx context.Context, id int64, gross, net float64, employees int, at time.Time) error
	MarkFailed(ctx context.Context, id int64) error
	Lock(ctx context.Context, companyID, id, userID int64, at time.Time) (Run, error)
	SalaryTotals(ctx context.Context, companyID int64) (float64, int, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const runColumns = `id, company_id, period_start, period_end, status, gross_total, net_total, employee_count, created_by, processed_at, locked_by, locked_at, created_at, updated_at`

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.CompanyID, &run.PeriodStart, &run.PeriodEnd, &run.Status, &run.GrossTotal, &run.NetTotal, &run.EmployeeCnt, &run.CreatedBy, &run.ProcessedAt, &run.LockedBy, &run.LockedAt, &run.CreatedAt, &run.UpdatedAt)
	return run, err
}

// List returns a filtered page of runs plus the total row count.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Run, int, error) {
	where := []string{"company_id = $1"}
	args := []any{filter.CompanyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_runs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT %s FROM payroll_runs WHERE %s ORDER BY period_start DESC LIMIT $%d OFFSET $%d`,
		runColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, run)
	}
	return list, total, rows.Err()
}

// Get fetches one run within the company scope.
func (r *PGRepository) Get(ctx context.Context, companyID, id int64) (Run, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM payroll_runs WHERE company_id = $1 AND id = $2`,
		companyID, id,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, httpx.ErrNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// Create inserts a new draft run.
func (r *PGRepository) Create(ctx context.Context, run Run) (Run, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payroll_runs (company_id, period_start, period_end, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING `+runColumns,
		run.CompanyID, run.PeriodStart, run.PeriodEnd, run.Status, run.CreatedBy,
	)
	return scanRun(row)
}

// Transition moves a run between statuses, guarding the source status in
// the WHERE clause so concurrent transitions cannot race.
func (r *PGRepository) Transition(ctx context.Context, companyID, id int64, from, to RunStatus) (Run, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE payroll_runs SET status = $4, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status = $3
		RETURNING `+runColumns,
		companyID, id, from, to,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, httpx.ErrConflict
		}
		return Run{}, err
	}
	return run, nil
}

// MarkCompleted records processing results from the worker.
func (r *PGRepository) MarkCompleted(ctx context.Context, id int64, gross, net float64, employees int, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payroll_runs
		SET status = $2, gross_total = $3, net_total = $4, employee_count = $5, processed_at = $6, updated_at = NOW()
		WHERE id = $1 AND status = $7`,
		id, StatusCompleted, gross, net, employees, at, StatusProcessing,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrConflict
	}
	return nil
}

// MarkFailed flags a run whose processing job errored.
func (r *PGRepository) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE payroll_runs SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		id, StatusFailed, StatusProcessing,
	)
	return err
}

// Lock makes a completed run immutable.
func (r *PGRepository) Lock(ctx context.Context, companyID, id, userID int64, at time.Time) (Run, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE payroll_runs
		SET status = $4, locked_by = $5, locked_at = $6, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status = $3
		RETURNING `+runColumns,
		companyID, id, StatusCompleted, StatusLocked, userID, at,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, httpx.ErrConflict
		}
		return Run{}, err
	}
	return run, nil
}

// SalaryTotals sums the monthly salaries of the active roster.
func (r *PGRepository) SalaryTotals(ctx context.Context, companyID int64) (float64, int, error) {
	var gross float64
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(salary), 0), COUNT(*) FROM employees WHERE company_id = $1 AND status = 'active'`,
		companyID,
	).Scan(&gross, &count)
	return gross, count, err
}

var _ Repository = (*PGRepository)(nil)
