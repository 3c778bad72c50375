package leave

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

// Repository defines persistence operations for leave requests.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Request, int, error)
	Get(ctx context.Context, companyID, id int64) (Request, error)
	Create(ctx context.Context, req Request) (Request, error)
	Review(ctx context.Context, companyID, id int64, status RequestStatus, reviewerID int64, at time.Time) (Request, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const requestColumns = `id, company_id, employee_id, leave_type, start_date, end_date, reason, status, reviewed_by, reviewed_at, created_at, updated_at`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.CompanyID, &req.EmployeeID, &req.Type, &req.StartDate, &req.EndDate, &req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

// List returns a filtered page of requests plus the total row count.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Request, int, error) {
	where := []string{"company_id = $1"}
	args := []any{filter.CompanyID}
	if filter.EmployeeID != 0 {
		args = append(args, filter.EmployeeID)
		where = append(where, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE `+cond, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf(`SELECT %s FROM leave_requests WHERE %s ORDER BY start_date DESC LIMIT $%d OFFSET $%d`,
		requestColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, req)
	}
	return list, total, rows.Err()
}

// Get fetches one request within the company scope.
func (r *PGRepository) Get(ctx context.Context, companyID, id int64) (Request, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM leave_requests WHERE company_id = $1 AND id = $2`,
		companyID, id,
	)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, httpx.ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

// Create inserts a new pending request.
func (r *PGRepository) Create(ctx context.Context, req Request) (Request, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leave_requests (company_id, employee_id, leave_type, start_date, end_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+requestColumns,
		req.CompanyID, req.EmployeeID, req.Type, req.StartDate, req.EndDate, req.Reason, req.Status,
	)
	return scanRequest(row)
}

// Review records an approve/reject decision. Only pending requests can be
// reviewed; the WHERE clause keeps the transition atomic.
func (r *PGRepository) Review(ctx context.Context, companyID, id int64, status RequestStatus, reviewerID int64, at time.Time) (Request, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leave_requests
		SET status = $3, reviewed_by = $4, reviewed_at = $5, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status = $6
		RETURNING `+requestColumns,
		companyID, id, status, reviewerID, at, StatusPending,
	)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, httpx.ErrConflict
		}
		return Request{}, err
	}
	return req, nil
}

var _ Repository = (*PGRepository)(nil)
