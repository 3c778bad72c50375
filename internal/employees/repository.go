package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cadence-hr/cadence/internal/platform/db"
	"github.com/cadence-hr/cadence/internal/platform/httpx"
)

// Repository defines persistence operations for the employee directory.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Employee, int, error)
	Get(ctx context.Context, companyID, id int64) (Employee, error)
	Create(ctx context.Context, emp Employee, seatLimit int) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	SetStatus(ctx context.Context, companyID, id int64, status EmployeeStatus) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const employeeColumns = `id, company_id, name, email, title, department, status, hired_at, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.CompanyID, &emp.Name, &emp.Email, &emp.Title, &emp.Department, &emp.Status, &emp.HiredAt, &emp.CreatedAt, &emp.UpdatedAt)
	return emp, err
}

// List returns a filtered directory page plus the total row count.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Employee, int, error) {
	where := []string{"company_id = $1"}
	args := []any{filter.CompanyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE `+cond, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		employeeColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, emp)
	}
	return list, total, rows.Err()
}

// Get fetches one employee within the company scope.
func (r *PGRepository) Get(ctx context.Context, companyID, id int64) (Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND id = $2`,
		companyID, id,
	)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, httpx.ErrNotFound
		}
		return Employee{}, err
	}
	return emp, nil
}

// Create inserts a new directory record. When seatLimit is positive the
// active-roster count is checked inside the same transaction, with the
// company row locked so concurrent creates cannot slip past the cap.
func (r *PGRepository) Create(ctx context.Context, emp Employee, seatLimit int) (Employee, error) {
	var created Employee
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if seatLimit > 0 {
			var companyID int64
			if err := tx.QueryRow(ctx, `SELECT id FROM companies WHERE id = $1 FOR UPDATE`, emp.CompanyID).Scan(&companyID); err != nil {
				return err
			}
			var active int
			if err := tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM employees WHERE company_id = $1 AND status = $2`,
				emp.CompanyID, StatusActive,
			).Scan(&active); err != nil {
				return err
			}
			if active >= seatLimit {
				return ErrSeatLimit
			}
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO employees (company_id, name, email, title, department, status, hired_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			RETURNING `+employeeColumns,
			emp.CompanyID, emp.Name, emp.Email, emp.Title, emp.Department, emp.Status, emp.HiredAt,
		)
		var err error
		created, err = scanEmployee(row)
		return err
	})
	if err != nil {
		return Employee{}, err
	}
	return created, nil
}

// Update rewrites the mutable fields of an employee.
func (r *PGRepository) Update(ctx context.Context, emp Employee) (Employee, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE employees
		SET name = $3, email = $4, title = $5, department = $6, hired_at = $7, updated_at = NOW()
		WHERE company_id = $1 AND id = $2
		RETURNING `+employeeColumns,
		emp.CompanyID, emp.ID, emp.Name, emp.Email, emp.Title, emp.Department, emp.HiredAt,
	)
	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, httpx.ErrNotFound
		}
		return Employee{}, err
	}
	return updated, nil
}

// SetStatus flips an employee between active and inactive.
func (r *PGRepository) SetStatus(ctx context.Context, companyID, id int64, status EmployeeStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE employees SET status = $3, updated_at = NOW() WHERE company_id = $1 AND id = $2`,
		companyID, id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
